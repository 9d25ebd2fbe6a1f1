// Package usecase implements the business logic for the users feature.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"userapi/internal/feature/users/domain"
	"userapi/internal/feature/users/domain/entity"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention, the interface is defined by the consumer
// (usecase), not the provider (adapters).
type UserRepository interface {
	// ExistsByEmail reports whether a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindByID retrieves a user with its phones by id.
	// It returns domain.ErrUserNotFound if no user matches.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a user with its phones by email.
	// It returns domain.ErrUserNotFound if no user matches.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindAll retrieves every user with their phones.
	FindAll(ctx context.Context) ([]entity.User, error)

	// Create persists a new user together with its phones.
	// It returns domain.ErrEmailAlreadyExists on a unique index conflict.
	Create(ctx context.Context, user *entity.User) error

	// Update persists all user fields and replaces the phone collection
	// wholesale, inside a single transaction.
	// It returns domain.ErrEmailAlreadyExists on a unique index conflict.
	Update(ctx context.Context, user *entity.User) error

	// ExistsByID reports whether a user with the given id exists.
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// DeleteByID removes the user and, by ownership, its phones.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// TokenGenerator abstracts signed token issuance.
// The subject is always the user's id; callers must not mix subjects
// within a deployment.
type TokenGenerator interface {
	GenerateToken(userID uuid.UUID) (string, error)
}

// PhoneInput carries one phone record of a create/update/patch request.
type PhoneInput struct {
	Number      string
	CityCode    string
	CountryCode string
}

// UserInput carries the full user payload for create and update.
type UserInput struct {
	Name     string
	Email    string
	Password string
	Phones   []PhoneInput
}

// PatchUserInput carries a partial user payload.
// Nil fields are left untouched; phones are only applied when non-empty.
type PatchUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Phones   []PhoneInput
}

// UserUsecase orchestrates validation, uniqueness checks, entity
// construction and mutation, phone replacement, and token issuance.
type UserUsecase struct {
	users     UserRepository
	tokens    TokenGenerator
	validator *Validator
}

// NewUserUsecase creates a new UserUsecase with its collaborators.
func NewUserUsecase(users UserRepository, tokens TokenGenerator, validator *Validator) *UserUsecase {
	return &UserUsecase{
		users:     users,
		tokens:    tokens,
		validator: validator,
	}
}

// Create registers a new user.
// Checks run in a fixed order: email format, email uniqueness, password
// format. The order determines which error a caller sees when several
// conditions fail at once.
func (u *UserUsecase) Create(ctx context.Context, in UserInput) (*entity.User, error) {
	if err := u.validator.ValidateEmail(in.Email); err != nil {
		return nil, err
	}

	taken, err := u.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, domain.ErrEmailAlreadyExists
	}

	if err := u.validator.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:        uuid.New(),
		Name:      in.Name,
		Email:     in.Email,
		Password:  string(hashed),
		Created:   now,
		Modified:  now,
		LastLogin: now,
		Active:    true,
	}
	user.Phones = buildPhones(user.ID, in.Phones)

	token, err := u.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.Token = token

	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetAll returns every registered user.
func (u *UserUsecase) GetAll(ctx context.Context) ([]entity.User, error) {
	return u.users.FindAll(ctx)
}

// GetByID returns the user with the given id.
func (u *UserUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return u.users.FindByID(ctx, id)
}

// Update replaces the user's name, email, password, and phones with the
// request values. The token is regenerated if and only if the email
// actually changed.
func (u *UserUsecase) Update(ctx context.Context, id uuid.UUID, in UserInput) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	emailChanged := user.EmailChanged(in.Email)
	if emailChanged {
		taken, err := u.users.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, domain.ErrEmailAlreadyExists
		}
	}

	// The stored value is a bcrypt hash, so "differs from the stored
	// password" means the submitted plaintext no longer matches the hash.
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		if err := u.validator.ValidatePassword(in.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	user.Name = in.Name
	user.Email = in.Email
	user.Phones = buildPhones(user.ID, in.Phones)

	if emailChanged {
		token, err := u.tokens.GenerateToken(user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}
		user.Token = token
	}

	user.Modified = time.Now()
	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Patch applies only the request fields that are present.
// Unlike Update, the token is regenerated whenever an email field is
// supplied, even if the value did not change, and the password format is
// always validated when a password is supplied.
func (u *UserUsecase) Patch(ctx context.Context, id uuid.UUID, in PatchUserInput) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}

	if in.Email != nil {
		if user.EmailChanged(*in.Email) {
			taken, err := u.users.ExistsByEmail(ctx, *in.Email)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if taken {
				return nil, domain.ErrEmailAlreadyExists
			}
		}
		user.Email = *in.Email

		token, err := u.tokens.GenerateToken(user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}
		user.Token = token
	}

	if in.Password != nil {
		if err := u.validator.ValidatePassword(*in.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if len(in.Phones) > 0 {
		user.Phones = buildPhones(user.ID, in.Phones)
	}

	user.Modified = time.Now()
	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user with the given id and its phones permanently.
func (u *UserUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	exists, err := u.users.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	return u.users.DeleteByID(ctx, id)
}

// Login refreshes the user's last login timestamp and token.
func (u *UserUsecase) Login(ctx context.Context, email string) (*entity.User, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	token, err := u.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	user.LastLogin = now
	user.Modified = now
	user.Token = token

	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// buildPhones maps phone inputs to owned phone records linked to the user.
func buildPhones(userID uuid.UUID, inputs []PhoneInput) []entity.Phone {
	phones := make([]entity.Phone, 0, len(inputs))
	for _, in := range inputs {
		phones = append(phones, entity.Phone{
			UserID:      userID,
			Number:      in.Number,
			CityCode:    in.CityCode,
			CountryCode: in.CountryCode,
		})
	}
	return phones
}
