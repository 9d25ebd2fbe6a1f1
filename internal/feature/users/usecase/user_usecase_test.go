package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"userapi/internal/feature/users/domain"
	"userapi/internal/feature/users/domain/entity"
)

const (
	testEmailPattern    = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	testPasswordPattern = `^[A-Za-z0-9@$!%*?&#._\-]{8,}$`
)

// mockUserRepository is a mock implementation of the UserRepository interface.
type mockUserRepository struct {
	ExistsByEmailFunc func(ctx context.Context, email string) (bool, error)
	FindByIDFunc      func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmailFunc   func(ctx context.Context, email string) (*entity.User, error)
	FindAllFunc       func(ctx context.Context) ([]entity.User, error)
	CreateFunc        func(ctx context.Context, user *entity.User) error
	UpdateFunc        func(ctx context.Context, user *entity.User) error
	ExistsByIDFunc    func(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByIDFunc    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *entity.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.ExistsByIDFunc != nil {
		return m.ExistsByIDFunc(ctx, id)
	}
	return false, nil
}

func (m *mockUserRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if m.DeleteByIDFunc != nil {
		return m.DeleteByIDFunc(ctx, id)
	}
	return nil
}

// mockTokenGenerator is a mock implementation of the TokenGenerator interface.
type mockTokenGenerator struct {
	GenerateTokenFunc func(userID uuid.UUID) (string, error)
}

func (m *mockTokenGenerator) GenerateToken(userID uuid.UUID) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID)
	}
	return "mock-jwt-token", nil
}

func newTestUsecase(t *testing.T, repo *mockUserRepository, tokens *mockTokenGenerator) *UserUsecase {
	t.Helper()
	v, err := NewValidator(testEmailPattern, testPasswordPattern)
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}
	return NewUserUsecase(repo, tokens, v)
}

func validInput() UserInput {
	return UserInput{
		Name:     "Juan Rodriguez",
		Email:    "juan@rodriguez.org",
		Password: "Password@123",
		Phones: []PhoneInput{
			{Number: "1234567", CityCode: "1", CountryCode: "57"},
		},
	}
}

// storedUser builds a persisted user fixture with a bcrypt-hashed password.
func storedUser(t *testing.T, email, password string) *entity.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash fixture password: %v", err)
	}
	id := uuid.New()
	now := time.Now().Add(-time.Hour)
	return &entity.User{
		ID:        id,
		Name:      "Juan Rodriguez",
		Email:     email,
		Password:  string(hashed),
		Phones:    []entity.Phone{{ID: 1, UserID: id, Number: "1234567", CityCode: "1", CountryCode: "57"}},
		Created:   now,
		Modified:  now,
		LastLogin: now,
		Token:     "old-token",
		Active:    true,
	}
}

func TestUserUsecase_Create(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		var created *entity.User
		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				created = user
				return nil
			},
		}
		uc := newTestUsecase(t, repo, &mockTokenGenerator{})

		user, err := uc.Create(context.Background(), validInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if created == nil {
			t.Fatal("expected user to be persisted")
		}
		if user.ID == uuid.Nil {
			t.Error("expected a generated id")
		}
		if !user.Active {
			t.Error("expected active to be true")
		}
		if user.Token == "" {
			t.Error("expected non-empty token")
		}
		if user.Created.IsZero() || !user.Created.Equal(user.Modified) || !user.Created.Equal(user.LastLogin) {
			t.Errorf("expected created == modified == lastLogin, got %v / %v / %v",
				user.Created, user.Modified, user.LastLogin)
		}
		// The stored password must be a bcrypt hash of the plaintext
		if user.Password == "Password@123" {
			t.Error("password is not hashed")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Password@123")); err != nil {
			t.Errorf("invalid bcrypt hash: %v", err)
		}
		if len(user.Phones) != 1 || user.Phones[0].UserID != user.ID {
			t.Errorf("expected one phone linked to the user, got %+v", user.Phones)
		}
	})

	t.Run("invalid email format", func(t *testing.T) {
		repo := &mockUserRepository{
			ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
				t.Error("uniqueness must not be checked when the email format is invalid")
				return false, nil
			},
		}
		uc := newTestUsecase(t, repo, &mockTokenGenerator{})

		in := validInput()
		in.Email = "not-an-email"
		_, err := uc.Create(context.Background(), in)

		if !errors.Is(err, domain.ErrInvalidEmailFormat) {
			t.Errorf("expected ErrInvalidEmailFormat, got %v", err)
		}
	})

	t.Run("email already registered", func(t *testing.T) {
		repo := &mockUserRepository{
			ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
				return true, nil
			},
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				t.Error("no persistence write may happen on a uniqueness conflict")
				return nil
			},
		}
		uc := newTestUsecase(t, repo, &mockTokenGenerator{})

		_, err := uc.Create(context.Background(), validInput())

		if !errors.Is(err, domain.ErrEmailAlreadyExists) {
			t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
		}
	})

	t.Run("uniqueness conflict wins over bad password", func(t *testing.T) {
		// Fixed check order: format, uniqueness, password format.
		repo := &mockUserRepository{
			ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
				return true, nil
			},
		}
		uc := newTestUsecase(t, repo, &mockTokenGenerator{})

		in := validInput()
		in.Password = "x"
		_, err := uc.Create(context.Background(), in)

		if !errors.Is(err, domain.ErrEmailAlreadyExists) {
			t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid password format", func(t *testing.T) {
		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				t.Error("no persistence write may happen on a validation failure")
				return nil
			},
		}
		uc := newTestUsecase(t, repo, &mockTokenGenerator{})

		in := validInput()
		in.Password = "short"
		_, err := uc.Create(context.Background(), in)

		if !errors.Is(err, domain.ErrInvalidPasswordFormat) {
			t.Errorf("expected ErrInvalidPasswordFormat, got %v", err)
		}
	})

	t.Run("token generation failure", func(t *testing.T) {
		uc := newTestUsecase(t, &mockUserRepository{}, &mockTokenGenerator{
			GenerateTokenFunc: func(userID uuid.UUID) (string, error) {
				return "", errors.New("signing failed")
			},
		})

		_, err := uc.Create(context.Background(), validInput())
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestUserUsecase_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		want := storedUser(t, "juan@rodriguez.org", "Password@123")
		repo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
				if id != want.ID {
					t.Errorf("unexpected id: %v", id)
				}
				return want, nil
			},
		}
		uc := newTestUsecase(t, repo, &mockTokenGenerator{})

		got, err := uc.GetByID(context.Background(), want.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != want.ID {
			t.Errorf("expected id %v, got %v", want.ID, got.ID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		uc := newTestUsecase(t, &mockUserRepository{}, &mockTokenGenerator{})

		_, err := uc.GetByID(context.Background(), uuid.New())
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserUsecase_Update(t *testing.T) {
	t.Run("name-only change keeps email and token", func(t *testing.T) {
		existing := storedUser(t, "juan@rodriguez.org", "Password@123")
		var updated *entity.User
		repo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
				return existing, nil
			},
			ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
				t.Error("unchanged email must not trigger a uniqueness check")
				return false, nil
			},
			UpdateFunc: func(ctx context.Context, user *entity.User) error {
				updated = user
				return nil
			},
		}
		tokens := &mockTokenGenerator{
			GenerateTokenFunc: func(userID uuid.UUID) (string, error) {
				t.Error("unchanged email must not regenerate the token")
				return "", nil
			},
		}
		uc := newTestUsecase(t, repo, tokens)

		in := validInput()
		in.Name = "Juan R."
		got, err := uc.Update(context.Background(), existing.ID, in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if updated == nil {
			t.Fatal("expected user to be persisted")
		}
		if got.Name != "Juan R." {
			t.Errorf("expected updated name, got %q", got.Name)
		}
		if got.Email != "juan@rodriguez.org" {
			t.Errorf("expected email unchanged, got %q", got.Email)
		}
		if got.Token != "old-token" {
			t.Errorf("expected token unchanged, got %q", got.Token)
		}
		if !got.Modified.After(got.Created) {
			t.Error("expected modified to advance")
		}
	})

	t.Run("email change regenerates token", func(t *testing.T) {
		existing := storedUser(t, "juan@rodriguez.org", "Password@123")
		checked := false
		repo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
				return existing, nil
			},
			ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
				checked = true
				return false, nil
			},
		}
		tokens := &mockTokenGenerator{
			GenerateTokenFunc: func(userID uuid.UUID) (string, error) {
				return "fresh-token", nil
			},
		}
		uc := newTestUsecase(t, repo, tokens)

		in := validInput()
		in.Email = "juan@newdomain.org"
		got, err := uc.Update(context.Background(), existing.ID, in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !checked {
			t.Error("expected a uniqueness check for the new email")
		}
		if got.Email != "juan@newdomain.org" {
			t.Errorf("expected new email, got %q", got.Email)
		}
		if got.Token != "fresh-token" {
			t.Errorf("expected regenerated token, got %q", got.Token)
		}
	})

	t.Run("email taken by another user", func(t *testing.T) {
		existing := storedUser(t, "juan@rodriguez.org", "Password@123")
		repo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
				return existing, nil
			},
			ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
				return true, nil
			},
			UpdateFunc: func(ctx context.Context, user *entity.User) error {
				t.Error("no persistence write may happen on a uniqueness conflict")
				return nil
			},
		}
		uc := newTestUsecase(t, repo, &mockTokenGenerator{})

		in := validInput()
		in.Email = "taken@example.org"
		_, err := uc.Update(context.Background(), existing.ID, in)

		if !errors.Is(err, domain.ErrEmailAlreadyExists) {
			t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
		}
	})

	t.Run("changed password is validated and rehashed", func(t *testing.T) {
		existing := storedUser(t, "juan@rodriguez.org", "Password@123")
		repo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
				return existing, nil
			},
		}
		uc := newTestUsecase(t, repo, &mockTokenGenerator{})

		in := validInput()
		in.Password = "NewSecret@456"
		got, err := uc.Update(context.Background(), existing.ID, in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(got.Password), []byte("NewSecret@456")); err != nil {
			t.Errorf("expected password to be rehashed: %v", err)
		}
	})

	t.Run("changed password failing the pattern is rejected", func(t *testing.T) {
		existing := storedUser(t, "juan@rodriguez.org", "Password@123")
		repo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
				return existing, nil
			},
		}
		uc := newTestUsecase(t, repo, &mockTokenGenerator{})

		in := validInput()
		in.Password = "nope"
		_, err := uc.Update(context.Background(), existing.ID, in)

		if !errors.Is(err, domain.ErrInvalidPasswordFormat) {
			t.Errorf("expected ErrInvalidPasswordFormat, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		uc := newTestUsecase(t, &mockUserRepository{}, &mockTokenGenerator{})

		_, err := uc.Update(context.Background(), uuid.New(), validInput())
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserUsecase_Patch(t *testing.T) {
	strptr := func(s string) *string { return &s }

	t.Run("password-only patch leaves other fields untouched", func(t *testing.T) {
		existing := storedUser(t, "juan@rodriguez.org", "Password@123")
		var updated *entity.User
		repo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
				return existing, nil
			},
			UpdateFunc: func(ctx context.Context, user *entity.User) error {
				updated = user
				return nil
			},
		}
		tokens := &mockTokenGenerator{
			GenerateTokenFunc: func(userID uuid.UUID) (string, error) {
				t.Error("a password-only patch must not regenerate the token")
				return "", nil
			},
		}
		uc := newTestUsecase(t, repo, tokens)

		got, err := uc.Patch(context.Background(), existing.ID, PatchUserInput{
			Password: strptr("NewSecret@456"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if updated == nil {
			t.Fatal("expected user to be persisted")
		}
		if got.Name != "Juan Rodriguez" || got.Email != "juan@rodriguez.org" {
			t.Errorf("expected name/email unchanged, got %q / %q", got.Name, got.Email)
		}
		if len(got.Phones) != 1 {
			t.Errorf("expected phones unchanged, got %d", len(got.Phones))
		}
		if err := bcrypt.CompareHashAndPassword([]byte(got.Password), []byte("NewSecret@456")); err != nil {
			t.Errorf("expected password to be updated: %v", err)
		}
		if !got.Modified.After(got.Created) {
			t.Error("expected modified to advance")
		}
	})

	t.Run("email field regenerates token even when value is unchanged", func(t *testing.T) {
		// Deliberate divergence from Update: regeneration is gated on field
		// presence, not on an actual value change.
		existing := storedUser(t, "juan@rodriguez.org", "Password@123")
		repo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
				return existing, nil
			},
			ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
				t.Error("an unchanged email must not trigger a uniqueness check")
				return false, nil
			},
		}
		tokens := &mockTokenGenerator{
			GenerateTokenFunc: func(userID uuid.UUID) (string, error) {
				return "fresh-token", nil
			},
		}
		uc := newTestUsecase(t, repo, tokens)

		got, err := uc.Patch(context.Background(), existing.ID, PatchUserInput{
			Email: strptr("juan@rodriguez.org"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Token != "fresh-token" {
			t.Errorf("expected regenerated token, got %q", got.Token)
		}
	})

	t.Run("email taken by another user", func(t *testing.T) {
		existing := storedUser(t, "juan@rodriguez.org", "Password@123")
		repo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
				return existing, nil
			},
			ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
				return true, nil
			},
		}
		uc := newTestUsecase(t, repo, &mockTokenGenerator{})

		_, err := uc.Patch(context.Background(), existing.ID, PatchUserInput{
			Email: strptr("taken@example.org"),
		})
		if !errors.Is(err, domain.ErrEmailAlreadyExists) {
			t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
		}
	})

	t.Run("password is always format-validated", func(t *testing.T) {
		existing := storedUser(t, "juan@rodriguez.org", "Password@123")
		repo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
				return existing, nil
			},
			UpdateFunc: func(ctx context.Context, user *entity.User) error {
				t.Error("no persistence write may happen on a validation failure")
				return nil
			},
		}
		uc := newTestUsecase(t, repo, &mockTokenGenerator{})

		_, err := uc.Patch(context.Background(), existing.ID, PatchUserInput{
			Password: strptr("bad"),
		})
		if !errors.Is(err, domain.ErrInvalidPasswordFormat) {
			t.Errorf("expected ErrInvalidPasswordFormat, got %v", err)
		}
	})

	t.Run("phones are replaced wholesale when supplied", func(t *testing.T) {
		existing := storedUser(t, "juan@rodriguez.org", "Password@123")
		repo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
				return existing, nil
			},
		}
		uc := newTestUsecase(t, repo, &mockTokenGenerator{})

		got, err := uc.Patch(context.Background(), existing.ID, PatchUserInput{
			Phones: []PhoneInput{
				{Number: "7654321", CityCode: "2", CountryCode: "58"},
				{Number: "5551234", CityCode: "3", CountryCode: "58"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.Phones) != 2 {
			t.Fatalf("expected 2 phones, got %d", len(got.Phones))
		}
		if got.Phones[0].Number != "7654321" || got.Phones[0].UserID != existing.ID {
			t.Errorf("unexpected phone: %+v", got.Phones[0])
		}
	})

	t.Run("not found", func(t *testing.T) {
		uc := newTestUsecase(t, &mockUserRepository{}, &mockTokenGenerator{})

		_, err := uc.Patch(context.Background(), uuid.New(), PatchUserInput{})
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserUsecase_Delete(t *testing.T) {
	t.Run("deletes existing user", func(t *testing.T) {
		id := uuid.New()
		deleted := false
		repo := &mockUserRepository{
			ExistsByIDFunc: func(ctx context.Context, got uuid.UUID) (bool, error) {
				return got == id, nil
			},
			DeleteByIDFunc: func(ctx context.Context, got uuid.UUID) error {
				deleted = got == id
				return nil
			},
		}
		uc := newTestUsecase(t, repo, &mockTokenGenerator{})

		if err := uc.Delete(context.Background(), id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !deleted {
			t.Error("expected DeleteByID to be called")
		}
	})

	t.Run("not found", func(t *testing.T) {
		uc := newTestUsecase(t, &mockUserRepository{}, &mockTokenGenerator{})

		err := uc.Delete(context.Background(), uuid.New())
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserUsecase_Login(t *testing.T) {
	t.Run("refreshes last login and token", func(t *testing.T) {
		existing := storedUser(t, "juan@rodriguez.org", "Password@123")
		previousLogin := existing.LastLogin
		var updated *entity.User
		repo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				if email != existing.Email {
					return nil, domain.ErrUserNotFound
				}
				return existing, nil
			},
			UpdateFunc: func(ctx context.Context, user *entity.User) error {
				updated = user
				return nil
			},
		}
		tokens := &mockTokenGenerator{
			GenerateTokenFunc: func(userID uuid.UUID) (string, error) {
				return "login-token", nil
			},
		}
		uc := newTestUsecase(t, repo, tokens)

		got, err := uc.Login(context.Background(), "juan@rodriguez.org")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if updated == nil {
			t.Fatal("expected user to be persisted")
		}
		if !got.LastLogin.After(previousLogin) {
			t.Error("expected lastLogin to advance")
		}
		if got.Token != "login-token" {
			t.Errorf("expected regenerated token, got %q", got.Token)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		uc := newTestUsecase(t, &mockUserRepository{}, &mockTokenGenerator{})

		_, err := uc.Login(context.Background(), "nobody@example.org")
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}
