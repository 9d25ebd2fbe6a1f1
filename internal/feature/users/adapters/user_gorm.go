// Package adapters provides the repository implementations for the users feature.
package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"userapi/internal/feature/users/domain"
	"userapi/internal/feature/users/domain/entity"
	"userapi/internal/feature/users/usecase"
)

// pgUniqueViolation is the PostgreSQL error code for a unique index conflict.
const pgUniqueViolation = "23505"

// userGorm is the GORM implementation of the UserRepository interface.
type userGorm struct {
	db *gorm.DB
}

// Compile-time check that userGorm implements usecase.UserRepository.
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm creates a new userGorm backed by the given gorm.DB connection.
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// ExistsByEmail reports whether a user with the given email exists.
func (r *userGorm) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByID retrieves a user with its phones by id.
// It returns domain.ErrUserNotFound if no user matches.
func (r *userGorm) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Preload("Phones").
		Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByEmail retrieves a user with its phones by email.
// It returns domain.ErrUserNotFound if no user matches.
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Preload("Phones").
		Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindAll retrieves every user with their phones.
func (r *userGorm) FindAll(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	if err := r.db.WithContext(ctx).Preload("Phones").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create persists a new user together with its phones.
// It returns domain.ErrEmailAlreadyExists if the unique email index rejects
// the row.
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return translateDuplicate(err)
	}
	return nil
}

// Update saves all user fields and replaces the phone collection wholesale
// (clear-then-add, not a merge) inside one transaction.
func (r *userGorm) Update(ctx context.Context, u *entity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", u.ID).Delete(&entity.Phone{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("Phones").Save(u).Error; err != nil {
			return translateDuplicate(err)
		}
		for i := range u.Phones {
			u.Phones[i].ID = 0
			u.Phones[i].UserID = u.ID
		}
		if len(u.Phones) > 0 {
			if err := tx.Create(&u.Phones).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ExistsByID reports whether a user with the given id exists.
func (r *userGorm) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteByID removes the user and its phones.
// Phones are deleted explicitly so the ownership cascade does not depend on
// the database honoring the FK constraint (SQLite test databases do not by
// default).
func (r *userGorm) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&entity.Phone{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.User{}).Error
	})
}

// translateDuplicate maps driver-level unique violations to the domain error.
func translateDuplicate(err error) error {
	// PostgreSQL unique_violation
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.ErrEmailAlreadyExists
	}
	// GORM error translation (covers the SQLite driver used in tests)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrEmailAlreadyExists
	}
	return err
}
