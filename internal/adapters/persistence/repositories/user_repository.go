package repositories

import (
	"context"
	"errors"
	"time"

	"realestate-management/internal/adapters/persistence/models"
	"realestate-management/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the given columns of a user
func (r *userRepository) UpdateProfile(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateLastLogin records the last successful login
func (r *userRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

// UpdateStatus overwrites role, enabled flag and lockout state
func (r *userRepository) UpdateStatus(ctx context.Context, id uint, status domain.AccountStatus) error {
	return r.UpdateProfile(ctx, id, map[string]interface{}{
		"role":                  string(status.Role),
		"enabled":               status.Enabled,
		"login_failed_attempts": status.LoginFailedAttempts,
		"account_locked_until":  status.AccountLockedUntil,
	})
}

// Delete soft deletes a user
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List lists users with pagination
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ExistsByUsername checks if username exists
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

// ExistsByUsernameExcept checks if another account holds username
func (r *userRepository) ExistsByUsernameExcept(ctx context.Context, username string, id uint) (bool, error) {
	return r.exists(ctx, "username = ? AND id <> ?", username, id)
}

// ExistsByEmailExcept checks if another account holds email
func (r *userRepository) ExistsByEmailExcept(ctx context.Context, email string, id uint) (bool, error) {
	return r.exists(ctx, "email = ? AND id <> ?", email, id)
}

func (r *userRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.User{}).Where(query, args...).Count(&count).Error
	return count > 0, err
}

// CountLocked counts accounts whose lock is still in force at now
func (r *userRepository) CountLocked(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("account_locked_until > ?", now).
		Count(&count).Error
	return count, err
}

// CountDisabled counts disabled accounts
func (r *userRepository) CountDisabled(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("enabled = ?", false).
		Count(&count).Error
	return count, err
}

// WithLockedAccount runs fn against the account row held with SELECT ... FOR UPDATE
func (r *userRepository) WithLockedAccount(ctx context.Context, username string, fn func(user *models.User)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Unscoped().
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("username = ?", username).
			First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fn(nil)
			return nil
		}
		if err != nil {
			return err
		}

		attempts, lockedUntil := user.LoginFailedAttempts, user.AccountLockedUntil
		fn(&user)
		if attempts == user.LoginFailedAttempts && sameInstant(lockedUntil, user.AccountLockedUntil) {
			return nil
		}

		return tx.Unscoped().Model(&models.User{}).
			Where("id = ?", user.ID).
			Updates(map[string]interface{}{
				"login_failed_attempts": user.LoginFailedAttempts,
				"account_locked_until":  user.AccountLockedUntil,
			}).Error
	})
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
