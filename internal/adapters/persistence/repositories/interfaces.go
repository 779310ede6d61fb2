package repositories

import (
	"context"
	"time"

	"realestate-management/internal/adapters/persistence/models"
	"realestate-management/internal/core/domain"
)

// UserRepository defines user repository interface.
// Lookups hide soft-deleted rows unless stated otherwise.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint, fields map[string]interface{}) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	UpdateStatus(ctx context.Context, id uint, status domain.AccountStatus) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)

	// Existence checks include soft-deleted rows; their identities stay reserved.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsernameExcept(ctx context.Context, username string, id uint) (bool, error)
	ExistsByEmailExcept(ctx context.Context, email string, id uint) (bool, error)

	CountLocked(ctx context.Context, now time.Time) (int64, error)
	CountDisabled(ctx context.Context) (int64, error)

	// WithLockedAccount loads the account by username, including soft-deleted rows,
	// under a row lock and calls fn with it (nil when absent). Changes fn makes to
	// the lockout fields are persisted before the lock is released.
	WithLockedAccount(ctx context.Context, username string, fn func(user *models.User)) error
}

// RealestateRepository defines access to owner-scoped real estate records.
// Every read and write is keyed by the owner id.
type RealestateRepository interface {
	Search(ctx context.Context, filter models.SearchFilter) ([]*models.RealestateDetail, error)
	GetByProjectID(ctx context.Context, projectID, userID uint) (*models.RealestateDetail, error)
	Create(ctx context.Context, detail *models.RealestateDetail) error
	Update(ctx context.Context, detail *models.RealestateDetail) error
	Delete(ctx context.Context, projectID, userID uint) error
	DeleteAllByUserID(ctx context.Context, userID uint) error
}

// Repositories groups repositories bound to the same connection or transaction
type Repositories struct {
	Users      UserRepository
	Realestate RealestateRepository
}

// TxManager runs fn with repositories bound to one transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type TxManager interface {
	WithTx(ctx context.Context, fn func(repos Repositories) error) error
}
