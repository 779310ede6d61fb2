package services

import (
	"context"
	"errors"
	"time"

	"realestate-management/internal/adapters/persistence/models"
	"realestate-management/internal/adapters/persistence/repositories"
	"realestate-management/internal/core/domain"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminService handles ADMIN-only account administration
type AdminService struct {
	users repositories.UserRepository
	log   *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(users repositories.UserRepository, log *zap.Logger) *AdminService {
	return &AdminService{users: users, log: log}
}

// StatusInput represents an administrative status change
type StatusInput struct {
	Role                string     `json:"role"`
	Enabled             *bool      `json:"enabled"`
	LoginFailedAttempts int        `json:"loginFailedAttempts"`
	AccountLockedUntil  *time.Time `json:"accountLockedUntil"`
}

// Validate checks status input
func (r StatusInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.Required, validation.By(knownRole)),
		validation.Field(&r.Enabled, validation.NotNil),
		validation.Field(&r.LoginFailedAttempts, validation.Min(0)),
	)
}

func knownRole(value interface{}) error {
	role, _ := value.(string)
	if !domain.Role(role).Valid() {
		return errors.New("must be one of ADMIN, USER, GUEST")
	}
	return nil
}

// ListUsers lists non-deleted accounts with pagination
func (s *AdminService) ListUsers(ctx context.Context, offset, limit int) ([]*models.UserResponse, int64, error) {
	users, total, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return responses, total, nil
}

// UpdateStatus overwrites role, enabled flag and lockout state of another account
func (s *AdminService) UpdateStatus(ctx context.Context, caller domain.Identity, targetID uint, input StatusInput) (*models.UserResponse, error) {
	if !caller.IsAdmin() {
		return nil, domain.NewError(domain.KindOperationNotPermitted, "admin role required")
	}

	if err := input.Validate(); err != nil {
		return nil, domain.Wrap(domain.KindValidation, err.Error(), err)
	}

	if targetID == caller.UserID {
		return nil, domain.NewError(domain.KindSelfModificationDenied, "you cannot change the status of your own account")
	}

	status := domain.AccountStatus{
		Role:                domain.Role(input.Role),
		Enabled:             *input.Enabled,
		LoginFailedAttempts: input.LoginFailedAttempts,
		AccountLockedUntil:  input.AccountLockedUntil,
	}

	if err := s.users.UpdateStatus(ctx, targetID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.KindResourceNotFound, domain.MsgUserNotFound)
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.KindResourceNotFound, domain.MsgUserNotFound)
		}
		return nil, err
	}

	s.log.Info("account status changed",
		zap.Uint("admin_id", caller.UserID),
		zap.Uint("target_id", targetID),
		zap.String("role", input.Role),
		zap.Bool("enabled", status.Enabled),
	)

	return user.ToResponse(), nil
}
