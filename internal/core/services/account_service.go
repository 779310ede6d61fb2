package services

import (
	"context"
	"errors"
	"time"

	"realestate-management/internal/adapters/persistence/models"
	"realestate-management/internal/adapters/persistence/repositories"
	"realestate-management/internal/core/domain"
	"realestate-management/internal/pkg/password"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccountService manages the caller's own account
type AccountService struct {
	users  repositories.UserRepository
	txm    repositories.TxManager
	hasher password.Hasher
	log    *zap.Logger
	now    func() time.Time
}

// NewAccountService creates a new account service
func NewAccountService(
	users repositories.UserRepository,
	txm repositories.TxManager,
	hasher password.Hasher,
	log *zap.Logger,
	now func() time.Time,
) *AccountService {
	if now == nil {
		now = time.Now
	}
	return &AccountService{
		users:  users,
		txm:    txm,
		hasher: hasher,
		log:    log,
		now:    now,
	}
}

// UpdateUserInput represents a change of identity or password.
// A new password is accepted only together with the current one.
type UpdateUserInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	DisplayName     string `json:"displayName"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Validate checks update input
func (r UpdateUserInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.RuneLength(3, 50)),
		validation.Field(&r.Email, validation.Required, validation.RuneLength(3, 100), is.Email),
		validation.Field(&r.DisplayName, validation.RuneLength(0, 100)),
		validation.Field(&r.NewPassword, validation.RuneLength(password.MinLength, 100)),
	)
}

// Me returns the caller's account
func (s *AccountService) Me(ctx context.Context, identity domain.Identity) (*domain.UserInfo, error) {
	user, err := s.load(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	info := user.ToUserInfo()
	return &info, nil
}

// UpdateUser changes the caller's username, email, display name and optionally password
func (s *AccountService) UpdateUser(ctx context.Context, identity domain.Identity, input UpdateUserInput) (*domain.UserInfo, error) {
	user, err := s.load(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	if domain.Role(user.Role) == domain.RoleGuest {
		return nil, domain.NewError(domain.KindOperationNotPermitted, "guest account cannot be changed")
	}

	if err := input.Validate(); err != nil {
		return nil, domain.Wrap(domain.KindValidation, err.Error(), err)
	}

	taken, err := s.users.ExistsByUsernameExcept(ctx, input.Username, user.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewError(domain.KindDuplicateIdentity, domain.MsgDuplicateUsername)
	}

	taken, err = s.users.ExistsByEmailExcept(ctx, input.Email, user.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewError(domain.KindDuplicateIdentity, domain.MsgDuplicateEmail)
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Username
	}

	fields := map[string]interface{}{
		"username":     input.Username,
		"email":        input.Email,
		"display_name": displayName,
	}

	switch {
	case input.CurrentPassword != "":
		if !s.hasher.Verify(input.CurrentPassword, user.Password) {
			return nil, domain.NewError(domain.KindValidation, "current password is incorrect")
		}
		if input.NewPassword == "" {
			return nil, domain.NewError(domain.KindValidation, "new password is required")
		}
		hashed, err := s.hasher.Hash(input.NewPassword)
		if err != nil {
			return nil, err
		}
		fields["password"] = hashed
		fields["password_changed_at"] = s.now()
	case input.NewPassword != "":
		return nil, domain.NewError(domain.KindValidation, "current password is required to set a new password")
	}

	if err := s.users.UpdateProfile(ctx, user.ID, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.Wrap(domain.KindDuplicateIdentity, "username or email is already registered", err)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.KindResourceNotFound, domain.MsgUserNotFound)
		}
		return nil, err
	}

	if _, changed := fields["password"]; changed {
		s.log.Info("password changed", zap.Uint("user_id", user.ID))
	}

	user.Username = input.Username
	user.Email = input.Email
	user.DisplayName = displayName
	info := user.ToUserInfo()
	return &info, nil
}

// DeleteAccount removes the caller's records, then soft deletes the account.
// GUEST and ADMIN accounts cannot delete themselves.
func (s *AccountService) DeleteAccount(ctx context.Context, identity domain.Identity) error {
	user, err := s.load(ctx, identity.UserID)
	if err != nil {
		return err
	}

	switch domain.Role(user.Role) {
	case domain.RoleGuest:
		return domain.NewError(domain.KindOperationNotPermitted, "guest account cannot be deleted")
	case domain.RoleAdmin:
		return domain.NewError(domain.KindOperationNotPermitted, "admin account cannot be deleted")
	}

	err = s.txm.WithTx(ctx, func(repos repositories.Repositories) error {
		if err := repos.Realestate.DeleteAllByUserID(ctx, user.ID); err != nil {
			return err
		}
		return repos.Users.Delete(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	s.log.Info("account deleted", zap.Uint("user_id", user.ID))
	return nil
}

func (s *AccountService) load(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.KindResourceNotFound, domain.MsgUserNotFound)
		}
		return nil, err
	}
	return user, nil
}
