package services

import (
	"context"
	"errors"
	"time"

	"realestate-management/internal/adapters/persistence/models"
	"realestate-management/internal/adapters/persistence/repositories"
	"realestate-management/internal/config"
	"realestate-management/internal/core/domain"
	"realestate-management/internal/pkg/jwt"
	"realestate-management/internal/pkg/metrics"
	"realestate-management/internal/pkg/password"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenType is the scheme returned with every issued token
const TokenType = "Bearer"

// AuthService handles authentication business logic
type AuthService struct {
	cfg     config.SecurityConfig
	users   repositories.UserRepository
	codec   *jwt.Codec
	hasher  password.Hasher
	lockout *LockoutPolicy
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

// NewAuthService creates a new auth service. A nil now uses time.Now.
func NewAuthService(
	cfg config.SecurityConfig,
	users repositories.UserRepository,
	codec *jwt.Codec,
	hasher password.Hasher,
	m *metrics.Metrics,
	log *zap.Logger,
	now func() time.Time,
) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		cfg:     cfg,
		users:   users,
		codec:   codec,
		hasher:  hasher,
		lockout: NewLockoutPolicy(cfg.MaxLoginAttempts, cfg.LockDuration, now),
		metrics: m,
		log:     log,
		now:     now,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Validate checks registration input
func (r RegisterInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.RuneLength(3, 50)),
		validation.Field(&r.Password, validation.Required, validation.RuneLength(password.MinLength, 100)),
		validation.Field(&r.Email, validation.Required, validation.RuneLength(3, 100), is.Email),
		validation.Field(&r.DisplayName, validation.RuneLength(0, 100)),
	)
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks login input
func (r LoginInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// Authenticate verifies credentials under the account row lock.
// Failures are counted before the error is returned.
func (s *AuthService) Authenticate(ctx context.Context, input LoginInput) (*domain.LoginResult, error) {
	if err := input.Validate(); err != nil {
		return nil, domain.Wrap(domain.KindValidation, err.Error(), err)
	}

	var (
		authenticated *models.User
		outcome       error
		lockedNow     bool
	)

	err := s.users.WithLockedAccount(ctx, input.Username, func(u *models.User) {
		if u == nil {
			outcome = domain.NewError(domain.KindInvalidCredentials, domain.MsgInvalidCredentials)
			return
		}

		if s.lockout.ExpireIfDue(u) {
			s.log.Info("account lock expired", zap.Uint("user_id", u.ID))
		}

		switch {
		case u.IsDeleted() || !u.Enabled:
			lockedNow = s.lockout.RecordFailure(u)
			outcome = domain.NewError(domain.KindInvalidCredentials, domain.MsgInvalidCredentials)
		case s.lockout.IsLocked(u):
			s.lockout.RecordFailure(u)
			outcome = domain.Locked(s.lockout.RemainingSeconds(u))
		case !s.hasher.Verify(input.Password, u.Password):
			lockedNow = s.lockout.RecordFailure(u)
			outcome = domain.NewError(domain.KindInvalidCredentials, domain.MsgInvalidCredentials)
		default:
			s.lockout.RecordSuccess(u)
			authenticated = u
		}
	})
	if err != nil {
		s.metrics.ObserveLogin(metrics.OutcomeError)
		s.log.Error("authentication failed", zap.String("username", input.Username), zap.Error(err))
		return nil, domain.Wrap(domain.KindAuthenticationSystemError, "authentication could not be completed", err)
	}

	if lockedNow {
		s.metrics.ObserveLockout()
		s.log.Warn("account locked after repeated failures",
			zap.String("username", input.Username),
			zap.Duration("lock_duration", s.cfg.LockDuration),
		)
	}

	if outcome != nil {
		if domain.KindOf(outcome) == domain.KindAccountLocked {
			s.metrics.ObserveLogin(metrics.OutcomeLocked)
		} else {
			s.metrics.ObserveLogin(metrics.OutcomeInvalidCredentials)
		}
		return nil, outcome
	}

	if err := s.users.UpdateLastLogin(ctx, authenticated.ID, s.now()); err != nil {
		s.log.Warn("failed to record last login", zap.Uint("user_id", authenticated.ID), zap.Error(err))
	}

	token, err := s.codec.Issue(authenticated.Username, authenticated.Role, authenticated.ID)
	if err != nil {
		s.metrics.ObserveLogin(metrics.OutcomeError)
		return nil, domain.Wrap(domain.KindAuthenticationSystemError, "token could not be issued", err)
	}

	s.metrics.ObserveLogin(metrics.OutcomeSuccess)
	s.log.Info("user logged in", zap.Uint("user_id", authenticated.ID), zap.String("role", authenticated.Role))

	return &domain.LoginResult{
		Token:    token,
		Type:     TokenType,
		UserInfo: authenticated.ToUserInfo(),
	}, nil
}

// GuestLogin authenticates the reserved guest account
func (s *AuthService) GuestLogin(ctx context.Context) (*domain.LoginResult, error) {
	return s.Authenticate(ctx, LoginInput{
		Username: s.cfg.GuestUsername,
		Password: s.cfg.GuestPassword,
	})
}

// ValidateToken returns the account behind a token, or nil when the token is
// invalid or the account is missing, disabled or deleted.
func (s *AuthService) ValidateToken(ctx context.Context, token string) *domain.UserInfo {
	info := s.validateToken(ctx, token)
	s.metrics.ObserveTokenValidation(info != nil)
	return info
}

func (s *AuthService) validateToken(ctx context.Context, token string) *domain.UserInfo {
	claims, err := s.codec.Decode(token)
	if err != nil {
		s.log.Debug("token rejected", zap.Error(err))
		return nil
	}

	// Resolved by id: a username change must not invalidate tokens already issued
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("token owner lookup failed", zap.Error(err))
		}
		return nil
	}

	if !user.Enabled || user.IsDeleted() {
		return nil
	}

	info := user.ToUserInfo()
	return &info
}

// TokenStatus reports validity, owner and remaining minutes of a token
func (s *AuthService) TokenStatus(ctx context.Context, token string) (*domain.TokenStatus, error) {
	info := s.ValidateToken(ctx, token)
	if info == nil {
		return nil, domain.NewError(domain.KindInvalidToken, "token is invalid or expired")
	}

	remaining, err := s.codec.RemainingLifetime(token)
	if err != nil {
		return nil, domain.Wrap(domain.KindInvalidToken, "token is invalid or expired", err)
	}

	return &domain.TokenStatus{
		Valid:            true,
		UserInfo:         info,
		RemainingMinutes: int64(remaining / time.Minute),
	}, nil
}

// Register creates a USER account after checking identity uniqueness
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.UserInfo, error) {
	if err := input.Validate(); err != nil {
		return nil, domain.Wrap(domain.KindValidation, err.Error(), err)
	}

	exists, err := s.users.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewError(domain.KindDuplicateIdentity, domain.MsgDuplicateUsername)
	}

	exists, err = s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewError(domain.KindDuplicateIdentity, domain.MsgDuplicateEmail)
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Username
	}

	user := &models.User{
		Username:    input.Username,
		Email:       input.Email,
		Password:    hashed,
		DisplayName: displayName,
		Role:        string(domain.RoleUser),
		Enabled:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.Wrap(domain.KindDuplicateIdentity, "username or email is already registered", err)
		}
		return nil, err
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))

	info := user.ToUserInfo()
	return &info, nil
}
