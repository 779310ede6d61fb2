package models

import (
	"time"

	"realestate-management/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Accounts
// ============================================================

// User represents users table.
// LoginFailedAttempts and AccountLockedUntil are written only by the lockout flow
// and by the admin status update.
type User struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	Username            string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email               string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password            string         `gorm:"size:255;not null" json:"-"`
	DisplayName         string         `gorm:"size:100" json:"displayName"`
	Role                string         `gorm:"size:20;default:'USER'" json:"role"`
	Enabled             bool           `gorm:"default:true" json:"enabled"`
	LoginFailedAttempts int            `gorm:"not null;default:0" json:"loginFailedAttempts"`
	AccountLockedUntil  *time.Time     `json:"accountLockedUntil"`
	LastLoginAt         *time.Time     `json:"lastLoginAt"`
	PasswordChangedAt   *time.Time     `json:"passwordChangedAt"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsDeleted reports whether the account was soft deleted
func (u *User) IsDeleted() bool {
	return u.DeletedAt.Valid
}

// ToUserInfo maps the row to its public view
func (u *User) ToUserInfo() domain.UserInfo {
	return domain.UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        domain.Role(u.Role),
	}
}

// UserResponse is the admin view of an account
type UserResponse struct {
	ID                  uint       `json:"id"`
	Username            string     `json:"username"`
	DisplayName         string     `json:"displayName"`
	Email               string     `json:"email"`
	Role                string     `json:"role"`
	Enabled             bool       `json:"enabled"`
	LoginFailedAttempts int        `json:"loginFailedAttempts"`
	AccountLockedUntil  *time.Time `json:"accountLockedUntil"`
	LastLoginAt         *time.Time `json:"lastLoginAt"`
	CreatedAt           time.Time  `json:"createdAt"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:                  u.ID,
		Username:            u.Username,
		DisplayName:         u.DisplayName,
		Email:               u.Email,
		Role:                u.Role,
		Enabled:             u.Enabled,
		LoginFailedAttempts: u.LoginFailedAttempts,
		AccountLockedUntil:  u.AccountLockedUntil,
		LastLoginAt:         u.LastLoginAt,
		CreatedAt:           u.CreatedAt,
	}
}

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Project{},
		&Parcel{},
		&Building{},
		&IncomeAndExpenses{},
	)
}
