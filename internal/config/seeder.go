package config

import (
	"context"
	"fmt"

	"realestate-management/internal/adapters/persistence/models"
	"realestate-management/internal/core/domain"
	"realestate-management/internal/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db       *gorm.DB
	hasher   password.Hasher
	security SecurityConfig
	log      *zap.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, hasher password.Hasher, security SecurityConfig, log *zap.Logger) *Seeder {
	return &Seeder{db: db, hasher: hasher, security: security, log: log}
}

type seedAccount struct {
	username    string
	password    string
	email       string
	displayName string
	role        domain.Role
}

// Run creates the admin and guest accounts when they are absent
func (s *Seeder) Run(ctx context.Context) error {
	s.log.Info("🌱 Running database seeders...")

	accounts := []seedAccount{
		{
			username:    s.security.AdminUsername,
			password:    s.security.AdminPassword,
			email:       s.security.AdminEmail,
			displayName: "Administrator",
			role:        domain.RoleAdmin,
		},
		{
			username:    s.security.GuestUsername,
			password:    s.security.GuestPassword,
			email:       s.security.GuestUsername + "@guest.local",
			displayName: "Guest",
			role:        domain.RoleGuest,
		},
	}

	for _, account := range accounts {
		if err := s.seedAccount(ctx, account); err != nil {
			return fmt.Errorf("seed %s: %w", account.role, err)
		}
	}

	s.log.Info("✅ Database seeding completed")
	return nil
}

func (s *Seeder) seedAccount(ctx context.Context, account seedAccount) error {
	if account.username == "" || account.password == "" {
		s.log.Warn("⚠️ Seed account skipped: credentials not configured", zap.String("role", string(account.role)))
		return nil
	}

	// Soft-deleted rows still hold the username
	var count int64
	err := s.db.WithContext(ctx).Unscoped().
		Model(&models.User{}).
		Where("username = ?", account.username).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := s.hasher.Hash(account.password)
	if err != nil {
		return err
	}

	user := &models.User{
		Username:    account.username,
		Email:       account.email,
		Password:    hashed,
		DisplayName: account.displayName,
		Role:        string(account.role),
		Enabled:     true,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	s.log.Info("✅ Seed account created", zap.String("username", user.Username), zap.String("role", user.Role))
	return nil
}
