package config

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type prefixHasher struct{}

func (prefixHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (prefixHasher) Verify(password, hash string) bool { return hash == "hashed:"+password }

func TestSeeder_CreatesOnlyMissingAccounts(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	security := SecurityConfig{
		AdminUsername: "admin",
		AdminPassword: "admin123456",
		AdminEmail:    "admin@example.com",
		GuestUsername: "guest",
		GuestPassword: "guest123",
	}

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE username = \\?").
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE username = \\?").
		WithArgs("guest").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(2, 1))

	seeder := NewSeeder(db, prefixHasher{}, security, zap.NewNop())
	require.NoError(t, seeder.Run(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeeder_SkipsUnconfiguredAccounts(t *testing.T) {
	seeder := NewSeeder(nil, prefixHasher{}, SecurityConfig{}, zap.NewNop())
	assert.NoError(t, seeder.Run(context.Background()))
}
