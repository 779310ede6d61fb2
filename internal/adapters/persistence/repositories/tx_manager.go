package repositories

import (
	"context"

	"gorm.io/gorm"
)

// gormTxManager implements TxManager on gorm transactions
type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager over db
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

// WithTx begins a transaction, runs fn with repositories bound to it, then
// commits on success or rolls back on error or panic.
func (m *gormTxManager) WithTx(ctx context.Context, fn func(repos Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repositories{
			Users:      NewUserRepository(tx),
			Realestate: NewRealestateRepository(tx),
		})
	})
}
