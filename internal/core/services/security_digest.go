package services

import (
	"context"
	"time"

	"realestate-management/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const digestTimeout = 30 * time.Second

// DigestReport summarises account security state at one instant
type DigestReport struct {
	LockedAccounts   int64
	DisabledAccounts int64
	At               time.Time
}

// SecurityDigest periodically logs how many accounts are locked or disabled.
// It only reads; locks are still cleared lazily at the next login attempt.
type SecurityDigest struct {
	users repositories.UserRepository
	log   *zap.Logger
	now   func() time.Time
}

// NewSecurityDigest creates a new security digest job
func NewSecurityDigest(users repositories.UserRepository, log *zap.Logger, now func() time.Time) *SecurityDigest {
	if now == nil {
		now = time.Now
	}
	return &SecurityDigest{users: users, log: log, now: now}
}

// Run collects and logs one report
func (d *SecurityDigest) Run(ctx context.Context) (*DigestReport, error) {
	at := d.now()

	locked, err := d.users.CountLocked(ctx, at)
	if err != nil {
		d.log.Error("security digest failed", zap.Error(err))
		return nil, err
	}

	disabled, err := d.users.CountDisabled(ctx)
	if err != nil {
		d.log.Error("security digest failed", zap.Error(err))
		return nil, err
	}

	report := &DigestReport{LockedAccounts: locked, DisabledAccounts: disabled, At: at}
	d.log.Info("security digest",
		zap.Int64("locked_accounts", report.LockedAccounts),
		zap.Int64("disabled_accounts", report.DisabledAccounts),
	)
	return report, nil
}

// Schedule registers the digest on c with a standard five-field cron spec
func (d *SecurityDigest) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
		defer cancel()
		_, _ = d.Run(ctx)
	})
}
