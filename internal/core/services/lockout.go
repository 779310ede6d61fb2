package services

import (
	"math"
	"time"

	"realestate-management/internal/adapters/persistence/models"
)

// LockoutPolicy decides lock transitions from the lockout fields of an account.
//
// States: Unlocked(attempts) when AccountLockedUntil is nil, Locked(until) otherwise.
// A lock is never extended while set; it clears only through ExpireIfDue.
type LockoutPolicy struct {
	threshold int
	duration  time.Duration
	now       func() time.Time
}

// NewLockoutPolicy creates a policy locking for duration after threshold failures
func NewLockoutPolicy(threshold int, duration time.Duration, now func() time.Time) *LockoutPolicy {
	if now == nil {
		now = time.Now
	}
	return &LockoutPolicy{threshold: threshold, duration: duration, now: now}
}

// ExpireIfDue resets an account whose lock has run out. Reports whether it did.
func (p *LockoutPolicy) ExpireIfDue(u *models.User) bool {
	if u.AccountLockedUntil == nil || p.now().Before(*u.AccountLockedUntil) {
		return false
	}
	u.LoginFailedAttempts = 0
	u.AccountLockedUntil = nil
	return true
}

// IsLocked reports whether a lock is set
func (p *LockoutPolicy) IsLocked(u *models.User) bool {
	return u.AccountLockedUntil != nil
}

// RecordFailure counts a failed attempt and locks once the threshold is reached.
// Reports whether this call set the lock.
func (p *LockoutPolicy) RecordFailure(u *models.User) bool {
	u.LoginFailedAttempts++
	if u.LoginFailedAttempts >= p.threshold && u.AccountLockedUntil == nil {
		until := p.now().Add(p.duration)
		u.AccountLockedUntil = &until
		return true
	}
	return false
}

// RecordSuccess resets the account to Unlocked(0)
func (p *LockoutPolicy) RecordSuccess(u *models.User) {
	u.LoginFailedAttempts = 0
	u.AccountLockedUntil = nil
}

// RemainingSeconds returns whole seconds until the lock lifts, rounded up, or 0
func (p *LockoutPolicy) RemainingSeconds(u *models.User) int64 {
	if u.AccountLockedUntil == nil {
		return 0
	}
	left := u.AccountLockedUntil.Sub(p.now())
	if left <= 0 {
		return 0
	}
	return int64(math.Ceil(left.Seconds()))
}
