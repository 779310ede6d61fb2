package services

import (
	"context"
	"testing"
	"time"

	"realestate-management/internal/adapters/persistence/models"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSecurityDigest_Run(t *testing.T) {
	clock := newFakeClock()
	users := newFakeUserRepo()

	future := clock.Now().Add(10 * time.Minute)
	past := clock.Now().Add(-time.Minute)
	users.seed(models.User{Username: "locked", Enabled: true, AccountLockedUntil: &future})
	users.seed(models.User{Username: "stale", Enabled: true, AccountLockedUntil: &past})
	users.seed(models.User{Username: "off", Enabled: false})
	users.seed(models.User{Username: "ok", Enabled: true})

	digest := NewSecurityDigest(users, zap.NewNop(), clock.Now)
	report, err := digest.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.LockedAccounts)
	assert.Equal(t, int64(1), report.DisabledAccounts)

	// read-only: the stale lock is still there
	var stale *models.User
	for id := uint(1); id <= 4; id++ {
		if u := users.get(id); u.Username == "stale" {
			stale = u
		}
	}
	require.NotNil(t, stale)
	assert.NotNil(t, stale.AccountLockedUntil)
}

func TestSecurityDigest_Schedule(t *testing.T) {
	digest := NewSecurityDigest(newFakeUserRepo(), zap.NewNop(), nil)
	c := cron.New()

	_, err := digest.Schedule(c, "0 3 * * *")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = digest.Schedule(c, "not a spec")
	assert.Error(t, err)
}
