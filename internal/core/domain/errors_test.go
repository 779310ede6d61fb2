package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := NewError(KindResourceNotFound, MsgRealestateNotFound)

	assert.True(t, errors.Is(err, ErrResourceNotFound))
	assert.False(t, errors.Is(err, ErrInvalidToken))
}

func TestError_IsMatchesMessageWhenSet(t *testing.T) {
	err := NewError(KindDuplicateIdentity, MsgDuplicateEmail)

	assert.True(t, errors.Is(err, ErrDuplicateIdentity))
	assert.True(t, errors.Is(err, ErrDuplicateEmail))
	assert.False(t, errors.Is(err, ErrDuplicateUsername))
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("login: %w", Locked(90))

	assert.Equal(t, KindAccountLocked, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))

	var de *Error
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, int64(90), de.RemainingSeconds)
	assert.Contains(t, de.Message, "90 seconds")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "ACCOUNT_LOCKED", KindAccountLocked.String())
	assert.Equal(t, "UNKNOWN", Kind(999).String())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleGuest.Valid())
	assert.False(t, Role("OFFICER").Valid())
}
