package domain

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failures the services report to the transport layer
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingToken
	KindInvalidToken
	KindInvalidCredentials
	KindAccountLocked
	KindDuplicateIdentity
	KindResourceNotFound
	KindInconsistentProjectReference
	KindSelfModificationDenied
	KindAuthenticationSystemError
	KindValidation
	KindOperationNotPermitted
)

var kindNames = map[Kind]string{
	KindUnknown:                      "UNKNOWN",
	KindMissingToken:                 "MISSING_TOKEN",
	KindInvalidToken:                 "INVALID_TOKEN",
	KindInvalidCredentials:           "AUTHENTICATION_ERROR",
	KindAccountLocked:                "ACCOUNT_LOCKED",
	KindDuplicateIdentity:            "DUPLICATE_IDENTITY",
	KindResourceNotFound:             "RESOURCE_NOT_FOUND",
	KindInconsistentProjectReference: "INCONSISTENT_PROJECT_REFERENCE",
	KindSelfModificationDenied:       "SELF_MODIFICATION_DENIED",
	KindAuthenticationSystemError:    "AUTHENTICATION_SYSTEM_ERROR",
	KindValidation:                   "VALIDATION_ERROR",
	KindOperationNotPermitted:        "ACCESS_DENIED",
}

// String returns the error code used in response bodies
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Error is a typed service failure
type Error struct {
	Kind             Kind
	Message          string
	RemainingSeconds int64
	Err              error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind, and also on Message when the target carries one
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// NewError creates a typed error
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a typed error around a cause
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Locked creates an AccountLocked error carrying the remaining lock time
func Locked(remainingSeconds int64) *Error {
	return &Error{
		Kind:             KindAccountLocked,
		Message:          fmt.Sprintf("account is locked, unlocks in %d seconds", remainingSeconds),
		RemainingSeconds: remainingSeconds,
	}
}

// KindOf returns the Kind of err, or KindUnknown for untyped errors
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// Sentinels for errors.Is. Kind-only sentinels match every error of that kind.
var (
	ErrInvalidToken                 = &Error{Kind: KindInvalidToken}
	ErrInvalidCredentials           = &Error{Kind: KindInvalidCredentials}
	ErrAccountLocked                = &Error{Kind: KindAccountLocked}
	ErrDuplicateIdentity            = &Error{Kind: KindDuplicateIdentity}
	ErrResourceNotFound             = &Error{Kind: KindResourceNotFound}
	ErrInconsistentProjectReference = &Error{Kind: KindInconsistentProjectReference}
	ErrSelfModificationDenied       = &Error{Kind: KindSelfModificationDenied}
	ErrAuthenticationSystem         = &Error{Kind: KindAuthenticationSystemError}
	ErrValidation                   = &Error{Kind: KindValidation}
	ErrOperationNotPermitted        = &Error{Kind: KindOperationNotPermitted}
)

// Messages shared by several call sites
const (
	MsgInvalidCredentials = "invalid username or password"
	MsgDuplicateUsername  = "username is already taken"
	MsgDuplicateEmail     = "email is already registered"
	MsgUserNotFound       = "user not found"
	MsgRealestateNotFound = "realestate record not found"
)

var (
	ErrDuplicateUsername = NewError(KindDuplicateIdentity, MsgDuplicateUsername)
	ErrDuplicateEmail    = NewError(KindDuplicateIdentity, MsgDuplicateEmail)
)
