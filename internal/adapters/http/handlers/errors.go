package handlers

import (
	"errors"

	"realestate-management/internal/core/domain"
	"realestate-management/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

var kindStatus = map[domain.Kind]int{
	domain.KindMissingToken:                 fiber.StatusUnauthorized,
	domain.KindInvalidToken:                 fiber.StatusUnauthorized,
	domain.KindInvalidCredentials:           fiber.StatusUnauthorized,
	domain.KindAccountLocked:                fiber.StatusLocked,
	domain.KindDuplicateIdentity:            fiber.StatusConflict,
	domain.KindResourceNotFound:             fiber.StatusNotFound,
	domain.KindInconsistentProjectReference: fiber.StatusBadRequest,
	domain.KindSelfModificationDenied:       fiber.StatusBadRequest,
	domain.KindAuthenticationSystemError:    fiber.StatusInternalServerError,
	domain.KindValidation:                   fiber.StatusBadRequest,
	domain.KindOperationNotPermitted:        fiber.StatusForbidden,
}

// writeError renders a service error. Untyped errors become a generic 500.
func writeError(c *fiber.Ctx, err error) error {
	var de *domain.Error
	if !errors.As(err, &de) {
		return response.InternalServerError(c, "internal server error")
	}

	status, ok := kindStatus[de.Kind]
	if !ok {
		return response.InternalServerError(c, "internal server error")
	}

	message := de.Message
	if status == fiber.StatusInternalServerError {
		message = "internal server error"
	}

	if de.Kind == domain.KindAccountLocked {
		return response.Locked(c, de.Kind.String(), message, de.RemainingSeconds)
	}
	return response.Fail(c, status, de.Kind.String(), message)
}
