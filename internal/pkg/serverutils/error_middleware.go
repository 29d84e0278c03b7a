package serverutils

import (
	"errors"

	"member-access-be/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// HandleDomainError translates the domain error taxonomy into HTTP.
// Validation problems are the caller's fault, refund provider failures
// surface as a bad gateway so operators know the money side needs a look,
// everything else is a plain 500.
func HandleDomainError(ctx *fiber.Ctx, err error) error {
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(400, vErr.Error()))
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(404, err.Error()))
	}

	if errors.Is(err, apperrors.ErrGrantInProgress) {
		return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(409, err.Error()))
	}

	var rErr *apperrors.RefundProviderError
	if errors.As(err, &rErr) {
		return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(502, rErr.Error()))
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, err.Error()))
}

// ErrorHandlerMiddleware is the app level fallback for errors escaping a
// handler without translation.
func ErrorHandlerMiddleware(ctx *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
	}
	return HandleDomainError(ctx, err)
}
