package handler

import (
	"errors"

	"alumni-connect/internal/delivery/http/middleware"
	"alumni-connect/internal/delivery/http/validation"
	"alumni-connect/internal/pkg/response"
	"alumni-connect/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	retry := response.RetryData{Retryable: true}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrEventNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Event not found", nil, err)
	case errors.Is(err, usecase.ErrMentorNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Mentor not found", nil, err)
	case errors.Is(err, usecase.ErrDuplicateRequest):
		return middleware.NewAppError(fiber.StatusConflict, "A pending request to this mentor already exists", nil, err)
	case errors.Is(err, usecase.ErrRequestNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Mentorship request not found", nil, err)
	case errors.Is(err, usecase.ErrRequestAnswered):
		return middleware.NewAppError(fiber.StatusConflict, "This request has already been answered", nil, err)
	case errors.Is(err, usecase.ErrConcurrencyConflict):
		return middleware.NewAppError(fiber.StatusConflict, "The event changed while your request was processed, please retry", retry, err)
	case errors.Is(err, usecase.ErrStoreUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Service temporarily unavailable, please retry", retry, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

// bindAndValidate decodes the JSON body into req and runs its validate tags.
// Field errors are returned as the 400 payload.
func bindAndValidate(c fiber.Ctx, v *validation.Validator, req any) error {
	if err := c.Bind().Body(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if v == nil {
		return nil
	}
	fields, err := v.Struct(req)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if fields != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", fields, nil)
	}
	return nil
}
