package handlers

import (
	"errors"
	"log/slog"

	"garden/internal/models"
	"garden/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error returned by a handler or middleware as an
// ErrorEnvelope. Unexpected errors are logged and answered with a generic 500.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		body := classify(err)
		if body.StatusCode >= fiber.StatusInternalServerError {
			log.Error("unhandled error",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.Any("error", err))
		}
		return c.Status(body.StatusCode).JSON(body)
	}
}

func classify(err error) ErrorEnvelope {
	var (
		appErr     *models.AppError
		validation validator.ValidationErrors
		duplicate  *repositories.DuplicateKeyError
		fiberErr   *fiber.Error
	)

	switch {
	case errors.As(err, &appErr):
		if appErr.StatusCode >= fiber.StatusInternalServerError {
			return failure(appErr.StatusCode, "Something went wrong!", nil)
		}
		return failure(appErr.StatusCode, appErr.Message, appErr.Sources)
	case errors.As(err, &validation):
		return failure(fiber.StatusBadRequest, "Validation Error", validationSources(validation))
	case errors.As(err, &duplicate):
		msg := duplicate.Field + " is already exists"
		return failure(fiber.StatusConflict, "Duplicate Entry",
			[]models.ErrorSource{{Path: duplicate.Field, Message: msg}})
	case errors.Is(err, repositories.ErrDuplicateKey):
		return failure(fiber.StatusConflict, "Duplicate Entry", nil)
	case errors.Is(err, repositories.ErrVersionConflict):
		return failure(fiber.StatusConflict, "This record was modified by another request, please retry", nil)
	case errors.Is(err, repositories.ErrNotFound):
		return failure(fiber.StatusNotFound, "Resource not found", nil)
	case errors.As(err, &fiberErr):
		return failure(fiberErr.Code, fiberErr.Message, nil)
	default:
		return failure(fiber.StatusInternalServerError, "Something went wrong!", nil)
	}
}

func failure(status int, message string, sources []models.ErrorSource) ErrorEnvelope {
	return ErrorEnvelope{
		Success:      false,
		StatusCode:   status,
		Message:      message,
		ErrorSources: sources,
	}
}
