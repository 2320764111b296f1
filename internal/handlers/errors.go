package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"fitmatch-ai/fitmatch-api/internal/apperrors"
	"fitmatch-ai/fitmatch-api/internal/logging"
)

// ErrorHandler renders errors that escape a handler, including Fiber's own
// (body too large, unknown route), in the API's error shape.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		code := apperrors.CodeInternal
		message := apperrors.UserMessage(err)

		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			message = fe.Message
			switch fe.Code {
			case fiber.StatusRequestEntityTooLarge:
				code = apperrors.CodeFileTooLarge
				message = "The request is too large."
			case fiber.StatusNotFound:
				code = apperrors.CodeNotFound
			case fiber.StatusTooManyRequests:
				code = apperrors.CodeRateLimited
				message = "Too many analyses requested. Please wait and try again."
			default:
				if status < fiber.StatusInternalServerError {
					code = apperrors.CodeInvalidRequest
				}
			}
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		}

		return c.Status(status).JSON(fiber.Map{
			"data":  nil,
			"error": message,
			"code":  code,
		})
	}
}
