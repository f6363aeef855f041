package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"Sistem-Absensi-RFID/models"
	"Sistem-Absensi-RFID/pkg/apperror"
	"Sistem-Absensi-RFID/services"
)

// Responder maps service errors to HTTP responses. In production a 500 never carries the cause.
type Responder struct {
	logger     *zap.Logger
	production bool
}

func NewResponder(logger *zap.Logger, production bool) *Responder {
	return &Responder{logger: logger, production: production}
}

func (r *Responder) Error(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperror.ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperror.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperror.ErrDuplicateKey):
		field := apperror.DuplicateField(err)
		msg := "Resource already exists"
		if field != "" {
			msg = field + " is already registered"
		}
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse{Error: msg})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Invalid email or password"})
	case errors.Is(err, services.ErrAccountDisabled):
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse{Error: "Account is disabled"})
	}

	r.logger.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	resp := models.ErrorResponse{Error: "Internal server error"}
	if !r.production {
		resp.Details = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(resp)
}

// BadRequest reports an unparsable body or parameter.
func (r *Responder) BadRequest(c *fiber.Ctx, msg string, err error) error {
	resp := models.ErrorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(resp)
}

func (r *Responder) Validation(c *fiber.Ctx, errs []models.FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ValidationErrorResponse{Errors: errs})
}
