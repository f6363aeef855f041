package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"Sistem-Absensi-RFID/config/middleware"
	"Sistem-Absensi-RFID/models"
	util "Sistem-Absensi-RFID/pkg/utils"
	"Sistem-Absensi-RFID/services"
)

type TokenIssuer interface {
	GenerateToken(p models.Principal) (string, time.Time, error)
}

type TokenRevoker interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

type AuthHandler struct {
	directory services.DirectoryService
	tokens    TokenIssuer
	revoker   TokenRevoker
	logger    *zap.Logger
	*Responder
}

// NewAuthHandler builds the handler; revoker may be nil, logout then only tells the client to drop the token.
func NewAuthHandler(directory services.DirectoryService, tokens TokenIssuer, revoker TokenRevoker, responder *Responder, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		directory: directory,
		tokens:    tokens,
		revoker:   revoker,
		logger:    logger,
		Responder: responder,
	}
}

// OrganizationSignup godoc
// @Summary Register organization
// @Tags Auth
// @Accept json
// @Produce json
// @Param organization body models.OrganizationSignupPayload true "Organization data"
// @Success 201 {object} models.Organization
// @Failure 400 {object} models.ValidationErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /org/signup [post]
func (h *AuthHandler) OrganizationSignup(c *fiber.Ctx) error {
	var payload models.OrganizationSignupPayload
	if err := c.BodyParser(&payload); err != nil {
		return h.BadRequest(c, "Invalid request body", err)
	}
	if errs := util.ValidateStruct(payload); errs != nil {
		return h.Validation(c, errs)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	org, err := h.directory.RegisterOrganization(ctx, &payload)
	if err != nil {
		return h.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Organization registered successfully",
		"organization": org,
	})
}

// OrganizationLogin godoc
// @Summary Organization login
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginPayload true "Credentials"
// @Success 200 {object} models.LoginSuccessResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /org/login [post]
func (h *AuthHandler) OrganizationLogin(c *fiber.Ctx) error {
	var payload models.LoginPayload
	if err := c.BodyParser(&payload); err != nil {
		return h.BadRequest(c, "Invalid request body", err)
	}
	if errs := util.ValidateStruct(payload); errs != nil {
		return h.Validation(c, errs)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	org, err := h.directory.AuthenticateOrganization(ctx, payload.Email, payload.Password)
	if err != nil {
		return h.Error(c, err)
	}

	return h.issue(c, models.Principal{
		Kind:           models.PrincipalOrganization,
		ID:             org.ID,
		OrganizationID: org.ID,
		Email:          org.Email,
	})
}

// EmployeeLogin godoc
// @Summary Employee login
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginPayload true "Credentials"
// @Success 200 {object} models.LoginSuccessResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /emp/login [post]
func (h *AuthHandler) EmployeeLogin(c *fiber.Ctx) error {
	var payload models.LoginPayload
	if err := c.BodyParser(&payload); err != nil {
		return h.BadRequest(c, "Invalid request body", err)
	}
	if errs := util.ValidateStruct(payload); errs != nil {
		return h.Validation(c, errs)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	emp, err := h.directory.AuthenticateEmployee(ctx, payload.Email, payload.Password)
	if err != nil {
		return h.Error(c, err)
	}

	return h.issue(c, models.Principal{
		Kind:           models.PrincipalEmployee,
		ID:             emp.ID,
		OrganizationID: emp.OrganizationID,
		Email:          emp.Email,
	})
}

func (h *AuthHandler) issue(c *fiber.Ctx, p models.Principal) error {
	token, _, err := h.tokens.GenerateToken(p)
	if err != nil {
		return h.Error(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.LoginSuccessResponse{
		Message: "Login successful",
		Token:   token,
		Kind:    string(p.Kind),
	})
}

// Logout godoc
// @Summary Logout
// @Description Revokes the current token until it expires
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p := principal(c)
	if h.revoker == nil || p.TokenID == "" {
		return c.JSON(fiber.Map{"message": "Logout successful (client-side token deletion required)"})
	}

	ttl := time.Until(middleware.TokenExpiry(c))

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.revoker.BlacklistToken(ctx, p.TokenID, ttl); err != nil {
		return h.Error(c, err)
	}
	h.logger.Info("token revoked", zap.String("kind", string(p.Kind)), zap.String("subject", p.ID.Hex()))
	return c.JSON(fiber.Map{"message": "Logout successful"})
}
