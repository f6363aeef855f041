package handlers

import (
	"github.com/gofiber/fiber/v2"

	"Sistem-Absensi-RFID/models"
	util "Sistem-Absensi-RFID/pkg/utils"
	"Sistem-Absensi-RFID/services"
)

type QueryHandler struct {
	queries services.QueryService
	*Responder
}

func NewQueryHandler(queries services.QueryService, responder *Responder) *QueryHandler {
	return &QueryHandler{queries: queries, Responder: responder}
}

// Submit godoc
// @Summary Submit support query
// @Tags Queries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param query body models.QuerySubmitPayload true "Query"
// @Success 201 {object} object{message=string,query=models.Query}
// @Failure 400 {object} models.ValidationErrorResponse
// @Router /query/submit [post]
func (h *QueryHandler) Submit(c *fiber.Ctx) error {
	var payload models.QuerySubmitPayload
	if err := c.BodyParser(&payload); err != nil {
		return h.BadRequest(c, "Invalid request body", err)
	}
	if errs := util.ValidateStruct(payload); errs != nil {
		return h.Validation(c, errs)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	q, err := h.queries.Submit(ctx, principal(c).OrganizationID, &payload)
	if err != nil {
		return h.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Query submitted successfully",
		"query":   q,
	})
}

// Public godoc
// @Summary Public support queries
// @Tags Queries
// @Produce json
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size (max 50)" default(10)
// @Success 200 {object} models.QueryPage
// @Router /query/public [get]
func (h *QueryHandler) Public(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", services.DefaultPageSize)

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.queries.ListPublic(ctx, int64(page), int64(pageSize))
	if err != nil {
		return h.Error(c, err)
	}
	return c.JSON(result)
}
