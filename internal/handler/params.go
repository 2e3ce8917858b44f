package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/masterdesk/api/internal/model"
	"github.com/masterdesk/api/internal/service"
	"github.com/masterdesk/api/pkg/response"
)

type ParamsHandler struct {
	service   *service.ParamsService
	validator *validator.Validate
}

func NewParamsHandler(svc *service.ParamsService, v *validator.Validate) *ParamsHandler {
	return &ParamsHandler{
		service:   svc,
		validator: v,
	}
}

// Generate handles POST /api/params/generate. The response's source
// field tells the client whether the parameters came from the generator
// or from the platform preset.
func (h *ParamsHandler) Generate(c *fiber.Ctx) error {
	var req model.GenerateParamsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result := h.service.Generate(c.Context(), &req)
	return response.OK(c, result)
}
