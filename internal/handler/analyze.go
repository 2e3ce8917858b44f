package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/masterdesk/api/internal/model"
	"github.com/masterdesk/api/internal/service"
	"github.com/masterdesk/api/pkg/response"
)

type AnalyzeHandler struct {
	service   *service.AnalysisService
	validator *validator.Validate
}

func NewAnalyzeHandler(svc *service.AnalysisService, v *validator.Validate) *AnalyzeHandler {
	return &AnalyzeHandler{
		service:   svc,
		validator: v,
	}
}

// Analyze handles POST /api/audio/analyze. Measurement runs
// synchronously; analysis calls are short-lived.
func (h *AnalyzeHandler) Analyze(c *fiber.Ctx) error {
	var req model.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.Analyze(c.Context(), &req)
	if err != nil {
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}
