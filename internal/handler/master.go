package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/masterdesk/api/internal/model"
	"github.com/masterdesk/api/internal/service"
	"github.com/masterdesk/api/pkg/response"
)

type MasterHandler struct {
	service   *service.MasterService
	validator *validator.Validate
}

func NewMasterHandler(svc *service.MasterService, v *validator.Validate) *MasterHandler {
	return &MasterHandler{
		service:   svc,
		validator: v,
	}
}

// Submit handles POST /api/master/jobs. The job is accepted and queued;
// the client polls Status for the outcome.
func (h *MasterHandler) Submit(c *fiber.Ctx) error {
	var req model.MasterJobRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.Submit(c.Context(), &req)
	if err != nil {
		return response.ServiceError(c, err.Error())
	}

	return response.Accepted(c, result)
}

// Status handles GET /api/master/jobs/:jobId. Pure read, callable
// arbitrarily often.
func (h *MasterHandler) Status(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	result, err := h.service.GetStatus(jobID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}
