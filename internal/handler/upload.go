package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/masterdesk/api/internal/service"
	"github.com/masterdesk/api/pkg/response"
)

const maxUploadSize = 50 * 1024 * 1024 // 50MB

var validAudioTypes = map[string]bool{
	"audio/wav":    true,
	"audio/x-wav":  true,
	"audio/wave":   true,
	"audio/mpeg":   true,
	"audio/mp3":    true,
	"audio/flac":   true,
	"audio/aiff":   true,
	"audio/x-aiff": true,
}

type UploadHandler struct {
	service *service.UploadService
}

func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{
		service: svc,
	}
}

// CreateURL handles POST /api/upload/url: issue a short-lived
// direct-upload URL for source audio.
func (h *UploadHandler) CreateURL(c *fiber.Ctx) error {
	result, err := h.service.CreateUploadURL(c.Context())
	if err != nil {
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}

// Audio handles POST /api/upload/audio: accept a multipart source file
// and push it into storage.
func (h *UploadHandler) Audio(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.ValidationError(c, "File is required", nil)
	}

	if file.Size > maxUploadSize {
		return response.ValidationError(c, "File size exceeds 50MB limit", map[string]interface{}{
			"maxSize":  maxUploadSize,
			"fileSize": file.Size,
		})
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "" && !validAudioTypes[contentType] {
		return response.ValidationError(c, "Unsupported audio type", map[string]interface{}{
			"contentType": contentType,
		})
	}

	src, err := file.Open()
	if err != nil {
		return response.ServiceError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	result, err := h.service.UploadAudio(c.Context(), src, file.Size)
	if err != nil {
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}
