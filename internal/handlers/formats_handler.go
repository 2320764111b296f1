package handlers

import (
	"github.com/gofiber/fiber/v2"

	"fitmatch-ai/fitmatch-api/internal/config"
	"fitmatch-ai/fitmatch-api/internal/models"
	"fitmatch-ai/fitmatch-api/internal/services"
)

type FormatsHandler struct {
	upload           config.UploadConfig
	minContentLength int
}

func NewFormatsHandler(upload config.UploadConfig, minContentLength int) *FormatsHandler {
	return &FormatsHandler{
		upload:           upload,
		minContentLength: minContentLength,
	}
}

// HandleFormats handles GET /formats
func (h *FormatsHandler) HandleFormats(c *fiber.Ctx) error {
	types := make([]string, 0, len(h.upload.AcceptedFormats))
	for _, format := range h.upload.AcceptedFormats {
		if mediaType, ok := services.FormatMediaTypes[services.DocumentFormat(format)]; ok {
			types = append(types, mediaType)
		}
	}

	return c.JSON(models.FormatsResponse{
		AcceptedFormats:  h.upload.AcceptedFormats,
		AcceptedTypes:    types,
		MaxFileSize:      h.upload.MaxFileSize,
		MinContentLength: h.minContentLength,
	})
}
