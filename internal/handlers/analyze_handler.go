package handlers

import (
	"errors"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"fitmatch-ai/fitmatch-api/internal/apperrors"
	"fitmatch-ai/fitmatch-api/internal/logging"
	"fitmatch-ai/fitmatch-api/internal/metrics"
	"fitmatch-ai/fitmatch-api/internal/models"
	"fitmatch-ai/fitmatch-api/internal/services"
)

const (
	inputTypeText = "text"
	inputTypeFile = "file"

	resumeFileField = "resumeFile"
	jobFileField    = "jobDescriptionFile"
)

type AnalyzeHandler struct {
	normalizer services.InputNormalizer
	generator  services.ReportGenerator
	uploads    services.UploadService
	validate   *validator.Validate
	logger     *logging.Logger
}

func NewAnalyzeHandler(
	normalizer services.InputNormalizer,
	generator services.ReportGenerator,
	uploads services.UploadService,
	logger *logging.Logger,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		normalizer: normalizer,
		generator:  generator,
		uploads:    uploads,
		validate:   validator.New(),
		logger:     logger,
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	id := uuid.New().String()
	log := h.logger.With("analysis_id", id)

	resume, job, err := h.parseSlots(c)
	if err != nil {
		return h.respondError(c, id, log, err)
	}

	log.Info("analysis started",
		"resume_source", string(resume.Kind),
		"job_description_source", string(job.Kind),
	)

	input, err := h.normalizer.Normalize(c.UserContext(), resume, job)
	if err != nil {
		return h.respondError(c, id, log, err)
	}

	report, err := h.generator.Generate(c.UserContext(), input)
	if err != nil {
		return h.respondError(c, id, log, err)
	}

	score := report.OverallAnalysis.MatchScore
	metrics.AnalysesTotal.WithLabelValues("success").Inc()
	metrics.MatchScore.Observe(float64(score))
	log.Info("analysis completed", "match_score", score, "fit", report.OverallAnalysis.Fit)

	return c.JSON(models.AnalyzeResponse{
		ID:   id,
		Data: report,
		Band: models.Band(score),
	})
}

// parseSlots reads either a JSON ReportRequest or a form submission where
// each slot is pasted text or an uploaded file.
func (h *AnalyzeHandler) parseSlots(c *fiber.Ctx) (models.Slot, models.Slot, error) {
	if c.Is("json") {
		var req models.ReportRequest
		if err := c.BodyParser(&req); err != nil {
			return models.Slot{}, models.Slot{}, apperrors.Wrap(apperrors.CodeInvalidRequest, "Invalid request payload", err)
		}
		return models.TextSlot(models.RoleResume, req.ResumeText),
			models.TextSlot(models.RoleJobDescription, req.JobDescriptionText),
			nil
	}

	var form models.AnalyzeForm
	if err := c.BodyParser(&form); err != nil {
		return models.Slot{}, models.Slot{}, apperrors.Wrap(apperrors.CodeInvalidRequest, "Invalid request payload", err)
	}
	if err := h.validate.Struct(form); err != nil {
		return models.Slot{}, models.Slot{}, apperrors.Wrap(apperrors.CodeInvalidRequest,
			"resumeInputType and jdInputType must be either 'text' or 'file'", err)
	}

	var files map[string][]*multipart.FileHeader
	if mf, err := c.MultipartForm(); err == nil {
		files = mf.File
	}

	resume, err := h.slot(models.RoleResume, form.ResumeInputType, form.ResumeText, firstFile(files, resumeFileField))
	if err != nil {
		return models.Slot{}, models.Slot{}, err
	}
	job, err := h.slot(models.RoleJobDescription, form.JDInputType, form.JobDescriptionText, firstFile(files, jobFileField))
	if err != nil {
		return models.Slot{}, models.Slot{}, err
	}

	return resume, job, nil
}

// slot builds one slot. An explicit input type wins; otherwise a file is
// preferred over text.
func (h *AnalyzeHandler) slot(role models.SlotRole, inputType, text string, file *multipart.FileHeader) (models.Slot, error) {
	useFile := inputType == inputTypeFile || (inputType == "" && file != nil)
	useText := inputType == inputTypeText || (inputType == "" && text != "")

	switch {
	case useFile:
		if file == nil {
			return models.FileSlot(role, nil), nil
		}
		uploaded, err := h.uploads.ReadFile(file)
		if err != nil {
			return models.Slot{}, apperrors.WithSlot(err, string(role))
		}
		return models.FileSlot(role, uploaded), nil
	case useText:
		return models.TextSlot(role, text), nil
	default:
		return models.Slot{Role: role}, nil
	}
}

func (h *AnalyzeHandler) respondError(c *fiber.Ctx, id string, log *logging.Logger, err error) error {
	code := apperrors.CodeOf(err)
	status := apperrors.HTTPStatus(code)

	var appErr *apperrors.Error
	slot := ""
	if errors.As(err, &appErr) {
		slot = appErr.Slot
	}

	if status >= fiber.StatusInternalServerError {
		log.Error("analysis failed", "code", code, "slot", slot, "error", err)
	} else {
		log.Warn("analysis rejected", "code", code, "slot", slot, "error", err)
	}

	metrics.AnalysesTotal.WithLabelValues("failure").Inc()
	metrics.AnalysisErrors.WithLabelValues(string(code)).Inc()

	message := apperrors.UserMessage(err)
	return c.Status(status).JSON(models.AnalyzeResponse{
		ID:    id,
		Error: &message,
		Code:  string(code),
	})
}

func firstFile(files map[string][]*multipart.FileHeader, field string) *multipart.FileHeader {
	if headers := files[field]; len(headers) > 0 {
		return headers[0]
	}
	return nil
}
