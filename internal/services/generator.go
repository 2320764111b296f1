package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitmatch-ai/fitmatch-api/internal/apperrors"
	"fitmatch-ai/fitmatch-api/internal/logging"
	"fitmatch-ai/fitmatch-api/internal/metrics"
	"fitmatch-ai/fitmatch-api/internal/models"
)

type ReportGenerator interface {
	Generate(ctx context.Context, input *models.NormalizedInput) (*models.FitReport, error)
}

type reportGenerator struct {
	backend          GenerationBackend
	promptBuilder    *PromptBuilder
	experiencePolicy string
	timeout          time.Duration
	logger           *logging.Logger
}

func NewReportGenerator(
	backend GenerationBackend,
	experiencePolicy string,
	timeout time.Duration,
	logger *logging.Logger,
) ReportGenerator {
	return &reportGenerator{
		backend:          backend,
		promptBuilder:    NewPromptBuilder(experiencePolicy),
		experiencePolicy: experiencePolicy,
		timeout:          timeout,
		logger:           logger,
	}
}

// Generate makes exactly one backend call and validates its output.
// Identical inputs may produce different reports.
func (g *reportGenerator) Generate(ctx context.Context, input *models.NormalizedInput) (*models.FitReport, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	prompt := g.promptBuilder.BuildFitReportPrompt(input.ResumeText, input.JobDescriptionText)
	g.logger.Debug("fit report prompt built", "prompt_chars", len(prompt))

	start := time.Now()
	raw, err := g.backend.GenerateJSON(ctx, prompt, FitReportSchema())
	elapsed := time.Since(start)

	if err != nil {
		switch {
		case errors.Is(err, errEmptyResponse):
			metrics.BackendDuration.WithLabelValues("empty").Observe(elapsed.Seconds())
			return nil, apperrors.ContractViolation("the response was empty", err)
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
			metrics.BackendDuration.WithLabelValues("timeout").Observe(elapsed.Seconds())
			return nil, apperrors.BackendError(
				fmt.Sprintf("The analysis service did not respond within %s. Please try again.", g.timeout), err)
		default:
			metrics.BackendDuration.WithLabelValues("error").Observe(elapsed.Seconds())
			return nil, apperrors.BackendError("The analysis service is unavailable. Please try again later.", err)
		}
	}

	metrics.BackendDuration.WithLabelValues("ok").Observe(elapsed.Seconds())
	g.logger.Debug("fit report response received", "response_chars", len(raw), "elapsed", elapsed)

	report, err := ValidateReport(raw, input.JobDescriptionText, g.experiencePolicy)
	if err != nil {
		g.logger.Warn("fit report failed validation", "error", err)
		return nil, err
	}

	return report, nil
}
