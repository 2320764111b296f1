package services

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"fitmatch-ai/fitmatch-api/internal/config"
	"fitmatch-ai/fitmatch-api/internal/logging"
)

var errEmptyResponse = errors.New("no text content in response")

// GenerationBackend turns a prompt into structured JSON text.
type GenerationBackend interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

type geminiService struct {
	client          *genai.Client
	modelName       string
	temperature     float32
	maxOutputTokens int32
	logger          *logging.Logger
}

func NewGeminiService(ctx context.Context, cfg config.GeminiConfig, logger *logging.Logger) (GenerationBackend, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:          client,
		modelName:       cfg.Model,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		logger:          logger.With("component", "gemini", "model", cfg.Model),
	}, nil
}

// GenerateJSON implements GenerationBackend. The call is made once; failures
// are returned to the caller.
func (g *geminiService) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	temperature := g.temperature
	genConfig := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  g.maxOutputTokens,
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	g.logger.Debug("sending generation request", "prompt_chars", len(prompt))

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), genConfig)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
			g.logger.Warn("empty generation response", "finish_reason", resp.Candidates[0].FinishReason)
		}
		return "", errEmptyResponse
	}

	g.logger.Debug("generation response received", "response_chars", len(text))
	return text, nil
}
