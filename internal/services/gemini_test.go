package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"fitmatch-ai/fitmatch-api/internal/config"
	"fitmatch-ai/fitmatch-api/internal/logging"
)

func TestNewGeminiService_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiService(context.Background(), config.GeminiConfig{
		Model:   "gemini-2.5-flash",
		Timeout: time.Minute,
	}, logging.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestFitReportSchema(t *testing.T) {
	schema := FitReportSchema()

	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.ElementsMatch(t, []string{
		"overallAnalysis", "technicalSkills", "experience", "roleFit",
		"education", "summaryReport", "recommendations", "considerations",
	}, schema.Required)
	assert.Len(t, schema.Properties, 9)

	for _, name := range []string{"technicalSkills", "experience", "roleFit", "education", "certifications"} {
		score := schema.Properties[name].Properties["score"]
		require.NotNil(t, score, name)
		assert.Equal(t, genai.TypeInteger, score.Type)
		assert.Equal(t, 0.0, *score.Minimum)
		assert.Equal(t, 100.0, *score.Maximum)
	}

	assert.NotContains(t, schema.Properties["education"].Required, "requiredDegree")
	assert.Equal(t, genai.TypeString, schema.Properties["recommendations"].Items.Type)
}
