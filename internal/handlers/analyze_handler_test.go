package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitmatch-ai/fitmatch-api/internal/apperrors"
	"fitmatch-ai/fitmatch-api/internal/logging"
	"fitmatch-ai/fitmatch-api/internal/models"
	"fitmatch-ai/fitmatch-api/internal/services"
)

var (
	resumeText = strings.Repeat("Backend engineer, 6 years of Go and PostgreSQL. ", 3)
	jobText    = strings.Repeat("Hiring a senior Go engineer for payments. ", 3)
)

type fakeGenerator struct {
	calls  int
	input  *models.NormalizedInput
	report *models.FitReport
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, input *models.NormalizedInput) (*models.FitReport, error) {
	f.calls++
	f.input = input
	return f.report, f.err
}

func sampleFitReport() *models.FitReport {
	return &models.FitReport{
		OverallAnalysis: models.OverallAnalysis{MatchScore: 72, Fit: "Moderate", Summary: "Good backend match."},
		TechnicalSkills: models.TechnicalSkills{Score: 80, MatchedSkills: []string{"Go"}, MissingSkills: []string{}},
		Experience:      models.Experience{Score: 70, CandidateExperience: "6 years", RequiredExperience: "Not specified", Level: "Senior", Fit: "Not Applicable"},
		RoleFit:         models.RoleFit{Score: 65, CurrentRole: "Backend Engineer", TargetRole: "Senior Go Engineer", Alignment: "Good"},
		Education:       models.Education{Score: 60, Degree: "B.Sc."},
		SummaryReport:   models.SummaryReport{Strengths: []string{"Go"}, Weaknesses: []string{}, FinalVerdict: "Interview."},
		Recommendations: []string{},
		Considerations:  []string{},
	}
}

func newTestApp(generator services.ReportGenerator, maxFileSize int64) *fiber.App {
	logger := logging.NewNop()
	extractor := services.NewTextExtractor(
		services.NewPDFParserService(),
		services.NewWordParserService(),
		[]string{"pdf", "docx", "doc", "txt", "md", "csv"},
	)
	handler := NewAnalyzeHandler(
		services.NewInputNormalizer(extractor, 50),
		generator,
		services.NewUploadService(maxFileSize),
		logger,
	)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	app.Post("/api/v1/analyze", handler.HandleAnalyze)
	return app
}

type upload struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, fields map[string]string, files ...upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{`form-data; name="` + f.field + `"; filename="` + f.filename + `"`}
		header["Content-Type"] = []string{f.contentType}
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, v any) *http.Request {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, models.AnalyzeResponse, string) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out models.AnalyzeResponse
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out, string(raw)
}

func TestAnalyze_JSON(t *testing.T) {
	generator := &fakeGenerator{report: sampleFitReport()}
	app := newTestApp(generator, 1024)

	status, out, raw := do(t, app, jsonRequest(t, models.ReportRequest{
		ResumeText:         resumeText,
		JobDescriptionText: jobText,
	}))

	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, out.ID)
	require.NotNil(t, out.Data)
	assert.Nil(t, out.Error)
	assert.Equal(t, 72, out.Data.OverallAnalysis.MatchScore)
	assert.Equal(t, "moderate", out.Band)
	assert.Contains(t, raw, `"error":null`)
	assert.NotContains(t, raw, "certifications")
	assert.Equal(t, 1, generator.calls)
	assert.Equal(t, resumeText, generator.input.ResumeText)
}

func TestAnalyze_ShortResumeNeverReachesGenerator(t *testing.T) {
	generator := &fakeGenerator{report: sampleFitReport()}
	app := newTestApp(generator, 1024)

	status, out, raw := do(t, app, jsonRequest(t, models.ReportRequest{
		ResumeText:         strings.Repeat("r", 40),
		JobDescriptionText: jobText,
	}))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Nil(t, out.Data)
	assert.Contains(t, raw, `"data":null`)
	require.NotNil(t, out.Error)
	assert.Equal(t, "Please provide a complete resume (at least 50 characters).", *out.Error)
	assert.Equal(t, string(apperrors.CodeInsufficientContent), out.Code)
	assert.Zero(t, generator.calls)
}

func TestAnalyze_MultipartFileAndText(t *testing.T) {
	generator := &fakeGenerator{report: sampleFitReport()}
	app := newTestApp(generator, 4096)

	req := multipartRequest(t,
		map[string]string{
			"resumeInputType":    "file",
			"jdInputType":        "text",
			"resumeText":         "ignored because the file is authoritative",
			"jobDescriptionText": jobText,
		},
		upload{field: "resumeFile", filename: "resume.md", contentType: "text/markdown", data: []byte("# Jane\n\n" + resumeText)},
	)

	status, out, _ := do(t, app, req)

	assert.Equal(t, http.StatusOK, status)
	assert.NotNil(t, out.Data)
	require.Equal(t, 1, generator.calls)
	assert.True(t, strings.HasPrefix(generator.input.ResumeText, "# Jane\n"))
	assert.Equal(t, jobText, generator.input.JobDescriptionText)
}

func TestAnalyze_InputTypeInferredFromFields(t *testing.T) {
	generator := &fakeGenerator{report: sampleFitReport()}
	app := newTestApp(generator, 4096)

	req := multipartRequest(t,
		map[string]string{"resumeText": resumeText},
		upload{field: "jobDescriptionFile", filename: "jd.csv", contentType: "text/csv", data: []byte(strings.Repeat("a,b,c\n1,2,3\n", 10))},
	)

	status, _, _ := do(t, app, req)

	assert.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, generator.calls)
	assert.Contains(t, generator.input.JobDescriptionText, "a,b,c")
}

func TestAnalyze_InputErrors(t *testing.T) {
	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		wantStatus int
		wantCode   apperrors.Code
		wantMsg    string
	}{
		{
			name: "file too large",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, map[string]string{"jobDescriptionText": jobText},
					upload{field: "resumeFile", filename: "big.pdf", contentType: "application/pdf", data: bytes.Repeat([]byte("a"), 2048)})
			},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   apperrors.CodeFileTooLarge,
			wantMsg:    "Resume: ",
		},
		{
			name: "empty file",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, map[string]string{"resumeText": resumeText, "jdInputType": "file"},
					upload{field: "jobDescriptionFile", filename: "jd.pdf", contentType: "application/pdf"})
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeEmptyFile,
			wantMsg:    "Job description: ",
		},
		{
			name: "unsupported file",
			req: func(t *testing.T) *http.Request {
				png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
				return multipartRequest(t, map[string]string{"jobDescriptionText": jobText},
					upload{field: "resumeFile", filename: "photo.png", contentType: "image/png", data: png})
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeUnsupportedFormat,
			wantMsg:    "image/png",
		},
		{
			name: "missing resume",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, map[string]string{"jobDescriptionText": jobText})
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeMissingInput,
			wantMsg:    "Resume is required.",
		},
		{
			name: "file selected but not attached",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, map[string]string{"resumeText": resumeText, "jdInputType": "file"})
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeMissingInput,
			wantMsg:    "Job description is required.",
		},
		{
			name: "bad input type",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, map[string]string{"resumeInputType": "url", "resumeText": resumeText, "jobDescriptionText": jobText})
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeInvalidRequest,
		},
		{
			name: "malformed json",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{"resumeText":`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := &fakeGenerator{report: sampleFitReport()}
			app := newTestApp(generator, 1024)

			status, out, _ := do(t, app, tt.req(t))

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, string(tt.wantCode), out.Code)
			assert.Nil(t, out.Data)
			require.NotNil(t, out.Error)
			assert.Contains(t, *out.Error, tt.wantMsg)
			assert.Zero(t, generator.calls)
		})
	}
}

func TestAnalyze_GeneratorErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode apperrors.Code
		status   int
	}{
		{"contract violation", apperrors.ContractViolation("missing field roleFit", nil), apperrors.CodeContractViolation, http.StatusBadGateway},
		{"backend error", apperrors.BackendError("The analysis service is unavailable. Please try again later.", errors.New("503")), apperrors.CodeBackendError, http.StatusBadGateway},
		{"unexpected", errors.New("nil pointer somewhere"), apperrors.CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := &fakeGenerator{err: tt.err}
			app := newTestApp(generator, 1024)

			status, out, _ := do(t, app, jsonRequest(t, models.ReportRequest{
				ResumeText:         resumeText,
				JobDescriptionText: jobText,
			}))

			assert.Equal(t, tt.status, status)
			assert.Equal(t, string(tt.wantCode), out.Code)
			assert.Nil(t, out.Data)
			require.NotNil(t, out.Error)
			assert.NotContains(t, *out.Error, "503")
			assert.Equal(t, 1, generator.calls)
		})
	}
}
