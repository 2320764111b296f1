package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"fitmatch-ai/fitmatch-api/internal/apperrors"
	"fitmatch-ai/fitmatch-api/internal/models"
)

type InputNormalizer interface {
	Normalize(ctx context.Context, resume, job models.Slot) (*models.NormalizedInput, error)
}

type inputNormalizer struct {
	extractor        TextExtractor
	minContentLength int
}

func NewInputNormalizer(extractor TextExtractor, minContentLength int) InputNormalizer {
	return &inputNormalizer{
		extractor:        extractor,
		minContentLength: minContentLength,
	}
}

// Normalize resolves both slots to text. The slots are resolved
// concurrently; when both fail, the resume error is the one returned.
func (n *inputNormalizer) Normalize(ctx context.Context, resume, job models.Slot) (*models.NormalizedInput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		texts [2]string
		errs  [2]error
		g     errgroup.Group
	)

	for i, slot := range []models.Slot{resume, job} {
		g.Go(func() error {
			texts[i], errs[i] = n.resolve(slot)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &models.NormalizedInput{
		ResumeText:         texts[0],
		JobDescriptionText: texts[1],
	}, nil
}

func (n *inputNormalizer) resolve(slot models.Slot) (string, error) {
	role := string(slot.Role)

	var text string
	switch slot.Kind {
	case models.SlotKindText:
		text = slot.Text
	case models.SlotKindFile:
		if slot.File == nil {
			return "", apperrors.MissingInput(role)
		}
		extracted, err := n.extractor.Extract(slot.File.Data, slot.File.ContentType, slot.File.Filename)
		if err != nil {
			return "", apperrors.WithSlot(err, role)
		}
		text = extracted.Text
	default:
		return "", apperrors.MissingInput(role)
	}

	if utf8.RuneCountInString(strings.TrimSpace(text)) < n.minContentLength {
		return "", apperrors.InsufficientContent(role, n.minContentLength)
	}

	return text, nil
}
