package services

import (
	"fmt"
	"io"
	"mime/multipart"

	"fitmatch-ai/fitmatch-api/internal/apperrors"
	"fitmatch-ai/fitmatch-api/internal/models"
)

// UploadService reads multipart uploads into memory. Nothing is written
// to disk.
type UploadService interface {
	ReadFile(file *multipart.FileHeader) (*models.UploadedFile, error)
}

type uploadService struct {
	maxFileSize int64
}

func NewUploadService(maxFileSize int64) UploadService {
	return &uploadService{
		maxFileSize: maxFileSize,
	}
}

func (s *uploadService) ReadFile(file *multipart.FileHeader) (*models.UploadedFile, error) {
	if file.Size > s.maxFileSize {
		return nil, apperrors.FileTooLarge(file.Filename, s.maxFileSize)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// The declared size is not trusted; read one byte past the limit.
	data, err := io.ReadAll(io.LimitReader(src, s.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) > s.maxFileSize {
		return nil, apperrors.FileTooLarge(file.Filename, s.maxFileSize)
	}

	return &models.UploadedFile{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
