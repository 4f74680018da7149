package file

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

var documentExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}

type FileService interface {
	// UploadLeaveAttachment stores a leave supporting file and returns its key
	UploadLeaveAttachment(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error)

	// UploadRegularizationDocument stores a regularization supporting document and returns its key
	UploadRegularizationDocument(ctx context.Context, employeeID string, date time.Time, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, key string) error
	GetFileURL(key string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadLeaveAttachment uploads to leave/{employeeID}/{uuid}{ext}
func (s *fileServiceImpl) UploadLeaveAttachment(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error) {
	name, err := newFilename(filename)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("leave/%s/%s", employeeID, name)
	return s.storage.Upload(ctx, file, key, contentType(filename))
}

// UploadRegularizationDocument uploads to regularization/{employeeID}/{YYYY-MM-DD}_{uuid}{ext}
func (s *fileServiceImpl) UploadRegularizationDocument(ctx context.Context, employeeID string, date time.Time, file io.Reader, filename string) (string, error) {
	name, err := newFilename(filename)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("regularization/%s/%s_%s", employeeID, timeutil.FormatDate(date), name)
	return s.storage.Upload(ctx, file, key, contentType(filename))
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.storage.Delete(ctx, key)
}

func (s *fileServiceImpl) GetFileURL(key string) string {
	if key == "" {
		return ""
	}
	return s.storage.URL(key)
}

func newFilename(original string) (string, error) {
	if !validator.HasExtension(original, documentExtensions) {
		return "", fmt.Errorf("invalid file type: only pdf, jpg, jpeg, png allowed")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate file name: %w", err)
	}
	return id.String() + strings.ToLower(filepath.Ext(original)), nil
}

func contentType(filename string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
