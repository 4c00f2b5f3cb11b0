package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"alfredoptarigan/resume-parser/internal/apperrors"
)

// StorageService holds an upload on disk for the lifetime of one request.
type StorageService interface {
	EnsureUploadDir() error
	SaveUpload(originalName string, src io.Reader) (string, error)
	Remove(path string) error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{uploadPath: uploadPath}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

// SaveUpload writes src as <uuid>_<sanitized name> and returns its path.
// Only .pdf names are accepted.
func (s *storageService) SaveUpload(originalName string, src io.Reader) (string, error) {
	if !IsPDFName(originalName) {
		return "", apperrors.NewValidationError(apperrors.CodeUnsupportedFileType,
			"Invalid file type. Please upload a PDF file.")
	}

	path := filepath.Join(s.uploadPath, fmt.Sprintf("%s_%s", uuid.New().String(), SecureFilename(originalName)))

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return path, nil
}

// Remove deletes a saved upload. A file that is already gone is not an error.
func (s *storageService) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func IsPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(strings.TrimSpace(name)), ".pdf")
}

const defaultUploadName = "resume.pdf"

// SecureFilename reduces a client-supplied name to ASCII letters, digits,
// '.', '-' and '_', with no directory part and no leading dots.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}

	out := strings.TrimLeft(b.String(), "._")
	if IsPDFName(name) && (!IsPDFName(out) || strings.EqualFold(out, ".pdf")) {
		return defaultUploadName
	}
	return out
}
