package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStorage defines the interface for uploaded file storage
type FileStorage interface {
	Store(ctx context.Context, content io.Reader, filename string) (string, error)
	Open(ctx context.Context, filePath string) (io.ReadCloser, error)
	Delete(ctx context.Context, filePath string) error
	Exists(ctx context.Context, filePath string) (bool, error)
}

// LocalFileStorage implements FileStorage using local filesystem
type LocalFileStorage struct {
	basePath  string
	chunkSize int
}

// NewLocalFileStorage creates a local file storage rooted at basePath
func NewLocalFileStorage(basePath string) *LocalFileStorage {
	return &LocalFileStorage{basePath: basePath, chunkSize: 1024 * 1024}
}

// Store saves content under a unique name derived from filename
func (s *LocalFileStorage) Store(ctx context.Context, content io.Reader, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	filePath := filepath.Join(s.basePath, uniqueName(filename))
	destFile, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destFile.Close()

	buf := make([]byte, s.chunkSize)
	if _, err := io.CopyBuffer(destFile, content, buf); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to copy file contents: %w", err)
	}
	return filePath, nil
}

// uniqueName keeps the base name and extension of filename, stripped of any
// directory, and adds a timestamp and a short random suffix.
func uniqueName(filename string) string {
	base := filepath.Base(filepath.Clean("/" + filename))
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" || stem == "/" || stem == "." {
		stem = "upload"
	}
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s%s", stem, timestamp, uuid.New().String()[:8], ext)
}

// Open returns a reader for the stored file
func (s *LocalFileStorage) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes a file from storage
func (s *LocalFileStorage) Delete(ctx context.Context, filePath string) error {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists checks if a file exists in storage
func (s *LocalFileStorage) Exists(ctx context.Context, filePath string) (bool, error) {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return true, nil
}
