package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrFileTooLarge is returned when an uploaded file exceeds the configured
// size ceiling.
var ErrFileTooLarge = errors.New("uploaded file exceeds the size limit")

// ImageExtensions is the allow-list callers check before saving image
// uploads. The Saver itself does not gate on content type.
var ImageExtensions = []string{"png", "jpg", "jpeg"}

// Saver relocates uploaded files into sub-directories of a base directory
// under randomly generated names.
type Saver struct {
	baseDir  string
	maxBytes int64
}

// NewSaver creates a Saver rooted at baseDir with the given size ceiling.
func NewSaver(baseDir string, maxBytes int64) *Saver {
	return &Saver{
		baseDir:  baseDir,
		maxBytes: maxBytes,
	}
}

// Dir returns the absolute path of a sub-directory under the base directory.
func (s *Saver) Dir(subDir string) string {
	return filepath.Join(s.baseDir, subDir)
}

// Save validates the upload against the size ceiling, generates a random
// file name preserving the original extension, ensures the target directory
// exists and writes the file there. It returns the generated file name.
func (s *Saver) Save(header *multipart.FileHeader, subDir string) (string, error) {
	if header.Size > s.maxBytes {
		return "", ErrFileTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dir := s.Dir(subDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	fileName := strings.ReplaceAll(uuid.NewString(), "-", "") + filepath.Ext(header.Filename)

	dst, err := os.Create(filepath.Join(dir, fileName))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write uploaded file: %w", err)
	}

	return fileName, nil
}

// Extension returns the lower-cased extension of a file name without the
// leading dot.
func Extension(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}

// IsImage reports whether the file name carries an allow-listed image
// extension.
func IsImage(fileName string) bool {
	ext := Extension(fileName)
	for _, allowed := range ImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
