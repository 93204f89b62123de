package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultFileName is used when saving without a name.
	DefaultFileName = "exercise.mdx"
	// MIMEType is the media type of lesson files.
	MIMEType = "text/markdown"
)

// Extensions lists the accepted lesson file extensions.
var Extensions = []string{".mdx", ".md"}

// ErrUnsupportedFile is returned for files without a lesson extension.
var ErrUnsupportedFile = errors.New("unsupported file type")

// HasLessonExt reports whether path ends in an accepted extension.
func HasLessonExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadFile reads a lesson file.
func LoadFile(path string) (string, error) {
	if !HasLessonExt(path) {
		return "", fmt.Errorf("%w: %s (want %s)", ErrUnsupportedFile, path, strings.Join(Extensions, ", "))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read lesson: %w", err)
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

// SaveFile writes text to path with exercise ids removed. An empty path or
// a directory saves to DefaultFileName there. The write goes through a
// temporary file so a failed save never truncates the old one. It returns
// the path written.
func SaveFile(path, text string) (string, error) {
	if path == "" {
		path = DefaultFileName
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFileName)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".lesson-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to set permissions: %w", err)
	}
	if _, err := tmp.WriteString(StripIDs(text)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write lesson: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write lesson: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to save lesson: %w", err)
	}

	log.Info().Str("path", path).Int("bytes", len(text)).Msg("lesson saved")
	return path, nil
}
