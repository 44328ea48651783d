package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/relayvision/visionlog/internal/model"
)

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

var (
	// ImageConstraints covers thought images and avatars
	ImageConstraints = FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/webp": true,
			"image/gif":  true,
		},
		AllowedExtensions: map[string]bool{
			".jpg":  true,
			".jpeg": true,
			".png":  true,
			".webp": true,
			".gif":  true,
		},
		MaxSize: 5 << 20, // 5MB
	}

	VideoConstraints = FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"video/mp4":  true,
			"video/webm": true,
		},
		AllowedExtensions: map[string]bool{
			".mp4":  true,
			".webm": true,
		},
		MaxSize: 50 << 20, // 50MB
	}

	// AudioConstraints accepts browser recordings; sniffing reports webm audio as video/webm
	AudioConstraints = FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"audio/mpeg":      true,
			"audio/wave":      true,
			"application/ogg": true,
			"video/webm":      true,
		},
		AllowedExtensions: map[string]bool{
			".mp3":  true,
			".wav":  true,
			".ogg":  true,
			".webm": true,
		},
		MaxSize: 20 << 20, // 20MB
	}
)

// MediaConstraints returns the rules for an upload kind.
func MediaConstraints(kind string) (FileConstraints, error) {
	switch kind {
	case model.FileTypeImage, model.FileTypeAvatar:
		return ImageConstraints, nil
	case model.FileTypeVideo:
		return VideoConstraints, nil
	case model.FileTypeAudio:
		return AudioConstraints, nil
	}
	return FileConstraints{}, invalid("unknown media kind %q", kind)
}

// ValidateMediaSize is the cheap pre-upload check clients run before sending anything.
func ValidateMediaSize(kind string, size int64) error {
	c, err := MediaConstraints(kind)
	if err != nil {
		return err
	}
	return c.checkSize(size)
}

// ValidateFile validates a file upload against one or more constraint sets
// If multiple constraints are provided, file must match at least one (OR logic)
// It returns the detected content type.
func ValidateFile(header *multipart.FileHeader, constraints ...FileConstraints) (string, error) {
	if len(constraints) == 0 {
		return "", fmt.Errorf("no file constraints provided")
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lastErr error
	for _, constraint := range constraints {
		detected, err := ValidateReader(header.Filename, header.Size, file, constraint)
		if err == nil {
			return detected, nil
		}
		lastErr = err
	}

	return "", lastErr
}

// ValidateReader checks size, magic number and extension of one file.
// r is rewound afterwards when it implements io.Seeker.
func ValidateReader(filename string, size int64, r io.Reader, constraints FileConstraints) (string, error) {
	// Check file size first (before reading content)
	if err := constraints.checkSize(size); err != nil {
		return "", err
	}

	// http.DetectContentType reads max 512 bytes to determine MIME type
	buffer := make([]byte, 512)
	n, err := io.ReadFull(r, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	if seeker, ok := r.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("failed to reset file pointer: %w", err)
		}
	}

	// Detected from content, so a renamed file cannot fake its type
	detectedType := http.DetectContentType(buffer[:n])
	if !constraints.AllowedMimeTypes[detectedType] {
		return "", invalid("invalid file type (detected: %s)", detectedType)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !constraints.AllowedExtensions[ext] {
		return "", invalid("invalid file extension: %s", ext)
	}

	return detectedType, nil
}

func (c FileConstraints) checkSize(size int64) error {
	if size <= 0 {
		return invalid("file is empty")
	}
	if size > c.MaxSize {
		return invalid("file too large: maximum size is %d MB", c.MaxSize/(1<<20))
	}
	return nil
}
