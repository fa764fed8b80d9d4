// Package storage persists uploaded images on the local filesystem.
package storage

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	// Register decoders for upload validation.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/google/uuid"

	"murmur/internal/models"
)

const defaultMaxUploadBytes = 10 * 1024 * 1024

// ImageStore writes validated image uploads under a base directory. Stored
// filenames are derived from a slug of the original name plus a UUID so they
// never collide and never reflect raw user input.
type ImageStore struct {
	dir      string
	maxBytes int64
}

// NewImageStore returns a store rooted at dir.
func NewImageStore(dir string) *ImageStore {
	return &ImageStore{dir: dir, maxBytes: defaultMaxUploadBytes}
}

// Dir returns the base directory of the store.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save validates and writes content, returning the stored filename.
func (s *ImageStore) Save(content []byte, originalName string) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(content)
	if !strings.HasPrefix(detectedType, "image/") {
		return "", models.NewValidationError("Invalid image type")
	}
	if _, _, err := image.Decode(bytes.NewReader(content)); err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	name := buildFilename(originalName)
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), content, 0o640); err != nil {
		return "", models.NewInternalError(err)
	}
	return name, nil
}

// Resolve returns the absolute path for a stored filename. The name must be a
// bare filename; anything resembling a path component is rejected to prevent
// traversal.
func (s *ImageStore) Resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", models.NewValidationError("Invalid image name")
	}
	full := filepath.Join(s.dir, name)
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return "", models.NewNotFoundError("Image", name)
		}
		return "", models.NewInternalError(err)
	}
	return full, nil
}

// buildFilename produces "<slug>-<uuid><ext>" from the original upload name.
func buildFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))

	slug := slugify(base)
	if slug == "" {
		slug = "image"
	}
	return fmt.Sprintf("%s-%s%s", slug, uuid.NewString(), ext)
}

func slugify(v string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(v) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
