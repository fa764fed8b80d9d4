package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveAndResolve(t *testing.T) {
	store := NewImageStore(t.TempDir())

	name, err := store.Save(pngBytes(t), "Holiday Photo.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "holiday-photo-"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	path, err := store.Resolve(name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Dir(), name), path)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestSaveRejectsNonImage(t *testing.T) {
	store := NewImageStore(t.TempDir())

	_, err := store.Save([]byte("#!/bin/sh\nrm -rf /"), "script.png")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestSaveRejectsEmpty(t *testing.T) {
	store := NewImageStore(t.TempDir())

	_, err := store.Save(nil, "nothing.png")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestResolveRejectsTraversal(t *testing.T) {
	store := NewImageStore(t.TempDir())

	for _, name := range []string{"../../etc/passwd", "a/b.png", ".hidden", ""} {
		_, err := store.Resolve(name)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr, "name %q", name)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code, "name %q", name)
	}
}

func TestResolveMissingFile(t *testing.T) {
	store := NewImageStore(t.TempDir())

	_, err := store.Resolve("nope-12345.png")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
