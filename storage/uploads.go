package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ecowall/models"
)

const (
	// FieldName is the multipart form field carrying the post image.
	FieldName = "image"

	// MaxUploadSize bounds a single image upload.
	MaxUploadSize = 5 << 20 // 5 MB

	// URLPrefix is the static mount the upload directory is served under.
	URLPrefix = "/uploads"

	filenamePrefix = "image"
)

// Upload rejections, each with its own client-facing message.
var (
	ErrNotImage = errors.New("Only image files are allowed")
	ErrTooLarge = errors.New("Image must be smaller than 5 MB")
	ErrTooMany  = errors.New("Only one image may be uploaded per post")
)

// Uploader validates incoming image files and persists them to a single flat
// directory, created on first use.
type Uploader struct {
	Dir string
}

func NewUploader(dir string) *Uploader {
	return &Uploader{Dir: dir}
}

// Save validates the file and writes it to the upload directory under a
// generated collision-resistant name. The client-supplied filename is only
// trusted for its extension.
func (u *Uploader) Save(file *multipart.FileHeader) (*models.ImageMeta, error) {
	mimeType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, ErrNotImage
	}
	if file.Size > MaxUploadSize {
		return nil, ErrTooLarge
	}

	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := fmt.Sprintf("%s-%d-%d%s", filenamePrefix, time.Now().UnixMilli(), rand.Intn(1e9), ext)

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	path := filepath.Join(u.Dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close %s: %w", path, err)
	}

	return &models.ImageMeta{
		Filename:     name,
		RelativePath: URLPrefix + "/" + name,
		MimeType:     mimeType,
		SizeBytes:    file.Size,
	}, nil
}

// Remove deletes a stored image by filename. A file that is already gone is
// not an error.
func (u *Uploader) Remove(filename string) error {
	if filename == "" {
		return nil
	}
	// Base guards against stored names escaping the upload directory.
	path := filepath.Join(u.Dir, filepath.Base(filename))
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
