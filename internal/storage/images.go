package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/immedha/firstlight/internal/config"
)

var (
	ErrImageTooLarge    = errors.New("image exceeds the maximum upload size")
	ErrUnsupportedImage = errors.New("only PNG and JPG images are allowed")
)

var allowedImageTypes = map[string]bool{"image/png": true, "image/jpeg": true}

var unsafeFilenamePattern = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// ImageStore persists uploaded product images on disk and hands back a
// durable URL. Size and type validation happens here, before any image
// list ever reaches the product lifecycle.
type ImageStore struct {
	dir      string
	baseURL  string
	maxBytes int64
}

func NewImageStore(cfg *config.Config) (*ImageStore, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &ImageStore{
		dir:      cfg.UploadDir,
		baseURL:  cfg.UploadBaseURL,
		maxBytes: cfg.UploadMaxBytes,
	}, nil
}

// Dir returns the on-disk directory images are served from.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save validates and stores one uploaded image, returning its URL.
func (s *ImageStore) Save(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > s.maxBytes {
		return "", ErrImageTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	// sniff the real content type instead of trusting the filename
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if !allowedImageTypes[http.DetectContentType(head[:n])] {
		return "", ErrUnsupportedImage
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}

	sanitized := unsafeFilenamePattern.ReplaceAllString(filepath.Base(fileHeader.Filename), "_")
	filename := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), sanitized)

	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return s.baseURL + "/" + filename, nil
}
