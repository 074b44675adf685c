// Package assets stores product pictures and returns the public URL they are
// served from.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PublicPrefix is the route the static handler serves the image folder on.
const PublicPrefix = "/product-images"

var (
	ErrEmptyImage   = errors.New("image is empty")
	ErrTooLarge     = errors.New("image is too large")
	ErrNotAnImage   = errors.New("file is not a supported image")
	ErrInvalidOwner = errors.New("product id is invalid")
	ErrForeignURL   = errors.New("url was not issued by this uploader")
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Uploader stores one picture for a product of a user. Remove deletes a
// picture returned by Upload that ended up unused.
type Uploader interface {
	Upload(userID uint, productID string, r io.Reader) (string, error)
	Remove(url string) error
}

// DiskUploader writes pictures under Root/<userID>/ and answers
// BaseURL + PublicPrefix + /<userID>/<file>.
type DiskUploader struct {
	Root     string
	BaseURL  string
	MaxBytes int64
	now      func() time.Time
}

func NewDiskUploader(root, baseURL string, maxBytes int64) *DiskUploader {
	return &DiskUploader{Root: root, BaseURL: baseURL, MaxBytes: maxBytes, now: time.Now}
}

func (u *DiskUploader) Upload(userID uint, productID string, r io.Reader) (string, error) {
	name := unsafeChars.ReplaceAllString(productID, "")
	if name == "" {
		return "", ErrInvalidOwner
	}

	limit := u.MaxBytes
	if limit <= 0 {
		limit = 5 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	if int64(len(data)) > limit {
		return "", ErrTooLarge
	}

	ext, ok := extensions[http.DetectContentType(data)]
	if !ok {
		return "", ErrNotAnImage
	}

	owner := strconv.FormatUint(uint64(userID), 10)
	dir := filepath.Join(u.Root, owner)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create image folder: %w", err)
	}

	// a new name per upload so that clients never see a cached old picture
	fileName := fmt.Sprintf("%s-%d%s", name, u.now().UnixNano(), ext)
	file, err := os.Create(filepath.Join(dir, fileName))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	return u.BaseURL + PublicPrefix + "/" + owner + "/" + fileName, nil
}

// Remove deletes the file behind a URL returned by Upload. A missing file is
// not an error.
func (u *DiskUploader) Remove(url string) error {
	rel, ok := strings.CutPrefix(url, u.BaseURL+PublicPrefix+"/")
	if !ok {
		return ErrForeignURL
	}
	owner, fileName, ok := strings.Cut(rel, "/")
	if !ok {
		return ErrForeignURL
	}
	if _, err := strconv.ParseUint(owner, 10, 64); err != nil {
		return ErrForeignURL
	}
	if fileName == "" || fileName != filepath.Base(fileName) || strings.HasPrefix(fileName, ".") {
		return ErrForeignURL
	}

	err := os.Remove(filepath.Join(u.Root, owner, fileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
