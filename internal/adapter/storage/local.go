package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"agrolend-backend/pkg/apperr"

	"github.com/google/uuid"
)

const (
	DefaultMaxBytes = 5 << 20
	receiptsDir     = "receipts"
)

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".pdf": true}

// Local keeps blobs on the filesystem under dir and serves them from baseURL.
type Local struct {
	dir      string
	baseURL  string
	maxBytes int64
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if dir == "" {
		return nil, errors.New("storage: empty upload dir")
	}
	if err := os.MkdirAll(filepath.Join(dir, receiptsDir), 0o755); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), maxBytes: DefaultMaxBytes}, nil
}

func (s *Local) Dir() string { return s.dir }

// Put stores body under a random key and returns its public reference.
func (s *Local) Put(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", apperr.Validation(apperr.CodeInvalidInput, "receipt must be a jpg, png, webp or pdf file")
	}
	if contentType != "" && !strings.HasPrefix(contentType, "image/") && contentType != "application/pdf" &&
		contentType != "application/octet-stream" {
		return "", apperr.Validation(apperr.CodeInvalidInput, "receipt must be an image or pdf")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := uuid.NewString() + ext
	tmp, err := os.CreateTemp(filepath.Join(s.dir, receiptsDir), ".upload-*")
	if err != nil {
		return "", apperr.Storage(err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, io.LimitReader(body, s.maxBytes+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", apperr.Storage(err)
	}
	if n > s.maxBytes {
		return "", apperr.Validation(apperr.CodeInvalidInput, fmt.Sprintf("receipt exceeds %d bytes", s.maxBytes))
	}
	if n == 0 {
		return "", apperr.Validation(apperr.CodeInvalidInput, "receipt is empty")
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, receiptsDir, key)); err != nil {
		return "", apperr.Storage(err)
	}
	return s.baseURL + "/" + path.Join(receiptsDir, key), nil
}
