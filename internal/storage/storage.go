// Package storage persists expense attachments on the local filesystem.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "swatchx/internal/errors"
)

// allowedExtensions are the attachment types accepted for upload.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
}

// reservedChars are replaced during filename sanitization.
const reservedChars = `<>:"/\|?*`

// Store saves and serves expense attachments under a single root directory.
// Stored paths are always root-relative; lookups never escape the root.
type Store struct {
	root    string
	maxSize int64
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, maxSize int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create attachment directory: %w", err)
	}
	return &Store{root: dir, maxSize: maxSize}, nil
}

// Save validates and writes an uploaded file, returning the stored path
// (the root directory joined with a sanitized, uniquified filename).
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Filename == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidAttachment, "No filename provided")
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return "", apperrors.WithMessage(apperrors.ErrInvalidAttachment,
			"File type not allowed. Allowed types: pdf, jpg, jpeg, png, gif, bmp, tiff")
	}

	if s.maxSize > 0 && fh.Size > s.maxSize {
		return "", apperrors.WithMessage(apperrors.ErrAttachmentTooLarge,
			fmt.Sprintf("File too large. Maximum size: %dMB", s.maxSize>>20))
	}

	src, err := fh.Open()
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer src.Close()

	name := uniqueFilename(fh.Filename)
	dst, err := os.Create(filepath.Join(s.root, name))
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return filepath.Join(s.root, name), nil
}

// Resolve maps a stored path back to an absolute file path, verifying the
// file exists. Only the final path element is honored, so traversal
// sequences in stored values cannot leave the root.
func (s *Store) Resolve(storedPath string) (string, error) {
	if storedPath == "" {
		return "", apperrors.ErrAttachmentNotFound
	}
	full := filepath.Join(s.root, filepath.Base(storedPath))
	if _, err := os.Stat(full); err != nil {
		return "", apperrors.ErrAttachmentNotFound
	}
	return full, nil
}

// Delete removes a stored file. A missing file is not an error.
func (s *Store) Delete(storedPath string) error {
	if storedPath == "" {
		return nil
	}
	full := filepath.Join(s.root, filepath.Base(storedPath))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// sanitizeFilename strips path components, replaces reserved characters,
// and caps the stem at 50 characters.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	filename = strings.Map(func(r rune) rune {
		if strings.ContainsRune(reservedChars, r) {
			return '_'
		}
		return r
	}, filename)

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	if len(stem) > 50 {
		stem = stem[:50]
	}
	return stem + ext
}

// uniqueFilename appends a short random fragment to a sanitized filename
// so repeated uploads of the same file never collide.
func uniqueFilename(filename string) string {
	sanitized := sanitizeFilename(filename)
	ext := filepath.Ext(sanitized)
	stem := strings.TrimSuffix(sanitized, ext)
	return fmt.Sprintf("%s_%s%s", stem, uuid.New().String()[:8], ext)
}
