// Package covers stores uploaded book cover images on the local filesystem.
// Files are served read-only under /uploads and referenced from Book.CoverImage
// by filename only.
package covers

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/mrlokans/bookshelf/internal/metrics"
)

// FieldName is the multipart field carrying the cover image.
const FieldName = "coverImage"

var allowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

var (
	ErrUnsupportedType = errors.New("unsupported cover image type")
	ErrTooLarge        = errors.New("cover image too large")
)

// Store handles cover image files in a single directory.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore creates the upload directory if needed.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the upload directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save validates and writes an uploaded cover, returning its generated filename.
func (s *Store) Save(fh *multipart.FileHeader) (name string, err error) {
	defer func() {
		switch {
		case errors.Is(err, ErrUnsupportedType), errors.Is(err, ErrTooLarge):
			metrics.CoverUploadsTotal.WithLabelValues("rejected").Inc()
		case err != nil:
			metrics.CoverUploadsTotal.WithLabelValues("error").Inc()
		default:
			metrics.CoverUploadsTotal.WithLabelValues("ok").Inc()
		}
	}()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !lo.Contains(allowedExtensions, ext) {
		return "", ErrUnsupportedType
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name = generateName(ext)
	if err := s.write(src, name); err != nil {
		return "", err
	}
	return name, nil
}

// write copies src into the store through a temp file so a failed upload
// never leaves a partial cover behind.
func (s *Store) write(src io.Reader, name string) error {
	tmpFile, err := os.CreateTemp(s.dir, "upload_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	reader := src
	if s.maxBytes > 0 {
		reader = io.LimitReader(src, s.maxBytes+1)
	}
	n, err := io.Copy(tmpFile, reader)
	if err != nil {
		return err
	}
	if s.maxBytes > 0 && n > s.maxBytes {
		return ErrTooLarge
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, filepath.Join(s.dir, name))
}

// Remove deletes a stored cover. Missing files and empty names are ignored.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveOrphans deletes stored covers that no book references. Files younger
// than minAge are kept so uploads still attaching to a book survive.
func (s *Store) RemoveOrphans(referenced []string, minAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	keep := lo.SliceToMap(referenced, func(name string) (string, struct{}) { return name, struct{}{} })
	cutoff := time.Now().Add(-minAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), FieldName+"-") {
			continue
		}
		if _, ok := keep[entry.Name()]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := s.Remove(entry.Name()); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// generateName returns coverImage-<unix nanos>-<random>.<ext>.
func generateName(ext string) string {
	return fmt.Sprintf("%s-%d-%d%s", FieldName, time.Now().UnixNano(), rand.IntN(1e9), ext)
}
