// Package blob stores uploaded PDF files on local disk.
package blob

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ranganmag-api/internal/config"
	"github.com/ranganmag-api/internal/models"
	"github.com/rs/zerolog"
)

const pdfMIME = "application/pdf"

// StoredFile describes a blob written by the Receiver
type StoredFile struct {
	Filename  string
	LocalPath string // absolute
	PublicURL string // e.g. /uploads/<filename>
	Size      int64
}

// Receiver validates uploaded files and writes them to the upload directory
type Receiver struct {
	dir          string
	publicPrefix string
	maxSize      int64
	now          func() time.Time
	log          zerolog.Logger
}

// NewReceiver creates a Receiver rooted at cfg.UploadDir, creating the
// directory if needed
func NewReceiver(cfg config.StorageConfig, log zerolog.Logger) (*Receiver, error) {
	dir, err := filepath.Abs(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	prefix := cfg.PublicPrefix
	if prefix == "" {
		prefix = "/uploads"
	}
	return &Receiver{
		dir:          dir,
		publicPrefix: "/" + strings.Trim(prefix, "/"),
		maxSize:      cfg.MaxUploadSize,
		now:          time.Now,
		log:          log.With().Str("component", "blob").Logger(),
	}, nil
}

// Dir returns the absolute upload directory
func (r *Receiver) Dir() string { return r.dir }

// MaxSize returns the per-file size limit in bytes
func (r *Receiver) MaxSize() int64 { return r.maxSize }

// Check validates a file part without writing anything
func (r *Receiver) Check(header *multipart.FileHeader) error {
	if header == nil {
		return models.ErrNoFile
	}
	if header.Size > r.maxSize {
		return models.ErrTooLarge
	}

	mediaType, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if err != nil || mediaType != pdfMIME {
		return models.ErrInvalidType
	}

	f, err := header.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return fmt.Errorf("detect content type: %w", err)
	}
	if !detected.Is(pdfMIME) {
		return models.ErrInvalidType
	}
	return nil
}

// Store validates the part and writes it as <millis>_<sanitized title>.pdf
func (r *Receiver) Store(header *multipart.FileHeader, title string) (*StoredFile, error) {
	if err := r.Check(header); err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%d_%s.pdf", r.now().UnixMilli(), SanitizeTitle(title))
	localPath := filepath.Join(r.dir, filename)

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	// O_EXCL: a same-millisecond, same-title upload fails instead of overwriting.
	dst, err := os.OpenFile(localPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create blob: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(src, r.maxSize+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err == nil && written > r.maxSize {
		err = models.ErrTooLarge
	}
	if err != nil {
		if rmErr := os.Remove(localPath); rmErr != nil {
			r.log.Error().Err(rmErr).Str("path", localPath).Msg("Failed to remove partial blob")
		}
		if errors.Is(err, models.ErrTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("write blob: %w", err)
	}

	r.log.Info().
		Str("file", filename).
		Int64("size_bytes", written).
		Msg("Blob stored")

	return &StoredFile{
		Filename:  filename,
		LocalPath: localPath,
		PublicURL: path.Join(r.publicPrefix, filename),
		Size:      written,
	}, nil
}

// Remove deletes a stored blob. A missing file is not an error.
func (r *Receiver) Remove(localPath string) error {
	if localPath == "" {
		return nil
	}
	if err := os.Remove(localPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// SanitizeTitle replaces every rune that is not an ASCII letter or digit, or
// in the Bengali block, with an underscore
func SanitizeTitle(title string) string {
	if title == "" {
		return "article"
	}
	var b strings.Builder
	for _, c := range title {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c >= 0x0980 && c <= 0x09FF:
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
