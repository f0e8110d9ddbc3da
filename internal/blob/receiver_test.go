package blob_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ranganmag-api/internal/blob"
	"github.com/ranganmag-api/internal/config"
	"github.com/ranganmag-api/internal/mocks"
	"github.com/ranganmag-api/internal/models"
	"github.com/rs/zerolog"
)

func newReceiver(t *testing.T, maxSize int64) *blob.Receiver {
	t.Helper()
	r, err := blob.NewReceiver(config.StorageConfig{
		UploadDir:     t.TempDir(),
		PublicPrefix:  "/uploads",
		MaxUploadSize: maxSize,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewReceiver failed: %v", err)
	}
	return r
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Hello World", "Hello_World"},
		{"স্বাধীনতার ৫৩ বছর", "স্বাধীনতার_৫৩_বছর"},
		{"../../etc/passwd", "______etc_passwd"},
		{"a/b\\c:d", "a_b_c_d"},
		{"Économie", "_conomie"},
		{"", "article"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := blob.SanitizeTitle(tt.title); got != tt.expected {
				t.Errorf("SanitizeTitle(%q) = %q, expected %q", tt.title, got, tt.expected)
			}
		})
	}
}

func TestReceiver_Store(t *testing.T) {
	r := newReceiver(t, 1<<20)
	header := mocks.FileHeader(t, "paper.pdf", "application/pdf", mocks.FakePDF(4096))

	stored, err := r.Store(header, "অর্থনৈতিক উন্নয়ন")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if !strings.HasSuffix(stored.Filename, "_অর্থনৈতিক_উন্নয়ন.pdf") {
		t.Errorf("Unexpected filename %q", stored.Filename)
	}
	if stored.PublicURL != "/uploads/"+stored.Filename {
		t.Errorf("Unexpected public URL %q", stored.PublicURL)
	}
	if !filepath.IsAbs(stored.LocalPath) {
		t.Errorf("Expected absolute local path, got %q", stored.LocalPath)
	}
	if stored.Size != 4096 {
		t.Errorf("Expected 4096 bytes, got %d", stored.Size)
	}

	info, err := os.Stat(stored.LocalPath)
	if err != nil {
		t.Fatalf("Stored blob missing: %v", err)
	}
	if info.Size() != 4096 {
		t.Errorf("Expected blob of 4096 bytes on disk, got %d", info.Size())
	}
}

func TestReceiver_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		content     []byte
		expectErr   error
	}{
		{"declared image", "image/png", mocks.FakePDF(128), models.ErrInvalidType},
		{"declared pdf but plain text", "application/pdf", []byte("just some text, not a pdf"), models.ErrInvalidType},
		{"too large", "application/pdf", mocks.FakePDF(2048), models.ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newReceiver(t, 1024)
			header := mocks.FileHeader(t, "upload.pdf", tt.contentType, tt.content)

			_, err := r.Store(header, "T")
			if !errors.Is(err, tt.expectErr) {
				t.Fatalf("Expected %v, got %v", tt.expectErr, err)
			}

			entries, _ := os.ReadDir(r.Dir())
			if len(entries) != 0 {
				t.Errorf("Expected no blob written, found %d files", len(entries))
			}
		})
	}
}

func TestReceiver_NilHeader(t *testing.T) {
	r := newReceiver(t, 1024)
	if err := r.Check(nil); !errors.Is(err, models.ErrNoFile) {
		t.Errorf("Expected ErrNoFile, got %v", err)
	}
}

func TestReceiver_Remove(t *testing.T) {
	r := newReceiver(t, 1<<20)
	stored, err := r.Store(mocks.FileHeader(t, "a.pdf", "application/pdf", mocks.FakePDF(256)), "A")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if err := r.Remove(stored.LocalPath); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(stored.LocalPath); !os.IsNotExist(err) {
		t.Errorf("Expected blob to be removed, stat err = %v", err)
	}

	// Removing again is not an error
	if err := r.Remove(stored.LocalPath); err != nil {
		t.Errorf("Expected nil for missing file, got %v", err)
	}
}
