package media

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func svgDataURI(t *testing.T) string {
	t.Helper()
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}

func TestEmbedBase64ImageSVGPassthrough(t *testing.T) {
	embedder := NewImageEmbedder(t.TempDir())

	uri := svgDataURI(t)
	got, err := embedder.EmbedBase64Image(uri, MaxEmbedWidth)
	if err != nil {
		t.Fatalf("EmbedBase64Image: %v", err)
	}
	if got != uri {
		t.Error("SVG data URI should pass through unchanged")
	}
}

func TestEmbedBase64ImageRejectsBadInput(t *testing.T) {
	embedder := NewImageEmbedder(t.TempDir())

	if _, err := embedder.EmbedBase64Image("", MaxEmbedWidth); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := embedder.EmbedBase64Image("not a data uri", MaxEmbedWidth); err == nil {
		t.Error("expected error for plain text")
	}
	if _, err := embedder.EmbedBase64Image("data:image/svg+xml;base64,!!!", MaxEmbedWidth); err == nil {
		t.Error("expected error for invalid base64 payload")
	}
	if _, err := embedder.EmbedBase64Image("data:image/png;base64,aGVsbG8=", MaxEmbedWidth); err == nil {
		t.Error("expected error for non-image payload")
	}
}

func TestSavePreviewImage(t *testing.T) {
	dir := t.TempDir()
	embedder := NewImageEmbedder(dir)

	path, err := embedder.SavePreviewImage(svgDataURI(t), "tpl-1")
	if err != nil {
		t.Fatalf("SavePreviewImage: %v", err)
	}
	if !strings.HasPrefix(path, "/media/previews/tpl-1-") {
		t.Errorf("path = %q, want /media/previews/tpl-1-* prefix", path)
	}
	if !strings.HasSuffix(path, ".svg") {
		t.Errorf("path = %q, want .svg suffix", path)
	}

	onDisk := filepath.Join(dir, strings.TrimPrefix(path, "/media/"))
	if _, err := os.Stat(onDisk); err != nil {
		t.Errorf("preview file not written: %v", err)
	}

	if err := embedder.DeletePreviewImage(path); err != nil {
		t.Fatalf("DeletePreviewImage: %v", err)
	}
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Error("preview file should be removed")
	}

	// Deleting again is not an error.
	if err := embedder.DeletePreviewImage(path); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestSavePreviewImageRejectsUnknownFormat(t *testing.T) {
	embedder := NewImageEmbedder(t.TempDir())

	if _, err := embedder.SavePreviewImage("data:image/tiff;base64,AAAA", "tpl-1"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestExtractExtension(t *testing.T) {
	tests := []struct {
		data string
		want string
	}{
		{"data:image/svg+xml;base64,x", "svg"},
		{"data:image/png;base64,x", "png"},
		{"data:image/jpeg;base64,x", "jpg"},
		{"data:image/jpg;base64,x", "jpg"},
		{"data:image/webp;base64,x", "webp"},
		{"data:image/tiff;base64,x", ""},
	}
	for _, tt := range tests {
		if got := extractExtension(tt.data); got != tt.want {
			t.Errorf("extractExtension(%q) = %q, want %q", tt.data, got, tt.want)
		}
	}
}
