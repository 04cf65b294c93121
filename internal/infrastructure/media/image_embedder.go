// Package media provides image processing utilities
package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// MaxEmbedWidth is the widest an embedded image gets before downscaling.
// Published snapshots inline every image as a data URI, so oversized uploads
// would bloat the document.
const MaxEmbedWidth = 1600

var dataURIPattern = regexp.MustCompile(`^data:image/[\w.+-]+;base64,`)

// ImageEmbedder converts uploaded images into compact data URIs for use as
// image customization values, and saves template preview images to disk.
type ImageEmbedder struct {
	basePath string
}

// NewImageEmbedder creates a new ImageEmbedder instance
func NewImageEmbedder(basePath string) *ImageEmbedder {
	return &ImageEmbedder{
		basePath: basePath,
	}
}

// EmbedBase64Image takes a base64 data URI upload, downscales it to at most
// maxWidth, re-encodes it as WebP and returns the resulting data URI. SVG
// uploads pass through untouched since they are already compact text.
func (e *ImageEmbedder) EmbedBase64Image(data string, maxWidth int) (string, error) {
	if data == "" {
		return "", fmt.Errorf("empty base64 data")
	}
	if maxWidth <= 0 {
		maxWidth = MaxEmbedWidth
	}

	if strings.HasPrefix(data, "data:image/svg+xml;base64,") {
		// Validate the payload decodes, then keep the original URI.
		b64Data := strings.TrimPrefix(data, "data:image/svg+xml;base64,")
		if _, err := base64.StdEncoding.DecodeString(b64Data); err != nil {
			return "", fmt.Errorf("failed to decode base64: %w", err)
		}
		return data, nil
	}

	decoded, err := decodeDataURI(data)
	if err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(decoded))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode WebP: %w", err)
	}

	return "data:image/webp;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// SavePreviewImage writes a template preview image to disk and returns the
// relative URL path it is served under.
func (e *ImageEmbedder) SavePreviewImage(data, templateID string) (string, error) {
	if data == "" {
		return "", fmt.Errorf("empty base64 data")
	}

	ext := extractExtension(data)
	if ext == "" {
		return "", fmt.Errorf("unsupported image format")
	}

	previewsDir := filepath.Join(e.basePath, "previews")
	if err := os.MkdirAll(previewsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create previews directory: %w", err)
	}

	decoded, err := decodeDataURI(data)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s-%d.%s", templateID, time.Now().Unix(), ext)
	fullPath := filepath.Join(previewsDir, filename)
	if err := os.WriteFile(fullPath, decoded, 0644); err != nil {
		return "", fmt.Errorf("failed to write preview file: %w", err)
	}

	return "/media/previews/" + filename, nil
}

// DeletePreviewImage removes a template's preview file, tolerating a missing
// file.
func (e *ImageEmbedder) DeletePreviewImage(previewPath string) error {
	if previewPath == "" {
		return nil
	}

	fullPath := filepath.Join(e.basePath, strings.TrimPrefix(previewPath, "/media/"))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove preview: %w", err)
	}
	return nil
}

// decodeDataURI strips the data URI prefix and decodes the base64 payload.
func decodeDataURI(data string) ([]byte, error) {
	if !dataURIPattern.MatchString(data) {
		return nil, fmt.Errorf("invalid image data URI")
	}

	b64Data := dataURIPattern.ReplaceAllString(data, "")
	decoded, err := base64.StdEncoding.DecodeString(b64Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return decoded, nil
}

// extractExtension auto-detects file extension from MIME type
func extractExtension(data string) string {
	if strings.Contains(data, "data:image/svg+xml") {
		return "svg"
	} else if strings.Contains(data, "data:image/png") {
		return "png"
	} else if strings.Contains(data, "data:image/jpeg") || strings.Contains(data, "data:image/jpg") {
		return "jpg"
	} else if strings.Contains(data, "data:image/webp") {
		return "webp"
	}
	return ""
}
