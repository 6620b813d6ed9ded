package storage

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// NormalizeImage fits JPEG and PNG images into a maxDim square box and
// re-encodes them. Other types (webp) are stored as uploaded.
// It returns the bytes to store, their content type and a file extension.
func NormalizeImage(data []byte, contentType string, maxDim int) ([]byte, string, string, error) {
	var format imaging.Format
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		format = imaging.JPEG
	case "image/png":
		format = imaging.PNG
	case "image/webp":
		return data, "image/webp", ".webp", nil
	default:
		return nil, "", "", fmt.Errorf("unsupported image type %q", contentType)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to decode image: %w", err)
	}
	if b := img.Bounds(); maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if format == imaging.PNG {
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, "", "", fmt.Errorf("failed to encode image: %w", err)
		}
		return buf.Bytes(), "image/png", ".png", nil
	}
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, "", "", fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", ".jpg", nil
}
