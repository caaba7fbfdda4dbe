// Package datauri converts between on-disk PNG images and base64 data URIs,
// the in-memory representation used for clipboard images throughout clipbox.
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Prefix is the media-type marker prepended to every encoded image.
const Prefix = "data:image/png;base64,"

var (
	// ErrMalformed is returned when a data URI has no base64 payload section.
	ErrMalformed = errors.New("datauri: missing base64 payload")
	// ErrInvalidEncoding is returned when the payload is not valid base64.
	ErrInvalidEncoding = errors.New("datauri: invalid base64 payload")
)

// FromBytes wraps raw PNG bytes as a data URI.
func FromBytes(data []byte) string {
	return Prefix + base64.StdEncoding.EncodeToString(data)
}

// IsImage reports whether s looks like an already-encoded image data URI.
func IsImage(s string) bool {
	return strings.HasPrefix(s, "data:image/") && strings.Contains(s, "base64,")
}

// EncodeFile reads the file at path in full and returns it as a data URI.
func EncodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("datauri: read %s: %w", path, err)
	}
	return FromBytes(data), nil
}

// DecodeToTempFile decodes the payload of uri into a freshly named temporary
// file and returns its path. The caller owns the file and must remove it when
// done. On any error no file is left behind.
func DecodeToTempFile(uri string) (string, error) {
	parts := strings.SplitN(uri, ",", 2)
	if len(parts) < 2 {
		return "", ErrMalformed
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}

	f, err := os.CreateTemp("", "clipbox-image-*.png")
	if err != nil {
		return "", fmt.Errorf("datauri: create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("datauri: write %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("datauri: close %s: %w", f.Name(), err)
	}
	return f.Name(), nil
}
