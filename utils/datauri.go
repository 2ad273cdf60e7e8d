package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"
)

const DefaultImageMIME = "image/jpeg"

// ParseDataURI decodes "data:<mime>;base64,<data>" or a bare base64 string.
// A bare payload is assumed to be a JPEG.
func ParseDataURI(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", errors.New("empty image")
	}

	contentType := DefaultImageMIME
	data := s
	if strings.HasPrefix(s, "data:") {
		parts := strings.SplitN(s, ",", 2)
		if len(parts) != 2 {
			return nil, "", errors.New("invalid data URI")
		}
		meta := strings.TrimPrefix(parts[0], "data:") // "image/jpeg;base64"
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", errors.New("data URI is not base64 encoded")
		}
		if ct := strings.SplitN(meta, ";", 2)[0]; ct != "" {
			contentType = ct
		}
		data = parts[1]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if len(raw) == 0 {
		return nil, "", errors.New("empty image")
	}
	return raw, contentType, nil
}

// ExtensionFor picks a file extension for an image content type.
func ExtensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	// fallback: use subtype
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 {
		return "." + parts[1]
	}
	return ""
}
