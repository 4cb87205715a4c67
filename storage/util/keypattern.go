package util

import (
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// KeyPattern is a configurable template for object keys handed to a storage
// backend. Supported placeholders:
//   - {year}  - 4-digit year (e.g., "2026")
//   - {month} - 2-digit month (e.g., "01")
//   - {day}   - 2-digit day (e.g., "15")
//   - {name}  - slugified base filename
//   - {uid}   - short unique suffix
//   - {ext}   - file extension (with leading dot, e.g., ".png")
//
// Example: "{year}/{month}/{name}-{uid}{ext}" → "2026/09/beach-trip-1a2b3c4d.png"
type KeyPattern struct {
	pattern string
}

// NewKeyPattern creates a KeyPattern from a template string.
func NewKeyPattern(pattern string) *KeyPattern {
	return &KeyPattern{pattern: pattern}
}

// DefaultKeyPattern organizes objects by upload date with a unique suffix,
// so concurrent uploads of identically named files never collide.
func DefaultKeyPattern() *KeyPattern {
	return NewKeyPattern("{year}/{month}/{name}-{uid}{ext}")
}

// Generate produces an object key for the given original filename. The
// declared content type is used to derive an extension when the filename
// has none.
func (p *KeyPattern) Generate(originalName string, contentType string, now time.Time) (string, error) {
	ext := path.Ext(originalName)
	if ext == "" && contentType != "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}

	name := slug.Make(strings.TrimSuffix(path.Base(originalName), ext))
	if name == "" {
		name = "upload"
	}

	result := p.pattern
	result = strings.ReplaceAll(result, "{year}", fmt.Sprintf("%04d", now.Year()))
	result = strings.ReplaceAll(result, "{month}", fmt.Sprintf("%02d", now.Month()))
	result = strings.ReplaceAll(result, "{day}", fmt.Sprintf("%02d", now.Day()))
	result = strings.ReplaceAll(result, "{name}", name)
	result = strings.ReplaceAll(result, "{uid}", uuid.New().String()[:8])
	result = strings.ReplaceAll(result, "{ext}", ext)

	cleaned := path.Clean(filepath.ToSlash(result))
	if cleaned == "." || cleaned == "/" || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("key pattern %q produced invalid key %q", p.pattern, cleaned)
	}

	return strings.TrimPrefix(cleaned, "/"), nil
}
