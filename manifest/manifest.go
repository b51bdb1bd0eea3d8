package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/kbukum/demoassets/errors"
)

// DefaultFileName is written in the working directory unless overridden.
const DefaultFileName = "demo-assets.json"

// ExpiryLayout matches ECMAScript Date.prototype.toISOString.
const ExpiryLayout = "2006-01-02T15:04:05.000Z07:00"

// Asset is one manifest entry.
type Asset struct {
	Src    string `json:"src"`
	Title  string `json:"title"`
	Format string `json:"format"`
	Expiry string `json:"expiry"`
}

// Manifest is the document consumed by the demo player.
type Manifest struct {
	Assets []Asset `json:"assets"`
}

// FormatExpiry renders t in UTC with millisecond precision.
func FormatExpiry(t time.Time) string {
	return t.UTC().Format(ExpiryLayout)
}

// Encode renders m with two-space indentation. URLs are not HTML-escaped.
func Encode(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write removes any file at path and then writes m to it.
func Write(path string, m *Manifest) error {
	data, err := Encode(m)
	if err != nil {
		return errors.Internal(err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.FilesystemError("remove", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.FilesystemError("write", path, err)
	}
	return nil
}

// Read parses the manifest at path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(path)
		}
		return nil, errors.FilesystemError("read", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.FilesystemError("parse", path, err)
	}
	return &m, nil
}
