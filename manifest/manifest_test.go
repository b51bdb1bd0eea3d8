package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/demoassets/errors"
)

func TestFormatExpiry(t *testing.T) {
	loc := time.FixedZone("X", 2*3600)
	got := FormatExpiry(time.Date(2024, 1, 2, 5, 4, 5, 123456789, loc))
	if got != "2024-01-02T03:04:05.123Z" {
		t.Errorf("FormatExpiry() = %q", got)
	}
}

func TestEncodeDoesNotEscapeURLs(t *testing.T) {
	m := &Manifest{Assets: []Asset{{Src: "https://x/a.mp3?X-Amz-Expires=1&X-Amz-Signature=s"}}}
	data, err := Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, "&X-Amz-Signature") {
		t.Errorf("expected raw ampersand, got %s", s)
	}
	if !strings.Contains(s, "\n  \"assets\": [\n    {") {
		t.Errorf("expected two-space indentation, got %s", s)
	}
}

func TestEncodeEmptyAssets(t *testing.T) {
	data, err := Encode(&Manifest{Assets: []Asset{}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"assets": []`) {
		t.Errorf("expected empty array, got %s", data)
	}
}

func TestWriteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte("old content that is longer than the new one"), 0o644); err != nil {
		t.Fatal(err)
	}
	want := &Manifest{Assets: []Asset{{Src: "u", Title: "a.mp3", Format: "audio/mpeg", Expiry: "e"}}}
	if err := Write(path, want); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got.Assets) != 1 || got.Assets[0] != want.Assets[0] {
		t.Errorf("Read() = %+v", got)
	}
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
