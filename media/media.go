package media

import (
	"path"
	"sort"
	"strings"
)

// DefaultContentType is returned for unknown or empty extensions.
const DefaultContentType = "application/octet-stream"

var contentTypes = map[string]string{
	// video
	"mp4":  "video/mp4",
	"mov":  "video/quicktime",
	"webm": "video/webm",
	"m4v":  "video/x-m4v",
	// audio
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"m4a":  "audio/m4a",
	"aac":  "audio/aac",
	"flac": "audio/flac",
	"ogg":  "audio/ogg",
	// text
	"txt":  "text/plain",
	"json": "application/json",
	"srt":  "application/x-subrip",
	"vtt":  "text/vtt",
	// image
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Ext returns the lowercase substring after the final "." of the last path
// segment, or "" when there is none.
//
//	Ext("demo-assets/Demo.MP3") == "mp3"
//	Ext("demo-assets/README")   == ""
func Ext(key string) string {
	base := path.Base(key)
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// ContentType returns the MIME type registered for ext, or
// DefaultContentType.
func ContentType(ext string) string {
	if ct, ok := contentTypes[normalize(ext)]; ok {
		return ct
	}
	return DefaultContentType
}

// ContentTypeOf is ContentType(Ext(key)).
func ContentTypeOf(key string) string {
	return ContentType(Ext(key))
}

// IsKnown reports whether ext has an entry in the table.
func IsKnown(ext string) bool {
	_, ok := contentTypes[normalize(ext)]
	return ok
}

// KnownExtensions returns every registered extension in sorted order.
func KnownExtensions() []string {
	exts := make([]string, 0, len(contentTypes))
	for ext := range contentTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalize(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}
