package storage

import (
	"context"
	"io"
	"strings"
	"time"
)

// Object is one listed entry. Key includes the listing prefix.
type Object struct {
	Key  string
	Size int64
}

// Gateway is a bucket-bound object store.
type Gateway interface {
	// List returns every object whose key starts with prefix, in backend
	// order, with directory markers removed.
	List(ctx context.Context, prefix string) ([]Object, error)

	// SignedURL returns a download URL valid for ttl. The key's existence
	// is not checked.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Upload streams r to key with the given content type.
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
}

// Identity is the principal behind a set of credentials.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}

// IdentityChecker confirms that credentials resolve to a principal.
type IdentityChecker interface {
	CheckIdentity(ctx context.Context) (Identity, error)
}

// IsDirectoryMarker reports whether key is a zero-length "folder" entry.
func IsDirectoryMarker(key string) bool {
	return strings.HasSuffix(key, "/")
}

// DropDirectoryMarkers returns objs without directory markers, preserving order.
func DropDirectoryMarkers(objs []Object) []Object {
	out := objs[:0:0]
	for _, o := range objs {
		if !IsDirectoryMarker(o.Key) {
			out = append(out, o)
		}
	}
	return out
}
