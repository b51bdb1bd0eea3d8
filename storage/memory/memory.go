// Package memory provides an in-memory storage.Gateway with failure
// injection. Listing order is insertion order so callers can assert on
// order preservation.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/demoassets/errors"
	"github.com/kbukum/demoassets/storage"
)

// Operation names accepted by Fail and FailKey.
const (
	OpList   = "list"
	OpSign   = "sign"
	OpUpload = "put"
)

// memFile holds a stored object's data and metadata.
type memFile struct {
	data        []byte
	contentType string
}

// Gateway is a concurrency-safe in-memory object store bound to one bucket.
type Gateway struct {
	bucket string

	mu      sync.RWMutex
	files   map[string]*memFile
	order   []string
	opErrs  map[string]error
	keyErrs map[string]error

	signDelay   time.Duration
	inFlight    int
	maxInFlight int
	signCalls   int
}

// New creates an empty gateway for bucket.
func New(bucket string) *Gateway {
	g := &Gateway{bucket: bucket}
	g.reset()
	return g
}

// Reset drops all objects, injected failures and counters.
func (g *Gateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
}

func (g *Gateway) reset() {
	g.files = make(map[string]*memFile)
	g.order = nil
	g.opErrs = make(map[string]error)
	g.keyErrs = make(map[string]error)
	g.inFlight, g.maxInFlight, g.signCalls = 0, 0, 0
}

// Put seeds an object without going through Upload.
func (g *Gateway) Put(key string, data []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.store(key, data, "")
}

func (g *Gateway) store(key string, data []byte, contentType string) {
	if _, ok := g.files[key]; !ok {
		g.order = append(g.order, key)
	}
	g.files[key] = &memFile{data: data, contentType: contentType}
}

// Fail makes every call of op return err.
func (g *Gateway) Fail(op string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.opErrs[op] = err
}

// FailKey makes op on key return err.
func (g *Gateway) FailKey(op, key string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.keyErrs[op+"\x00"+key] = err
}

// SetSignDelay makes each SignedURL call block for d, so tests can observe
// fan-out width.
func (g *Gateway) SetSignDelay(d time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.signDelay = d
}

// MaxConcurrentSigns is the highest number of SignedURL calls seen in flight.
func (g *Gateway) MaxConcurrentSigns() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.maxInFlight
}

// SignCalls counts SignedURL invocations.
func (g *Gateway) SignCalls() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.signCalls
}

// Object returns the stored bytes and content type for key.
func (g *Gateway) Object(key string) ([]byte, string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f, ok := g.files[key]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), f.data...), f.contentType, true
}

// Keys returns stored keys in insertion order.
func (g *Gateway) Keys() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.order...)
}

func (g *Gateway) injected(op, key string) error {
	if err := g.opErrs[op]; err != nil {
		return err
	}
	return g.keyErrs[op+"\x00"+key]
}

// --- storage.Gateway ---

func (g *Gateway) List(_ context.Context, prefix string) ([]storage.Object, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if err := g.injected(OpList, prefix); err != nil {
		return nil, errors.BackendError(OpList, err)
	}
	var result []storage.Object
	for _, key := range g.order {
		if strings.HasPrefix(key, prefix) && !storage.IsDirectoryMarker(key) {
			result = append(result, storage.Object{Key: key, Size: int64(len(g.files[key].data))})
		}
	}
	return result, nil
}

func (g *Gateway) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	g.mu.Lock()
	g.signCalls++
	g.inFlight++
	if g.inFlight > g.maxInFlight {
		g.maxInFlight = g.inFlight
	}
	delay := g.signDelay
	err := g.injected(OpSign, key)
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.inFlight--
		g.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", errors.BackendError(OpSign, ctx.Err())
		}
	}
	if err != nil {
		return "", errors.BackendError(OpSign, err).WithDetail("key", key)
	}
	return fmt.Sprintf("mem://%s/%s?expires=%d", g.bucket, url.PathEscape(key), int64(ttl.Seconds())), nil
}

func (g *Gateway) Upload(_ context.Context, key string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.BackendError(OpUpload, fmt.Errorf("read upload data: %w", err))
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.injected(OpUpload, key); err != nil {
		return errors.BackendError(OpUpload, err).WithDetail("key", key)
	}
	g.store(key, bytes.Clone(data), contentType)
	return nil
}

var _ storage.Gateway = (*Gateway)(nil)
