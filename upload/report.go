package upload

import "github.com/kbukum/demoassets/util"

// Uploaded records one stored file.
type Uploaded struct {
	Path        string
	Key         string
	ContentType string
	Size        int64
}

// Skipped records a file that was deliberately not uploaded.
type Skipped struct {
	Path   string
	Reason string
}

// Failure records a file that could not be uploaded.
type Failure struct {
	Path string
	Err  error
}

// Report collects per-file outcomes.
type Report struct {
	Uploaded []Uploaded
	Skipped  []Skipped
	Failures []Failure
}

// Merge appends other's entries to r.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Uploaded = append(r.Uploaded, other.Uploaded...)
	r.Skipped = append(r.Skipped, other.Skipped...)
	r.Failures = append(r.Failures, other.Failures...)
}

// Keys returns uploaded keys in upload order.
func (r *Report) Keys() []string {
	return util.Map(r.Uploaded, func(u Uploaded) string { return u.Key })
}
