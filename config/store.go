package config

import (
	"encoding/json"
	stderrors "errors"

	"github.com/kbukum/demoassets/errors"
)

// Shown is the result of Show.
type Shown struct {
	Found   bool
	Path    string
	Content []byte
}

// Show returns the active config file verbatim. It never falls back to
// defaults.
func (r *Resolver) Show() (*Shown, error) {
	path, ok := r.ActivePath()
	if !ok {
		return &Shown{}, nil
	}
	data, err := r.FileSystem.ReadFile(path)
	if err != nil {
		return nil, errors.FilesystemError("read", path, err)
	}
	return &Shown{Found: true, Path: path, Content: data}, nil
}

// Reset deletes the local and global config files and returns the paths it
// removed. Nothing to remove is not an error. Every file is attempted even
// when an earlier removal fails.
func (r *Resolver) Reset() ([]string, error) {
	removed := make([]string, 0, 2)
	var failed []string
	var causes []error
	for _, p := range r.candidates() {
		if !r.FileSystem.Exists(p) {
			continue
		}
		if err := r.FileSystem.Remove(p); err != nil {
			failed = append(failed, p)
			causes = append(causes, err)
			continue
		}
		removed = append(removed, p)
	}
	if len(failed) > 0 {
		return removed, errors.FilesystemError("remove", failed[0], stderrors.Join(causes...)).
			WithDetail("paths", failed)
	}
	return removed, nil
}

// Save writes cfg as the whole config record, to the local path first and
// to the global path if the local write fails. It returns the path written.
func (r *Resolver) Save(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", errors.Internal(err)
	}
	data = append(data, '\n')

	var lastErr error
	var lastPath string
	for _, p := range r.candidates() {
		if err := r.FileSystem.WriteFile(p, data); err != nil {
			lastErr, lastPath = err, p
			continue
		}
		return p, nil
	}
	return "", errors.FilesystemError("write", lastPath, lastErr)
}
