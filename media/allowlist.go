package media

import (
	"sort"
	"strings"
)

// AllowList is an optional set of extensions. The zero value is inactive
// and admits everything.
type AllowList struct {
	exts map[string]struct{}
}

// NewAllowList builds an allow-list from raw --type values. Entries may be
// comma-separated, dotted, padded or mixed case; blanks are dropped.
func NewAllowList(values ...string) AllowList {
	exts := make(map[string]struct{})
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if ext := normalize(part); ext != "" {
				exts[ext] = struct{}{}
			}
		}
	}
	if len(exts) == 0 {
		return AllowList{}
	}
	return AllowList{exts: exts}
}

// Active reports whether any extension was given.
func (a AllowList) Active() bool {
	return len(a.exts) > 0
}

// Allows reports whether ext passes the list. An inactive list allows all.
func (a AllowList) Allows(ext string) bool {
	if !a.Active() {
		return true
	}
	_, ok := a.exts[normalize(ext)]
	return ok
}

// AllowsKey is Allows(Ext(key)).
func (a AllowList) AllowsKey(key string) bool {
	return a.Allows(Ext(key))
}

// Extensions returns the list members in sorted order.
func (a AllowList) Extensions() []string {
	out := make([]string, 0, len(a.exts))
	for ext := range a.exts {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// String renders the list for log lines.
func (a AllowList) String() string {
	return strings.Join(a.Extensions(), ",")
}
