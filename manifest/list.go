package manifest

import (
	"fmt"
	"io"
)

// WriteListing prints one "key<TAB>size" line per object.
func WriteListing(w io.Writer, l *Listing) error {
	for _, o := range l.Objects {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", o.Key, o.Size); err != nil {
			return err
		}
	}
	return nil
}
