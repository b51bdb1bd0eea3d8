// Package upload pushes local files into the configured bucket prefix.
//
// Destination keys are flat: prefix + base file name. Directory uploads are
// non-recursive and strictly sequential; every file gets its own outcome in
// the Report and one failure never stops the rest.
package upload
