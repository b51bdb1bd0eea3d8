// Package media maps object keys and file names to content types.
//
// The extension table is fixed at build time and does not consult the host
// mime database, so the same key always yields the same format on every
// machine. AllowList holds the optional --type filter shared by listing,
// manifest building and uploads.
package media
