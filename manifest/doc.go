// Package manifest builds demo-assets.json: it lists the configured prefix,
// applies the extension allow-list, presigns every remaining object with a
// bounded fan-out and writes the successfully signed assets in listing order.
//
// A single object that fails to sign is logged and left out; it never
// aborts the run. Listing failures and manifest write failures are fatal.
package manifest
