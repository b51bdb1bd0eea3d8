// Package storage defines the object-store gateway used by demo-assets.
//
// A Gateway is bound to one bucket and exposes the three operations the
// tool needs: list under a prefix, presign a download, and stream an upload.
// IdentityChecker verifies a credential profile before setup persists it.
//
// # Backends
//
//   - storage/s3: Amazon S3 via aws-sdk-go-v2, identity via STS
//   - storage/memory: in-memory gateway with failure injection for tests
package storage
