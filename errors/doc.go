// Package errors provides the application error type used across demo-assets.
// Every failure is classified by an ErrorCode, and the code decides the
// process exit status the CLI reports.
package errors
