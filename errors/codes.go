package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// ErrCodeConfig indicates a missing setup answer, an unparseable
	// persisted config, or a failed credential check during setup.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"
	// ErrCodeBackend indicates a list, sign, or put call against the object
	// store failed.
	ErrCodeBackend ErrorCode = "BACKEND_ERROR"
	// ErrCodeNotFound indicates a local file or directory does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeFilesystem indicates a manifest or config file could not be
	// written or removed.
	ErrCodeFilesystem ErrorCode = "FILESYSTEM_ERROR"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Process exit statuses.
const (
	ExitOK      = 0
	ExitFailure = 1
)

var exitCodes = map[ErrorCode]int{
	ErrCodeConfig:     ExitFailure,
	ErrCodeBackend:    ExitFailure,
	ErrCodeNotFound:   ExitFailure,
	ErrCodeFilesystem: ExitFailure,
	ErrCodeInternal:   ExitFailure,
}
