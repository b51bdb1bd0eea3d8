package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if got := err.Error(); got != "NOT_FOUND: not found" {
		t.Errorf("unexpected Error() %q", got)
	}
}

func TestAppError_BackendError_CarriesCause(t *testing.T) {
	cause := fmt.Errorf("AccessDenied")
	err := BackendError("list", cause)
	if err.Code != ErrCodeBackend {
		t.Errorf("expected BACKEND_ERROR, got %s", err.Code)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Details["operation"] != "list" {
		t.Errorf("expected operation=list, got %v", err.Details["operation"])
	}
}

func TestAppError_MissingField(t *testing.T) {
	err := MissingField("bucket")
	if err.Code != ErrCodeConfig {
		t.Errorf("expected CONFIG_ERROR, got %s", err.Code)
	}
	if err.Details["field"] != "bucket" {
		t.Errorf("expected field=bucket, got %v", err.Details["field"])
	}
	if !strings.Contains(err.Error(), "bucket") {
		t.Errorf("expected message to mention bucket, got %q", err.Error())
	}
}

func TestAppError_FilesystemError_Details(t *testing.T) {
	err := FilesystemError("write", "/tmp/demo-assets.json", fmt.Errorf("read-only"))
	if err.Details["path"] != "/tmp/demo-assets.json" {
		t.Errorf("unexpected path detail %v", err.Details["path"])
	}
	if err.Details["operation"] != "write" {
		t.Errorf("unexpected operation detail %v", err.Details["operation"])
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := New(ErrCodeInternal, "boom").WithDetail("a", 1)
	err.WithDetails(map[string]any{"b": 2, "a": 3})
	if err.Details["a"] != 3 || err.Details["b"] != 2 {
		t.Errorf("unexpected details %v", err.Details)
	}
}

func TestAppError_Error_Format(t *testing.T) {
	plain := New(ErrCodeConfig, "bad")
	if got := plain.Error(); got != "CONFIG_ERROR: bad" {
		t.Errorf("unexpected format %q", got)
	}
	wrapped := New(ErrCodeConfig, "bad").WithCause(fmt.Errorf("eof"))
	if got := wrapped.Error(); got != "CONFIG_ERROR: bad (cause: eof)" {
		t.Errorf("unexpected format %q", got)
	}
}

func TestAsAppError_ThroughWrapping(t *testing.T) {
	inner := NotFound("song.mp3")
	outer := fmt.Errorf("upload: %w", inner)

	got, ok := AsAppError(outer)
	if !ok {
		t.Fatal("expected AsAppError to succeed")
	}
	if got != inner {
		t.Error("expected the inner AppError")
	}
	if !IsAppError(outer) {
		t.Error("expected IsAppError=true")
	}
	if IsAppError(fmt.Errorf("plain")) {
		t.Error("expected IsAppError=false for plain error")
	}
}

func TestCodeOf_Table(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"config", ConfigError("x"), ErrCodeConfig},
		{"wrapped backend", fmt.Errorf("ctx: %w", BackendError("sign", nil)), ErrCodeBackend},
		{"plain error", fmt.Errorf("plain"), ErrCodeInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CodeOf(tc.err); got != tc.want {
				t.Errorf("CodeOf() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExitCode_Table(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil exits zero", nil, ExitOK},
		{"config error", ConfigError("x"), ExitFailure},
		{"backend error", BackendError("list", nil), ExitFailure},
		{"filesystem error", FilesystemError("write", "m.json", nil), ExitFailure},
		{"plain error", fmt.Errorf("flag parse"), ExitFailure},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExitCode(tc.err); got != tc.want {
				t.Errorf("ExitCode() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	if !Is(InvalidConfigFile("x.json", fmt.Errorf("eof")), ErrCodeConfig) {
		t.Error("expected InvalidConfigFile to be a config error")
	}
	if Is(nil, ErrCodeConfig) {
		t.Error("nil should not match any code")
	}
}
