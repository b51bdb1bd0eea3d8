package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/demoassets/errors"
)

func TestValidatorCollectsErrors(t *testing.T) {
	v := New()
	if v.HasErrors() {
		t.Fatal("new validator should have no errors")
	}
	if err := v.Validate(); err != nil {
		t.Errorf("expected nil for no errors, got %v", err)
	}

	v.AddError("bucket", "is required")
	v.AddError("profile", "is required")
	if len(v.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %v", v.Errors())
	}

	err := v.Validate()
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeConfig {
		t.Errorf("expected CONFIG_ERROR, got %s", appErr.Code)
	}
	if appErr.Details["fields"] == nil {
		t.Error("expected field details in error")
	}
	if appErr.Message != "bucket: is required; profile: is required" {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

type record struct {
	Region   string `json:"region" validate:"required"`
	Bucket   string `json:"bucket" validate:"required"`
	Hours    int    `json:"hours" validate:"gte=1,lte=168"`
	Endpoint string `json:"endpoint" validate:"omitempty,url"`
	Mode     string `validate:"omitempty,oneof=json console"`
}

func TestStructValidate(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		wantErr  bool
		contains string
	}{
		{"valid", record{Region: "us-east-1", Bucket: "b", Hours: 12}, false, ""},
		{"pointer", &record{Region: "us-east-1", Bucket: "b", Hours: 12}, false, ""},
		{"missing bucket", record{Region: "us-east-1", Hours: 12}, true, "bucket: is required"},
		{"hours too low", record{Region: "r", Bucket: "b", Hours: 0}, true, "hours: must be at least 1"},
		{"hours too high", record{Region: "r", Bucket: "b", Hours: 169}, true, "hours: must be at most 168"},
		{"bad endpoint", record{Region: "r", Bucket: "b", Hours: 1, Endpoint: "localhost"}, true, "endpoint: must be an absolute URL"},
		{"snake case fallback", record{Region: "r", Bucket: "b", Hours: 1, Mode: "xml"}, true, "mode: must be one of"},
		{"not a struct", 42, true, "validation failed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, errors.ErrCodeConfig) {
				t.Errorf("expected CONFIG_ERROR, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.contains) {
				t.Errorf("expected %q in %q", tc.contains, err.Error())
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("ExpiryHours"); got != "expiry_hours" {
		t.Errorf("toSnakeCase() = %q", got)
	}
}
