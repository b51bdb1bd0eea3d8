// Package validation provides input validation for configuration records and
// setup answers.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Failures are reported as
// CONFIG_ERROR application errors carrying per-field details.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    Bucket string `json:"bucket" validate:"required"`
//	    Hours  int    `json:"hours" validate:"gte=1,lte=168"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.AddError("bucket", "is required")
//	err := v.Validate()
package validation
