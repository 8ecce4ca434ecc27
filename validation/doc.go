// Package validation validates apikit configuration and endpoint values.
//
// Struct tag validation is backed by go-playground/validator with field
// names reported in snake_case. Programmatic checks collect field errors
// the same way:
//
//	type Config struct {
//	    Timeout time.Duration `validate:"gte=0"`
//	}
//	err := validation.Validate(cfg)
//
//	v := validation.New()
//	v.Required("host", host)
//	err := v.Err()
package validation
