// Package validation validates configuration structs with go-playground
// validator tags and reports failures as errors.AppError values.
//
//	type Spec struct {
//	    Name string `mapstructure:"name" validate:"required"`
//	}
//	if err := validation.Validate(spec); err != nil { ... }
//
// Field names in messages come from the mapstructure tag, so they match the
// keys a user wrote in config.yml.
package validation
