// Package validation provides input validation for configuration and
// student datasets.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Both report an
// errors.AppError with code INVALID_INPUT and per-field details.
//
// # Struct Tag Validation
//
//	type RESTConfig struct {
//	    BaseURL string `json:"base_url" validate:"required,url"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	err := validation.New().
//	    Required("id", rec.StudentID).
//	    Pattern("id", rec.StudentID, `^[0-9]+$`).
//	    Err()
package validation
