package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors represents a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors: ", len(e)))
	for i, err := range e {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// IsValidationError checks if an error is a ValidationError or ValidationErrors.
func IsValidationError(err error) bool {
	var ve ValidationError
	var ves ValidationErrors
	return errors.As(err, &ve) || errors.As(err, &ves)
}

// Validate checks every section and returns all problems at once.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if !oneOf(c.Logging.Level, "debug", "info", "warn", "error") {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid log level %q, must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}
	if !oneOf(c.Logging.Format, "json", "text") {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid log format %q, must be one of: json, text", c.Logging.Format),
		})
	}
	if !oneOf(c.Output.Format, FormatText, FormatJSON, FormatYAML, FormatCSV) {
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("invalid output format %q, must be one of: text, json, yaml, csv", c.Output.Format),
		})
	}
	if !oneOf(c.Output.Color, "auto", "always", "never") {
		errs = append(errs, ValidationError{
			Field:   "output.color",
			Message: fmt.Sprintf("invalid color mode %q, must be one of: auto, always, never", c.Output.Color),
		})
	}

	switch c.Driver.Backend {
	case BackendVulkan:
	case BackendFixture:
		if c.Driver.Fixture == "" {
			errs = append(errs, ValidationError{Field: "driver.fixture", Message: "required for the fixture backend"})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "driver.backend",
			Message: fmt.Sprintf("invalid backend %q, must be one of: vulkan, fixture", c.Driver.Backend),
		})
	}

	if strings.TrimSpace(c.Summary.PreferredDevice) == "" {
		errs = append(errs, ValidationError{Field: "summary.preferred_device", Message: "cannot be empty (use \"auto\")"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
