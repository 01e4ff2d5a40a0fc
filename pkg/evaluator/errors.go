package evaluator

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTimeFormat  = errors.New("invalid time format, expected HH:mm")
	ErrInvalidTimezone    = errors.New("unknown timezone")
	ErrInvalidCoordinates = errors.New("coordinates out of range")
	ErrInvalidThreshold   = errors.New("illumination threshold must be between 0 and 100")
	ErrRangeTooLarge      = errors.New("date range too large")
)

// ConfigError reports a rejected evaluation input. Err is one of the sentinel
// errors above.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErr(field, value string, err error) error {
	return &ConfigError{Field: field, Value: value, Err: err}
}
