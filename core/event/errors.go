package event

import (
	"fmt"
	"strings"
)

// ConfigError reports a configured or supplied value that cannot be
// interpreted. It is fatal for the run.
type ConfigError struct {
	// Key is the fact name or configuration key.
	Key string
	// Value is the offending value.
	Value string
	// Accepted lists the values that would have been understood.
	Accepted []string
	// Err is an underlying parse error, if any.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid configuration for %q: %v", e.Key, e.Err)
	}
	quoted := make([]string, len(e.Accepted))
	for i, a := range e.Accepted {
		quoted[i] = fmt.Sprintf("%q", a)
	}
	return fmt.Sprintf("unexpected value for fact %q: %q, needs to be one of %s",
		e.Key, e.Value, strings.Join(quoted, ", "))
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DataShapeError reports remote data that does not have the expected shape.
// The affected feature is skipped for the event; it is not fatal.
type DataShapeError struct {
	What   string
	Value  string
	Reason string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("unexpected %s %q: %s", e.What, e.Value, e.Reason)
}
