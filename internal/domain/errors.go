package domain

// ConfigurationError reports malformed generation or analysis configuration.
// It aborts a run before any simulation happens.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// InsufficientDataError reports that a statistical comparison was attempted
// on a group with too few observations to be identifiable.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return "insufficient data: " + e.Reason
}

// SchemaError reports a loaded dataset missing required columns or holding
// non-coercible values. Nothing is partially processed after one of these.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "schema error: " + e.Reason
}

// ModelFitError reports that every optimizer in the fallback chain failed.
// This is fatal for an analysis run: no report exists without fixed effects.
type ModelFitError struct {
	Reason string
	Err    error
}

func (e *ModelFitError) Error() string {
	if e.Err != nil {
		return "model fit failed: " + e.Reason + ": " + e.Err.Error()
	}
	return "model fit failed: " + e.Reason
}

func (e *ModelFitError) Unwrap() error {
	return e.Err
}
