package domain

import "fmt"

// ConfigurationError reports bad arguments or malformed input. It is fatal and
// raised before any output is written.
type ConfigurationError struct {
	Msg string
}

// NewConfigurationError formats a ConfigurationError.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

// UpstreamFetchError wraps a failure of the GitHub API for one project.
type UpstreamFetchError struct {
	Project string
	Err     error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("failed to fetch issues for %s: %v", e.Project, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}
