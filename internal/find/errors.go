package find

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

const (
	configurationErrorTemplateConstant          = "invalid %s: %s"
	configurationErrorWithCauseTemplateConstant = "invalid %s: %s: %v"
)

// ErrNoRepositoriesMatched is returned after a complete scan that found nothing.
var ErrNoRepositoriesMatched = errors.New("no repositories matched")

// ErrScanCancelled is returned when the scan was interrupted; the outcome holds the matches found so far.
var ErrScanCancelled = errors.New("scan cancelled")

// ConfigurationError reports a request rejected before scanning started.
type ConfigurationError struct {
	Field   string
	Message string
	Cause   error
}

// Error names the offending field.
func (configurationError *ConfigurationError) Error() string {
	if configurationError.Cause != nil {
		return fmt.Sprintf(configurationErrorWithCauseTemplateConstant, configurationError.Field, configurationError.Message, configurationError.Cause)
	}
	return fmt.Sprintf(configurationErrorTemplateConstant, configurationError.Field, configurationError.Message)
}

// Unwrap exposes the underlying cause.
func (configurationError *ConfigurationError) Unwrap() error {
	return configurationError.Cause
}

func newConfigurationError(field string, message string, cause error) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: message, Cause: cause}
}
