package integrations

import (
	"errors"
	"fmt"

	"github.com/jackrejister/form-craft-nexus/pkg/models"
)

// ConfigurationError reports a missing or invalid integration setting.
type ConfigurationError struct {
	Provider models.IntegrationType
	Setting  string
	msg      string
}

func newConfigurationError(provider models.IntegrationType, setting, msg string) *ConfigurationError {
	return &ConfigurationError{Provider: provider, Setting: setting, msg: msg}
}

func (e *ConfigurationError) Error() string { return e.msg }

// TransportError reports a failed request or a non-2xx provider response.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed with status: %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UnsupportedProviderError is returned for integration types without an adapter.
type UnsupportedProviderError struct {
	Type models.IntegrationType
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("integration type %s not implemented yet", e.Type)
}

func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

func IsUnsupportedProvider(err error) bool {
	var target *UnsupportedProviderError
	return errors.As(err, &target)
}

// StatusCode returns the provider response status carried by err, or 0.
func StatusCode(err error) int {
	var target *TransportError
	if errors.As(err, &target) {
		return target.StatusCode
	}
	return 0
}
