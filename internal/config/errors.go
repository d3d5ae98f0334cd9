package config

import (
	"errors"
	"strings"
)

// ErrConfiguration matches any *ConfigurationError via errors.Is
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError lists required values that are missing
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "missing required configuration: " + strings.Join(e.Missing, ", ")
}

// Is reports whether target is ErrConfiguration
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
