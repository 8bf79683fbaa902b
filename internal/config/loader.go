// loader.go implements the configuration loading lifecycle.
//
// The loading sequence is:
//  1. Load .env file via godotenv (non-fatal if absent).
//  2. Use envconfig to process struct tags and populate the Config struct.
//  3. Populate BuildInfo from linker-injected variables.
//  4. Validate the struct using go-playground/validator.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ConfigError is a diagnostic error type returned by Load to aid debugging.
// It wraps a ConfigErrorType and an underlying error message.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// loaderDeps holds the injectable dependencies for the loader, enabling
// testing without touching the working directory.
type loaderDeps struct {
	loadDotenv func() error
}

// defaultDeps returns the standard dependencies: a .env file in the working
// directory, if one exists.
func defaultDeps() loaderDeps {
	return loaderDeps{
		loadDotenv: func() error { return godotenv.Load() },
	}
}

// Load loads and validates the configuration from the process environment.
func Load() (*Config, error) {
	return loadWithDeps(defaultDeps())
}

func loadWithDeps(deps loaderDeps) (*Config, error) {
	// Step 1: Load .env file (non-fatal if absent).
	// godotenv does NOT override existing environment variables.
	if deps.loadDotenv != nil {
		_ = deps.loadDotenv()
	}

	// Step 2: Process envconfig tags. The empty prefix means envconfig uses
	// the exact tag values (e.g., envconfig:"AWS_REGION" reads AWS_REGION).
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	// Step 3: Populate build metadata from linker-injected variables.
	cfg.Build = NewBuildInfo()

	// Step 4: Validate the populated struct.
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return &cfg, nil
}
