// Package config defines the runtime configuration of ssmpuller.
//
// Configuration is loaded once in main and passed explicitly to the
// components that need it; nothing below the entry point reads the
// environment on its own. Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File -> Defaults (Lowest)
//
// The positional CLI arguments (output path and parameter names) are not
// part of Config.
package config

import (
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"time"
)

// Config is the top-level configuration struct. It is populated once during
// process initialization and never modified.
type Config struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`

	AWS    AWSConfig
	Puller PullerConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// AWSConfig holds the explicit AWS session settings. Empty fields fall back
// to the SDK default chain.
type AWSConfig struct {
	Region  string `envconfig:"AWS_REGION"`
	Profile string `envconfig:"AWS_PROFILE"`

	// LocalStack Support (Empty in Prod)
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL" validate:"omitempty,url"`
}

// PullerConfig holds settings for the pull itself.
type PullerConfig struct {
	// FetchTimeout bounds the SSM call. Zero disables the deadline.
	FetchTimeout time.Duration `envconfig:"SSMPULLER_FETCH_TIMEOUT" default:"30s" validate:"gte=0s"`

	// FileMode is applied to the written EnvironmentFile.
	FileMode FileMode `envconfig:"SSMPULLER_FILE_MODE" default:"0600"`

	// VerifyIdentity calls STS GetCallerIdentity before fetching so that
	// credential problems are reported as such.
	VerifyIdentity bool `envconfig:"SSMPULLER_VERIFY_IDENTITY" default:"false"`

	// MetricNamespace enables CloudWatch metrics when non-empty.
	MetricNamespace string `envconfig:"SSMPULLER_METRIC_NAMESPACE" validate:"omitempty,max=255"`
}

// FileMode is a permission mode decoded from an octal string such as "0640".
type FileMode fs.FileMode

// Decode implements envconfig.Decoder.
func (m *FileMode) Decode(value string) error {
	v, err := strconv.ParseUint(value, 8, 32)
	if err != nil {
		return fmt.Errorf("file mode %q is not an octal number: %w", value, err)
	}
	if v > 0o777 || v == 0 {
		return fmt.Errorf("file mode %q must be between 0001 and 0777", value)
	}
	*m = FileMode(v)
	return nil
}

// Perm returns the mode as fs.FileMode permission bits.
func (m FileMode) Perm() fs.FileMode {
	return fs.FileMode(m).Perm()
}

// SlogLevel maps LogLevel to a slog.Level. Unknown values map to Info;
// validation rejects them before this is reached.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// BuildInfo holds build-time metadata injected via ldflags.
// These values are NOT populated from environment variables.
type BuildInfo struct {
	Version   string `ignored:"true"`
	Commit    string `ignored:"true"`
	BuildTime string `ignored:"true"`
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
	// ErrAWS indicates the AWS SDK configuration could not be loaded.
	ErrAWS ConfigErrorType = "AWS_CONFIG_FAILED"
)
