// Package main implements the ssmpuller command.
//
// ssmpuller generates a systemd EnvironmentFile from AWS Systems Manager
// Parameter Store parameters. It is meant to run once at service start, for
// example as an ExecStartPre= of the unit that consumes the file.
//
// Usage:
//
//	ssmpuller /run/myservice/env DATABASE_URL API_TOKEN
//
// The tool performs the following:
//  1. Parses the output path and the parameter names from the arguments.
//  2. Loads configuration from the environment (and an optional .env file).
//  3. Builds the AWS SDK config once, optionally verifying the caller
//     identity with STS.
//  4. Fetches all parameters, decrypted, in one GetParameters call.
//  5. Writes NAME='VALUE' lines to the output path, replacing it.
//
// Any invalid parameter name aborts the run before the file is touched.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"ssmpuller/internal/config"
	"ssmpuller/internal/puller"
	"ssmpuller/internal/types"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errMissingPath = errors.New("output path is required")

func main() {
	os.Exit(realMain(os.Args[1:], os.Stderr))
}

// realMain runs the command and returns the process exit code. It exists so
// deferred cleanup runs before os.Exit.
func realMain(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("ssmpuller", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "ssmpuller - generate a systemd EnvironmentFile from AWS SSM parameters\n\n")
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  ssmpuller <path> [name ...]\n\n")
		fmt.Fprintf(stderr, "Arguments:\n")
		fmt.Fprintf(stderr, "  path   Output path for the generated EnvironmentFile\n")
		fmt.Fprintf(stderr, "  name   Parameter names whose decrypted values are written to the file\n\n")
		fmt.Fprintf(stderr, "Configuration is read from the environment: LOG_LEVEL, LOG_FORMAT, AWS_REGION,\n")
		fmt.Fprintf(stderr, "AWS_PROFILE, AWS_ENDPOINT_URL, SSMPULLER_FETCH_TIMEOUT, SSMPULLER_FILE_MODE,\n")
		fmt.Fprintf(stderr, "SSMPULLER_VERIFY_IDENTITY, SSMPULLER_METRIC_NAMESPACE.\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	path, names, err := parseArgs(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n\n", err)
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	logger := newLogger(stderr, cfg)

	// Set up cancellation context with signal handling.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sess, err := newSession(ctx, cfg, logger)
	if err != nil {
		logger.Error("initialization failed", "error", err)
		return exitError
	}

	if err := pull(ctx, sess.Puller(), logger, path, names); err != nil {
		return exitError
	}
	return exitOK
}

// parseArgs splits the positional arguments into the output path and the
// parameter names. Names may be empty.
func parseArgs(args []string) (string, []string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", nil, errMissingPath
	}
	return args[0], args[1:], nil
}

// newLogger builds the stderr logger. Every record carries a run_id so the
// lines of one invocation can be correlated in the journal.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(
		"run_id", uuid.NewString(),
		"version", cfg.Build.Version,
	)
}

// pull runs the pipeline and logs the outcome. Parameter values are never
// logged; only names, counts and error kinds.
func pull(ctx context.Context, p *puller.Puller, logger *slog.Logger, path string, names []string) error {
	logger.Debug("pulling parameters",
		"path", path,
		"count", len(names),
		"names", names,
	)

	res, err := p.Pull(ctx, path, names)
	if err != nil {
		attrs := []any{"error", err, "path", path}

		var pe *types.PullError
		if errors.As(err, &pe) {
			attrs = append(attrs, "kind", string(pe.Kind))
			if pe.Kind == types.ErrKindInvalidParameter {
				attrs = append(attrs, "parameter", pe.Name, "invalid", pe.Invalid)
			}
		}

		logger.Error("pull failed", attrs...)
		return err
	}

	logger.Info("environment file written",
		"path", res.Path,
		"parameters", res.Parameters,
	)
	return nil
}
