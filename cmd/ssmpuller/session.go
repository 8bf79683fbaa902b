package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"ssmpuller/internal/config"
	"ssmpuller/internal/envfile"
	"ssmpuller/internal/metrics"
	"ssmpuller/internal/paramstore"
	"ssmpuller/internal/puller"
	"ssmpuller/internal/types"
)

// identityTimeout bounds the STS identity check so bad credentials fail fast.
const identityTimeout = 10 * time.Second

// stsAPI is the subset of the STS SDK client used for the identity check.
type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// session holds everything built once at startup from the configuration.
type session struct {
	fetcher  puller.ParameterFetcher
	writer   puller.FileWriter
	recorder puller.Recorder
}

// newSession builds the AWS config from cfg, optionally verifies the caller
// identity, and wires the fetcher, writer and metrics recorder.
func newSession(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*session, error) {
	awsCfg, err := config.LoadAWSConfig(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}

	if cfg.Puller.VerifyIdentity {
		if err := verifyIdentity(ctx, sts.NewFromConfig(awsCfg), logger); err != nil {
			return nil, err
		}
	}

	s := &session{
		fetcher: withTimeout(paramstore.New(awsCfg), cfg.Puller.FetchTimeout),
		writer:  envfile.NewWriter(cfg.Puller.FileMode.Perm()),
	}

	if cfg.Puller.MetricNamespace != "" {
		s.recorder = metrics.NewPublisherFromConfig(awsCfg, cfg.Puller.MetricNamespace, logger)
	}

	logger.Debug("session initialized",
		"region", awsCfg.Region,
		"profile", cfg.AWS.Profile,
		"endpoint", cfg.AWS.EndpointURL,
		"metrics", cfg.Puller.MetricNamespace != "",
	)

	return s, nil
}

// Puller assembles the pipeline from the session's components.
func (s *session) Puller() *puller.Puller {
	var opts []puller.Option
	if s.recorder != nil {
		opts = append(opts, puller.WithRecorder(s.recorder))
	}
	return puller.New(s.fetcher, s.writer, opts...)
}

// verifyIdentity calls STS GetCallerIdentity to confirm the credentials work
// before the parameter fetch, so that a credential problem is reported as
// one rather than as an SSM failure.
func verifyIdentity(ctx context.Context, client stsAPI, logger *slog.Logger) error {
	identityCtx, cancel := context.WithTimeout(ctx, identityTimeout)
	defer cancel()

	identity, err := client.GetCallerIdentity(identityCtx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return fmt.Errorf("verifying AWS identity (STS GetCallerIdentity): %w", err)
	}

	logger.Info("AWS identity verified",
		"account_id", aws.ToString(identity.Account),
		"arn", aws.ToString(identity.Arn),
	)
	return nil
}

// timeoutFetcher bounds each Fetch with a deadline. The fetcher itself
// imposes none.
type timeoutFetcher struct {
	inner   puller.ParameterFetcher
	timeout time.Duration
}

// withTimeout wraps f with a per-call deadline. A non-positive timeout
// returns f unchanged.
func withTimeout(f puller.ParameterFetcher, timeout time.Duration) puller.ParameterFetcher {
	if timeout <= 0 {
		return f
	}
	return &timeoutFetcher{inner: f, timeout: timeout}
}

func (t *timeoutFetcher) Fetch(ctx context.Context, names []string) ([]types.Parameter, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Fetch(ctx, names)
}
