package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// LoadAWSConfig builds the AWS SDK configuration from the explicit settings
// in c. Unset fields are left to the SDK default chain (environment, shared
// config files, IMDS). No network calls are made; credentials resolve
// lazily on first use.
func LoadAWSConfig(ctx context.Context, c AWSConfig) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if c.Region != "" {
		opts = append(opts, awsconfig.WithRegion(c.Region))
	}
	if c.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(c.Profile))
	}
	if c.EndpointURL != "" {
		opts = append(opts, awsconfig.WithBaseEndpoint(c.EndpointURL))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, &ConfigError{
			Type:    ErrAWS,
			Message: "loading AWS config",
			Err:     err,
		}
	}
	return cfg, nil
}
