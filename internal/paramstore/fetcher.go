// Package paramstore resolves parameter names against AWS Systems Manager
// (SSM) Parameter Store.
//
// A Fetcher issues exactly one GetParameters call per Fetch with decryption
// enabled and applies an all-or-nothing policy: if SSM reports any requested
// name as invalid, no values are returned. SDK errors are converted to
// types.PullError here and nowhere else.
package paramstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/smithy-go"

	"ssmpuller/internal/types"
)

// Client is the subset of the SSM SDK client used by Fetcher.
// This interface enables testing with a mock client.
type Client interface {
	GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
}

// Fetcher resolves parameter names to decrypted values. It holds only the
// SSM client, which is safe to reuse across calls.
type Fetcher struct {
	client Client
}

// New creates a Fetcher whose SSM client is built from cfg. The config is
// constructed once at the process entry point; the Fetcher performs no
// ambient credential or region lookups of its own.
func New(cfg aws.Config) *Fetcher {
	return &Fetcher{
		client: ssm.NewFromConfig(cfg),
	}
}

// NewWithClient creates a Fetcher around an existing client.
func NewWithClient(client Client) *Fetcher {
	return &Fetcher{
		client: client,
	}
}

// Fetch retrieves the decrypted values of names in a single GetParameters
// call and returns them in the order SSM returned them.
//
// Empty names are passed through; rejecting them is left to SSM. The same
// goes for the ten-name batch limit, which surfaces as a DEPENDENCY error.
//
// Errors:
//   - DEPENDENCY: the call failed, or a returned parameter lacks a name or value.
//   - INVALID_PARAMETER: SSM listed at least one name as invalid. The error
//     names the first one and no parameters are returned.
func (f *Fetcher) Fetch(ctx context.Context, names []string) ([]types.Parameter, error) {
	output, err := f.client.GetParameters(ctx, &ssm.GetParametersInput{
		Names:          names,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, dependencyError(err)
	}
	if output == nil {
		return nil, types.DependencyError("SSM GetParameters returned an empty response", nil)
	}

	if len(output.InvalidParameters) > 0 {
		return nil, types.InvalidParameterError(output.InvalidParameters)
	}

	params := make([]types.Parameter, 0, len(output.Parameters))
	for i, p := range output.Parameters {
		if p.Name == nil || p.Value == nil {
			return nil, types.DependencyError(
				fmt.Sprintf("SSM GetParameters returned a malformed parameter at index %d (name=%q)", i, aws.ToString(p.Name)),
				nil,
			)
		}
		params = append(params, types.Parameter{
			Name:  *p.Name,
			Value: *p.Value,
		})
	}

	return params, nil
}

// dependencyError converts an SDK error into a DEPENDENCY PullError. When the
// error carries an AWS API error code, the code leads the detail so that log
// lines can be grouped by it.
func dependencyError(err error) *types.PullError {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return types.DependencyError(
			fmt.Sprintf("calling SSM GetParameters (%s): %v", apiErr.ErrorCode(), err),
			err,
		)
	}
	return types.DependencyError(fmt.Sprintf("calling SSM GetParameters: %v", err), err)
}
