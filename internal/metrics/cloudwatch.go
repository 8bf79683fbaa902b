// Package metrics publishes pull outcomes to AWS CloudWatch.
//
// Metrics emitted:
//   - ParametersPulled: no dims, value = number of parameters written.
//   - PullFailure: Dims {ErrorKind}, value = 1.
//
// Publishing is best effort. A failed PutMetricData is logged and never turns
// a successful pull into a failed one.
package metrics

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"ssmpuller/internal/types"
)

// Metric and dimension names.
const (
	MetricParametersPulled = "ParametersPulled"
	MetricPullFailure      = "PullFailure"
	DimErrorKind           = "ErrorKind"
)

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Publisher records pull outcomes as CloudWatch metrics under a namespace.
type Publisher struct {
	client    CloudWatchClient
	namespace string
	logger    *slog.Logger
}

// NewPublisher creates a Publisher that writes to namespace.
func NewPublisher(client CloudWatchClient, namespace string, logger *slog.Logger) *Publisher {
	return &Publisher{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// NewPublisherFromConfig creates a Publisher with a CloudWatch client built
// from cfg.
func NewPublisherFromConfig(cfg aws.Config, namespace string, logger *slog.Logger) *Publisher {
	return NewPublisher(cloudwatch.NewFromConfig(cfg), namespace, logger)
}

// RecordSuccess emits ParametersPulled with the number of parameters written.
func (p *Publisher) RecordSuccess(ctx context.Context, count int) {
	p.put(ctx, cwtypes.MetricDatum{
		MetricName: aws.String(MetricParametersPulled),
		Value:      aws.Float64(float64(count)),
		Unit:       cwtypes.StandardUnitCount,
	})
}

// RecordFailure emits PullFailure=1 dimensioned by the error kind.
func (p *Publisher) RecordFailure(ctx context.Context, kind types.ErrorKind) {
	p.put(ctx, cwtypes.MetricDatum{
		MetricName: aws.String(MetricPullFailure),
		Value:      aws.Float64(1),
		Unit:       cwtypes.StandardUnitCount,
		Dimensions: []cwtypes.Dimension{
			{
				Name:  aws.String(DimErrorKind),
				Value: aws.String(string(kind)),
			},
		},
	})
}

func (p *Publisher) put(ctx context.Context, datum cwtypes.MetricDatum) {
	_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(p.namespace),
		MetricData: []cwtypes.MetricDatum{datum},
	})
	if err != nil {
		p.logger.Warn("failed to publish metric",
			"metric", aws.ToString(datum.MetricName),
			"namespace", p.namespace,
			"error", err,
		)
	}
}
