package metrics

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ssmpuller/internal/types"
)

type mockCloudWatch struct {
	mock.Mock
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*cloudwatch.PutMetricDataOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecordSuccess(t *testing.T) {
	cw := &mockCloudWatch{}
	var captured *cloudwatch.PutMetricDataInput
	cw.On("PutMetricData", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*cloudwatch.PutMetricDataInput)
		}).
		Return(&cloudwatch.PutMetricDataOutput{}, nil)

	NewPublisher(cw, "SSMPuller", discardLogger()).RecordSuccess(context.Background(), 3)

	cw.AssertNumberOfCalls(t, "PutMetricData", 1)
	require.NotNil(t, captured)
	assert.Equal(t, "SSMPuller", aws.ToString(captured.Namespace))
	require.Len(t, captured.MetricData, 1)

	datum := captured.MetricData[0]
	assert.Equal(t, MetricParametersPulled, aws.ToString(datum.MetricName))
	assert.Equal(t, 3.0, aws.ToFloat64(datum.Value))
	assert.Equal(t, cwtypes.StandardUnitCount, datum.Unit)
	assert.Empty(t, datum.Dimensions)
}

func TestRecordFailure(t *testing.T) {
	cw := &mockCloudWatch{}
	var captured *cloudwatch.PutMetricDataInput
	cw.On("PutMetricData", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*cloudwatch.PutMetricDataInput)
		}).
		Return(&cloudwatch.PutMetricDataOutput{}, nil)

	NewPublisher(cw, "SSMPuller", discardLogger()).RecordFailure(context.Background(), types.ErrKindInvalidParameter)

	require.NotNil(t, captured)
	require.Len(t, captured.MetricData, 1)
	datum := captured.MetricData[0]
	assert.Equal(t, MetricPullFailure, aws.ToString(datum.MetricName))
	assert.Equal(t, 1.0, aws.ToFloat64(datum.Value))
	require.Len(t, datum.Dimensions, 1)
	assert.Equal(t, DimErrorKind, aws.ToString(datum.Dimensions[0].Name))
	assert.Equal(t, "INVALID_PARAMETER", aws.ToString(datum.Dimensions[0].Value))
}

func TestPublishErrorIsLoggedNotPropagated(t *testing.T) {
	cw := &mockCloudWatch{}
	cw.On("PutMetricData", mock.Anything, mock.Anything).
		Return(nil, errors.New("AccessDenied"))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	NewPublisher(cw, "SSMPuller", logger).RecordSuccess(context.Background(), 1)

	assert.Contains(t, buf.String(), "failed to publish metric")
	assert.Contains(t, buf.String(), "AccessDenied")
	assert.Contains(t, buf.String(), MetricParametersPulled)
}

func TestNewPublisherFromConfig(t *testing.T) {
	p := NewPublisherFromConfig(aws.Config{Region: "us-east-1"}, "SSMPuller", discardLogger())
	require.NotNil(t, p.client)
	_, ok := p.client.(*cloudwatch.Client)
	assert.True(t, ok, "client = %T, want *cloudwatch.Client", p.client)
}
