package awscostexplorer

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elC0mpa/cost-notifier/model"
)

// fakeClient replays scripted responses and records every request it saw.
type fakeClient struct {
	responses []*costexplorer.GetCostAndUsageOutput
	errs      []error
	inputs    []*costexplorer.GetCostAndUsageInput
}

func (f *fakeClient) GetCostAndUsage(_ context.Context, input *costexplorer.GetCostAndUsageInput, _ ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
	call := len(f.inputs)
	f.inputs = append(f.inputs, input)
	if call < len(f.errs) && f.errs[call] != nil {
		return nil, f.errs[call]
	}
	return f.responses[call], nil
}

func bucketWithTotal(amount, unit string) types.ResultByTime {
	return types.ResultByTime{
		Total: map[string]types.MetricValue{
			costMetric: {Amount: aws.String(amount), Unit: aws.String(unit)},
		},
	}
}

func bucketWithGroups(groups ...types.Group) types.ResultByTime {
	return types.ResultByTime{Groups: groups}
}

func group(key, amount, unit string) types.Group {
	return types.Group{
		Keys: []string{key},
		Metrics: map[string]types.MetricValue{
			costMetric: {Amount: aws.String(amount), Unit: aws.String(unit)},
		},
	}
}

var testPeriod = model.DateRange{Start: "2023-02-01", End: "2023-02-22"}

func TestGetPeriodTotal(t *testing.T) {
	t.Run("returns the single bucket total", func(t *testing.T) {
		client := &fakeClient{responses: []*costexplorer.GetCostAndUsageOutput{
			{ResultsByTime: []types.ResultByTime{bucketWithTotal("1.23456", "USD")}},
		}}

		total, err := NewServiceWithClient(client).GetPeriodTotal(context.Background(), testPeriod)
		require.NoError(t, err)
		require.NotNil(t, total)
		assert.Equal(t, "1.23456", total.Amount)
		assert.Equal(t, "USD", total.Unit)

		require.Len(t, client.inputs, 1)
		input := client.inputs[0]
		assert.Equal(t, types.GranularityMonthly, input.Granularity)
		assert.Equal(t, []string{costMetric}, input.Metrics)
		assert.Empty(t, input.GroupBy)
		assert.Equal(t, "2023-02-01", aws.ToString(input.TimePeriod.Start))
		// The API end date is exclusive, so the inclusive period end is bumped
		// by one day.
		assert.Equal(t, "2023-02-23", aws.ToString(input.TimePeriod.End))
	})

	t.Run("zero buckets means no usable data", func(t *testing.T) {
		client := &fakeClient{responses: []*costexplorer.GetCostAndUsageOutput{
			{ResultsByTime: []types.ResultByTime{}},
		}}

		total, err := NewServiceWithClient(client).GetPeriodTotal(context.Background(), testPeriod)
		assert.NoError(t, err)
		assert.Nil(t, total)
	})

	t.Run("multiple buckets means no usable data", func(t *testing.T) {
		client := &fakeClient{responses: []*costexplorer.GetCostAndUsageOutput{
			{ResultsByTime: []types.ResultByTime{bucketWithTotal("1", "USD"), bucketWithTotal("2", "USD")}},
		}}

		total, err := NewServiceWithClient(client).GetPeriodTotal(context.Background(), testPeriod)
		assert.NoError(t, err)
		assert.Nil(t, total)
	})

	t.Run("call failure propagates", func(t *testing.T) {
		client := &fakeClient{errs: []error{errors.New("throttled")}}

		total, err := NewServiceWithClient(client).GetPeriodTotal(context.Background(), testPeriod)
		assert.Error(t, err)
		assert.Nil(t, total)
	})
}

func TestGetGroupedCosts(t *testing.T) {
	t.Run("concatenates pages in order", func(t *testing.T) {
		client := &fakeClient{responses: []*costexplorer.GetCostAndUsageOutput{
			{
				ResultsByTime: []types.ResultByTime{bucketWithGroups(
					group("AWS CloudTrail", "0", "USD"),
					group("AWS Config", "0.012", "USD"),
				)},
				NextPageToken: aws.String("page-2"),
			},
			{
				ResultsByTime: []types.ResultByTime{bucketWithGroups(
					group("Tax", "1.39", "USD"),
				)},
			},
		}}

		rows, err := NewServiceWithClient(client).GetGroupedCosts(context.Background(), testPeriod, model.GroupByService)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "AWS CloudTrail", rows[0].Key)
		assert.Equal(t, "AWS Config", rows[1].Key)
		assert.Equal(t, "Tax", rows[2].Key)
		assert.Equal(t, "1.39", rows[2].Amount)

		require.Len(t, client.inputs, 2)
		assert.Nil(t, client.inputs[0].NextPageToken)
		assert.Equal(t, "page-2", aws.ToString(client.inputs[1].NextPageToken))
		require.Len(t, client.inputs[0].GroupBy, 1)
		assert.Equal(t, "SERVICE", aws.ToString(client.inputs[0].GroupBy[0].Key))
	})

	t.Run("page failure discards partial results", func(t *testing.T) {
		client := &fakeClient{
			responses: []*costexplorer.GetCostAndUsageOutput{
				{
					ResultsByTime: []types.ResultByTime{bucketWithGroups(group("Tax", "1.39", "USD"))},
					NextPageToken: aws.String("page-2"),
				},
				nil,
			},
			errs: []error{nil, errors.New("expired token")},
		}

		rows, err := NewServiceWithClient(client).GetGroupedCosts(context.Background(), testPeriod, model.GroupByService)
		assert.Error(t, err)
		assert.Nil(t, rows)
	})

	t.Run("empty bucket page discards the whole result", func(t *testing.T) {
		client := &fakeClient{
			responses: []*costexplorer.GetCostAndUsageOutput{
				{
					ResultsByTime: []types.ResultByTime{bucketWithGroups(group("Tax", "1.39", "USD"))},
					NextPageToken: aws.String("page-2"),
				},
				{ResultsByTime: []types.ResultByTime{}},
			},
		}

		rows, err := NewServiceWithClient(client).GetGroupedCosts(context.Background(), testPeriod, model.GroupByService)
		assert.NoError(t, err)
		assert.Nil(t, rows)
	})

	t.Run("no groups yields an empty non-nil result", func(t *testing.T) {
		client := &fakeClient{responses: []*costexplorer.GetCostAndUsageOutput{
			{ResultsByTime: []types.ResultByTime{bucketWithGroups()}},
		}}

		rows, err := NewServiceWithClient(client).GetGroupedCosts(context.Background(), testPeriod, model.GroupByService)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("accounts are enriched with descriptions", func(t *testing.T) {
		client := &fakeClient{responses: []*costexplorer.GetCostAndUsageOutput{
			{
				ResultsByTime: []types.ResultByTime{bucketWithGroups(
					group("111111111111", "3.50", "USD"),
					group("222222222222", "0.75", "USD"),
				)},
				DimensionValueAttributes: []types.DimensionValuesWithAttributes{
					{
						Value:      aws.String("111111111111"),
						Attributes: map[string]string{"description": "prod"},
					},
				},
			},
		}}

		rows, err := NewServiceWithClient(client).GetGroupedCosts(context.Background(), testPeriod, model.GroupByAccount)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "111111111111 (prod)", rows[0].Key)
		assert.Equal(t, "222222222222", rows[1].Key)

		require.Len(t, client.inputs[0].GroupBy, 1)
		assert.Equal(t, "LINKED_ACCOUNT", aws.ToString(client.inputs[0].GroupBy[0].Key))
	})
}
