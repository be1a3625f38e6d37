package awscostexplorer

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"

	"github.com/elC0mpa/cost-notifier/model"
)

const costMetric = "AmortizedCost"

func NewService(awsconfig aws.Config) *service {
	client := costexplorer.NewFromConfig(awsconfig)
	return &service{
		client: client,
	}
}

// NewServiceWithClient injects a pre-built client, used by tests.
func NewServiceWithClient(client CostExplorerAPI) *service {
	return &service{
		client: client,
	}
}

// GetPeriodTotal fetches the aggregate amortized cost for the period with a
// single ungrouped query. A response without exactly one result-by-time
// bucket carries no usable total and yields nil without an error.
func (s *service) GetPeriodTotal(ctx context.Context, period model.DateRange) (*model.TotalBilling, error) {
	input := &costexplorer.GetCostAndUsageInput{
		Granularity: types.GranularityMonthly,
		TimePeriod:  intervalFor(period),
		Metrics:     []string{costMetric},
	}

	output, err := s.client.GetCostAndUsage(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("get period total: %w", err)
	}
	if len(output.ResultsByTime) != 1 {
		return nil, nil
	}

	total, ok := output.ResultsByTime[0].Total[costMetric]
	if !ok || total.Amount == nil {
		return nil, nil
	}

	return &model.TotalBilling{
		Unit:   aws.ToString(total.Unit),
		Amount: aws.ToString(total.Amount),
	}, nil
}

// GetGroupedCosts fetches the period costs broken down by the mode's
// dimension, following NextPageToken until the result set is complete. Rows
// keep the API's return order. Any page failure or any page without exactly
// one result-by-time bucket discards the whole result set: an incomplete
// breakdown would under-report, so nothing is reported instead.
func (s *service) GetGroupedCosts(ctx context.Context, period model.DateRange, mode model.GroupingMode) ([]model.CostRow, error) {
	rows := make([]model.CostRow, 0)

	var token *string
	for {
		input := &costexplorer.GetCostAndUsageInput{
			Granularity: types.GranularityMonthly,
			TimePeriod:  intervalFor(period),
			Metrics:     []string{costMetric},
			GroupBy: []types.GroupDefinition{
				{
					Key:  aws.String(dimensionFor(mode)),
					Type: types.GroupDefinitionTypeDimension,
				},
			},
			NextPageToken: token,
		}

		output, err := s.client.GetCostAndUsage(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("get grouped costs by %s: %w", mode, err)
		}
		if len(output.ResultsByTime) != 1 {
			return nil, nil
		}

		rows = append(rows, s.rowsFromGroups(output.ResultsByTime[0].Groups, mode, output.DimensionValueAttributes)...)

		if output.NextPageToken == nil {
			return rows, nil
		}
		token = output.NextPageToken
	}
}

func (s *service) rowsFromGroups(groups []types.Group, mode model.GroupingMode, attributes []types.DimensionValuesWithAttributes) []model.CostRow {
	rows := make([]model.CostRow, 0, len(groups))

	for _, group := range groups {
		metric, ok := group.Metrics[costMetric]
		if !ok || len(group.Keys) == 0 {
			continue
		}

		key := group.Keys[0]
		if mode == model.GroupByAccount {
			key = describeAccount(key, attributes)
		}

		rows = append(rows, model.CostRow{
			Key:    key,
			Unit:   aws.ToString(metric.Unit),
			Amount: aws.ToString(metric.Amount),
		})
	}

	return rows
}

// describeAccount appends the account's human-readable description from the
// response attributes. Accounts without a matching attribute keep the raw id.
func describeAccount(id string, attributes []types.DimensionValuesWithAttributes) string {
	for _, attr := range attributes {
		if aws.ToString(attr.Value) != id {
			continue
		}
		if description := attr.Attributes["description"]; description != "" {
			return fmt.Sprintf("%s (%s)", id, description)
		}
	}
	return id
}

// intervalFor converts the inclusive reporting period into the Cost Explorer
// request shape, whose end date is exclusive.
func intervalFor(period model.DateRange) *types.DateInterval {
	return &types.DateInterval{
		Start: aws.String(period.Start),
		End:   aws.String(nextDay(period.End)),
	}
}

func nextDay(day string) string {
	parsed, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	return parsed.AddDate(0, 0, 1).Format("2006-01-02")
}

func dimensionFor(mode model.GroupingMode) string {
	if mode == model.GroupByAccount {
		return "LINKED_ACCOUNT"
	}
	return "SERVICE"
}
