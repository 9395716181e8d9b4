package awscostexplorer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/elC0mpa/cost-explorer-mcp/model"
	"github.com/shopspring/decimal"
)

func NewService(awsconfig aws.Config) *service {
	return NewServiceWithClient(costexplorer.NewFromConfig(awsconfig))
}

func NewServiceWithClient(client API) *service {
	return &service{
		client: client,
	}
}

// GetCostAndUsage runs a validated cost query and normalizes every time bucket,
// or every group within a bucket when the query is grouped. Records keep the
// API's order and are cut at q.MaxResults.
func (s *service) GetCostAndUsage(ctx context.Context, q model.CostQuery) (*model.CostResult, error) {
	output, err := s.client.GetCostAndUsage(ctx, BuildCostAndUsageInput(q))
	if err != nil {
		return nil, wrapAPIError("GetCostAndUsage", err)
	}

	result := &model.CostResult{
		Records:       []model.CostRecord{},
		NextPageToken: aws.ToString(output.NextPageToken),
	}

	for _, timeResult := range output.ResultsByTime {
		interval := toDateInterval(timeResult.TimePeriod)

		if len(q.GroupBy) == 0 {
			metrics, err := normalizeMetrics(timeResult.Total)
			if err != nil {
				return nil, err
			}
			result.Records = append(result.Records, model.CostRecord{
				DateInterval: interval,
				Metrics:      metrics,
				Estimated:    timeResult.Estimated,
			})
			continue
		}

		for _, group := range timeResult.Groups {
			metrics, err := normalizeMetrics(group.Metrics)
			if err != nil {
				return nil, err
			}
			result.Records = append(result.Records, model.CostRecord{
				DateInterval: interval,
				GroupKeys:    append([]string{}, group.Keys...),
				Metrics:      metrics,
				Estimated:    timeResult.Estimated,
			})
		}
	}

	if len(result.Records) > q.MaxResults {
		result.Records = result.Records[:q.MaxResults]
		result.Truncated = true
	}

	return result, nil
}

// GetDimensionValues lists the values of one dimension, cut at q.MaxResults.
func (s *service) GetDimensionValues(ctx context.Context, q model.DimensionQuery) (*model.DimensionResult, error) {
	output, err := s.client.GetDimensionValues(ctx, BuildDimensionValuesInput(q))
	if err != nil {
		return nil, wrapAPIError("GetDimensionValues", err)
	}

	values := make([]model.DimensionValue, 0, len(output.DimensionValues))
	for _, v := range output.DimensionValues {
		values = append(values, model.DimensionValue{
			Value:      aws.ToString(v.Value),
			Attributes: v.Attributes,
		})
	}

	result := &model.DimensionResult{
		Values:        values,
		ReturnSize:    int(aws.ToInt32(output.ReturnSize)),
		TotalSize:     int(aws.ToInt32(output.TotalSize)),
		NextPageToken: aws.ToString(output.NextPageToken),
	}
	if len(result.Values) > q.MaxResults {
		result.Values = result.Values[:q.MaxResults]
		result.Truncated = true
	}

	return result, nil
}

// BuildCostAndUsageInput translates a validated query into the API request.
func BuildCostAndUsageInput(q model.CostQuery) *costexplorer.GetCostAndUsageInput {
	metrics := make([]string, 0, len(q.Metrics))
	for _, m := range q.Metrics {
		metrics = append(metrics, string(m))
	}

	input := &costexplorer.GetCostAndUsageInput{
		Granularity: types.Granularity(q.Granularity),
		TimePeriod: &types.DateInterval{
			Start: aws.String(q.Start.Format(model.DateLayout)),
			End:   aws.String(q.End.Format(model.DateLayout)),
		},
		Metrics: metrics,
	}

	for _, d := range q.GroupBy {
		input.GroupBy = append(input.GroupBy, types.GroupDefinition{
			Key:  aws.String(string(d)),
			Type: types.GroupDefinitionTypeDimension,
		})
	}

	if q.Filter != nil {
		input.Filter = &types.Expression{
			Dimensions: &types.DimensionValues{
				Key:          types.Dimension(q.Filter.Dimension),
				Values:       q.Filter.Values,
				MatchOptions: []types.MatchOption{types.MatchOptionEquals},
			},
		}
	}

	if q.NextPageToken != "" {
		input.NextPageToken = aws.String(q.NextPageToken)
	}

	return input
}

// BuildDimensionValuesInput translates a validated query into the API request.
// MaxResults is left unset: the API only honors it together with SortBy, so
// the limit is applied to the returned page instead.
func BuildDimensionValuesInput(q model.DimensionQuery) *costexplorer.GetDimensionValuesInput {
	input := &costexplorer.GetDimensionValuesInput{
		Dimension: types.Dimension(q.Dimension),
		TimePeriod: &types.DateInterval{
			Start: aws.String(q.Start.Format(model.DateLayout)),
			End:   aws.String(q.End.Format(model.DateLayout)),
		},
	}
	if q.SearchString != "" {
		input.SearchString = aws.String(q.SearchString)
	}
	if q.NextPageToken != "" {
		input.NextPageToken = aws.String(q.NextPageToken)
	}
	return input
}

func toDateInterval(period *types.DateInterval) model.DateInterval {
	if period == nil {
		return model.DateInterval{}
	}
	return model.DateInterval{
		Start: aws.ToString(period.Start),
		End:   aws.ToString(period.End),
	}
}

func normalizeMetrics(values map[string]types.MetricValue) (map[model.Metric]model.MetricAmount, error) {
	metrics := make(map[model.Metric]model.MetricAmount, len(values))
	for name, v := range values {
		amount := decimal.Zero
		if raw := aws.ToString(v.Amount); raw != "" {
			parsed, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, &model.UnexpectedError{Err: fmt.Errorf("parse %s amount %q: %w", name, raw, err)}
			}
			amount = parsed
		}
		metrics[model.Metric(name)] = model.MetricAmount{
			Amount: amount,
			Unit:   aws.ToString(v.Unit),
		}
	}
	return metrics, nil
}
