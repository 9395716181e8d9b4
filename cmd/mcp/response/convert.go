package response

import (
	"errors"

	"github.com/elC0mpa/cost-explorer-mcp/model"
)

// UnexpectedMessage is all a caller learns about an unclassified failure.
const UnexpectedMessage = "an unexpected internal error occurred; see server logs for details"

// ConvertAccountInfo converts model.AccountInfo to response.AccountInfo
func ConvertAccountInfo(info *model.AccountInfo) *AccountInfo {
	if info == nil {
		return nil
	}
	return &AccountInfo{
		Provider:    info.Provider,
		AccountID:   info.AccountID,
		AccountName: info.AccountName,
		UserID:      info.UserID,
	}
}

// ConvertCostResult converts a normalized cost result, echoing the query it answers
func ConvertCostResult(q model.CostQuery, result *model.CostResult) *CostAndUsage {
	metrics := make([]string, 0, len(q.Metrics))
	for _, m := range q.Metrics {
		metrics = append(metrics, string(m))
	}
	groupBy := make([]string, 0, len(q.GroupBy))
	for _, d := range q.GroupBy {
		groupBy = append(groupBy, string(d))
	}

	resp := &CostAndUsage{
		TimePeriod: TimePeriod{
			Start: q.Start.Format(model.DateLayout),
			End:   q.End.Format(model.DateLayout),
		},
		Granularity: string(q.Granularity),
		Metrics:     metrics,
		GroupBy:     groupBy,
		Results:     []CostResult{},
	}
	if result == nil {
		return resp
	}

	for _, r := range result.Records {
		amounts := make(map[string]MetricAmount, len(r.Metrics))
		for name, v := range r.Metrics {
			amounts[string(name)] = MetricAmount{Amount: v.Amount, Unit: v.Unit}
		}
		resp.Results = append(resp.Results, CostResult{
			PeriodStart: r.Start,
			PeriodEnd:   r.End,
			GroupKeys:   r.GroupKeys,
			Metrics:     amounts,
			Estimated:   r.Estimated,
		})
	}
	resp.TotalResults = len(resp.Results)
	resp.Truncated = result.Truncated
	resp.NextPageToken = result.NextPageToken

	return resp
}

// ConvertDimensionResult converts a dimension listing, echoing the query it answers
func ConvertDimensionResult(q model.DimensionQuery, result *model.DimensionResult) *DimensionValues {
	resp := &DimensionValues{
		Dimension: string(q.Dimension),
		TimePeriod: TimePeriod{
			Start: q.Start.Format(model.DateLayout),
			End:   q.End.Format(model.DateLayout),
		},
		SearchString: q.SearchString,
		Values:       []DimensionValue{},
	}
	if result == nil {
		return resp
	}

	for _, v := range result.Values {
		resp.Values = append(resp.Values, DimensionValue{Value: v.Value, Attributes: v.Attributes})
	}
	resp.ReturnSize = result.ReturnSize
	resp.TotalSize = result.TotalSize
	resp.Truncated = result.Truncated
	resp.NextPageToken = result.NextPageToken

	return resp
}

// ConvertError maps any handler failure onto the error envelope. Unclassified
// errors get a generic message so internals never reach the caller.
func ConvertError(err error) ErrorEnvelope {
	var (
		validationErr  *model.ValidationError
		credentialsErr *model.CredentialsError
		apiErr         *model.AwsApiError
	)

	switch {
	case errors.As(err, &validationErr):
		return ErrorEnvelope{Error: ErrorDetail{
			Kind:    string(model.KindValidation),
			Message: validationErr.Error(),
			Field:   validationErr.Field,
		}}
	case errors.As(err, &credentialsErr):
		return ErrorEnvelope{Error: ErrorDetail{
			Kind:    string(model.KindCredentials),
			Message: credentialsErr.Error() + ". Configure AWS credentials or pass a valid profile.",
		}}
	case errors.As(err, &apiErr):
		return ErrorEnvelope{Error: ErrorDetail{
			Kind:      string(model.KindAwsAPI),
			Message:   apiErr.Message,
			Code:      apiErr.Code,
			Retryable: apiErr.Retryable,
		}}
	default:
		return ErrorEnvelope{Error: ErrorDetail{
			Kind:    string(model.KindUnexpected),
			Message: UnexpectedMessage,
		}}
	}
}
