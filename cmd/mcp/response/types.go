package response

import "github.com/shopspring/decimal"

// TimePeriod is an ISO date window; end is exclusive
type TimePeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MetricAmount is a metric value with its unit
type MetricAmount struct {
	Amount decimal.Decimal `json:"amount"`
	Unit   string          `json:"unit"`
}

// CostResult is one normalized time bucket or group
type CostResult struct {
	PeriodStart string                  `json:"period_start"`
	PeriodEnd   string                  `json:"period_end"`
	GroupKeys   []string                `json:"group_keys,omitempty"`
	Metrics     map[string]MetricAmount `json:"metrics"`
	Estimated   bool                    `json:"estimated"`
}

// CostAndUsage is the get_cost_and_usage tool result
type CostAndUsage struct {
	TimePeriod    TimePeriod   `json:"time_period"`
	Granularity   string       `json:"granularity"`
	Metrics       []string     `json:"metrics"`
	GroupBy       []string     `json:"group_by"`
	Results       []CostResult `json:"results"`
	TotalResults  int          `json:"total_results"`
	Truncated     bool         `json:"truncated"`
	NextPageToken string       `json:"next_page_token,omitempty"`
}

// DimensionValue is one available value of a dimension
type DimensionValue struct {
	Value      string            `json:"value"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// DimensionValues is the get_dimension_values tool result
type DimensionValues struct {
	Dimension     string           `json:"dimension"`
	TimePeriod    TimePeriod       `json:"time_period"`
	SearchString  string           `json:"search_string,omitempty"`
	Values        []DimensionValue `json:"values"`
	ReturnSize    int              `json:"return_size"`
	TotalSize     int              `json:"total_size"`
	Truncated     bool             `json:"truncated"`
	NextPageToken string           `json:"next_page_token,omitempty"`
}

// ErrorDetail tells the caller what kind of failure happened
type ErrorDetail struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Code      string `json:"code,omitempty"`
	Retryable bool   `json:"retryable"`
}

// ErrorEnvelope wraps ErrorDetail in the tool result body
type ErrorEnvelope struct {
	Error ErrorDetail `json:"error"`
}

// AccountInfo represents cloud account identity
type AccountInfo struct {
	Provider    string `json:"provider"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	UserID      string `json:"user_id,omitempty"`
}
