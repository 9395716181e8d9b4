package model

import "github.com/shopspring/decimal"

// DateInterval represents a time period for cost analysis
type DateInterval struct {
	Start string
	End   string
}

// MetricAmount is one metric value of a cost record.
type MetricAmount struct {
	Amount decimal.Decimal
	Unit   string
}

// CostRecord is one time bucket, or one group within a bucket when grouped.
type CostRecord struct {
	DateInterval
	GroupKeys []string
	Metrics   map[Metric]MetricAmount
	Estimated bool
}

// CostResult holds normalized records in the API's native order.
type CostResult struct {
	Records       []CostRecord
	Truncated     bool
	NextPageToken string
}

// DimensionValue is one available value of a dimension.
type DimensionValue struct {
	Value      string
	Attributes map[string]string
}

// DimensionResult holds dimension values in the API's native order.
type DimensionResult struct {
	Values        []DimensionValue
	ReturnSize    int
	TotalSize     int
	Truncated     bool
	NextPageToken string
}
