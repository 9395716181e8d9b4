package model

import "strings"

// Dimension is a Cost Explorer axis that costs can be grouped or filtered by.
type Dimension string

const (
	DimensionService       Dimension = "SERVICE"
	DimensionLinkedAccount Dimension = "LINKED_ACCOUNT"
	DimensionRegion        Dimension = "REGION"
	DimensionUsageType     Dimension = "USAGE_TYPE"
	DimensionOperation     Dimension = "OPERATION"
	DimensionInstanceType  Dimension = "INSTANCE_TYPE"
	DimensionPurchaseType  Dimension = "PURCHASE_TYPE"
	DimensionRecordType    Dimension = "RECORD_TYPE"
)

// AllDimensions lists the supported dimensions in documentation order.
var AllDimensions = []Dimension{
	DimensionService,
	DimensionLinkedAccount,
	DimensionRegion,
	DimensionUsageType,
	DimensionOperation,
	DimensionInstanceType,
	DimensionPurchaseType,
	DimensionRecordType,
}

// ParseDimension maps external input onto a known Dimension.
func ParseDimension(s string) (Dimension, bool) {
	for _, d := range AllDimensions {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// DimensionNames returns AllDimensions as plain strings, for schemas and messages.
func DimensionNames() []string {
	out := make([]string, 0, len(AllDimensions))
	for _, d := range AllDimensions {
		out = append(out, string(d))
	}
	return out
}

// Metric is a cost or usage quantity returned by Cost Explorer.
type Metric string

const (
	MetricUnblendedCost         Metric = "UnblendedCost"
	MetricAmortizedCost         Metric = "AmortizedCost"
	MetricNetAmortizedCost      Metric = "NetAmortizedCost"
	MetricNetUnblendedCost      Metric = "NetUnblendedCost"
	MetricNormalizedUsageAmount Metric = "NormalizedUsageAmount"
	MetricUsageQuantity         Metric = "UsageQuantity"
	MetricBlendedCost           Metric = "BlendedCost"
)

var AllMetrics = []Metric{
	MetricUnblendedCost,
	MetricAmortizedCost,
	MetricNetAmortizedCost,
	MetricNetUnblendedCost,
	MetricNormalizedUsageAmount,
	MetricUsageQuantity,
	MetricBlendedCost,
}

func ParseMetric(s string) (Metric, bool) {
	for _, m := range AllMetrics {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

func MetricNames() []string {
	out := make([]string, 0, len(AllMetrics))
	for _, m := range AllMetrics {
		out = append(out, string(m))
	}
	return out
}

// Granularity is the time bucketing unit of a cost query.
type Granularity string

const (
	GranularityDaily   Granularity = "DAILY"
	GranularityMonthly Granularity = "MONTHLY"
)

func ParseGranularity(s string) (Granularity, bool) {
	switch Granularity(s) {
	case GranularityDaily, GranularityMonthly:
		return Granularity(s), true
	}
	return "", false
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
