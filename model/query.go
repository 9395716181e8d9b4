package model

import (
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format Cost Explorer accepts.
const DateLayout = "2006-01-02"

const (
	MaxGroupBy = 2

	DefaultCostMaxResults = 100
	MaxCostMaxResults     = 100

	DefaultDimensionMaxResults = 50
	MaxDimensionMaxResults     = 1000

	DefaultLookbackDays = 30
)

// FilterConfig is the raw dimension filter supplied by a caller.
type FilterConfig struct {
	Dimension string
	Values    []string
}

// DimensionFilter restricts a cost query to the listed values of one dimension.
type DimensionFilter struct {
	Dimension Dimension
	Values    []string
}

// CostQueryParams is get_cost_and_usage input before validation.
// A nil Metrics slice selects the default metric; a non-nil empty one is rejected.
type CostQueryParams struct {
	Start         string
	End           string
	Granularity   string
	GroupBy       []string
	Metrics       []string
	Filter        *FilterConfig
	MaxResults    *int
	NextPageToken string
	Profile       string
}

// CostQuery is a validated get_cost_and_usage request. End is exclusive.
type CostQuery struct {
	Start         time.Time
	End           time.Time
	Granularity   Granularity
	GroupBy       []Dimension
	Metrics       []Metric
	Filter        *DimensionFilter
	MaxResults    int
	NextPageToken string
	Profile       string
}

// DimensionQueryParams is get_dimension_values input before validation.
type DimensionQueryParams struct {
	Dimension       string
	TimePeriodStart string
	TimePeriodEnd   string
	SearchString    string
	MaxResults      *int
	NextPageToken   string
	Profile         string
}

// DimensionQuery is a validated get_dimension_values request.
type DimensionQuery struct {
	Dimension     Dimension
	Start         time.Time
	End           time.Time
	SearchString  string
	MaxResults    int
	NextPageToken string
	Profile       string
}

// Validate checks every field and fills defaults relative to now.
// It never coerces invalid input; the first violated constraint is returned.
func (p CostQueryParams) Validate(now time.Time) (CostQuery, error) {
	q := CostQuery{
		Granularity:   GranularityMonthly,
		MaxResults:    DefaultCostMaxResults,
		NextPageToken: strings.TrimSpace(p.NextPageToken),
		Profile:       strings.TrimSpace(p.Profile),
	}

	if p.Granularity != "" {
		g, ok := ParseGranularity(p.Granularity)
		if !ok {
			return CostQuery{}, NewValidationError("granularity", "must be DAILY or MONTHLY, got %q", p.Granularity)
		}
		q.Granularity = g
	}

	groupBy, err := parseGroupBy(p.GroupBy)
	if err != nil {
		return CostQuery{}, err
	}
	q.GroupBy = groupBy

	metrics, err := parseMetrics(p.Metrics)
	if err != nil {
		return CostQuery{}, err
	}
	q.Metrics = metrics

	if p.Filter != nil {
		f, err := parseFilter(*p.Filter)
		if err != nil {
			return CostQuery{}, err
		}
		q.Filter = f
	}

	if p.MaxResults != nil {
		if *p.MaxResults < 1 || *p.MaxResults > MaxCostMaxResults {
			return CostQuery{}, NewValidationError("max_results", "must be between 1 and %d, got %d", MaxCostMaxResults, *p.MaxResults)
		}
		q.MaxResults = *p.MaxResults
	}

	today := truncateToDay(now)
	start, end := firstOfMonth(today), today
	if p.Start != "" {
		if start, err = parseDate("start", p.Start); err != nil {
			return CostQuery{}, err
		}
	}
	if p.End != "" {
		if end, err = parseDate("end", p.End); err != nil {
			return CostQuery{}, err
		}
	}
	if p.Start == "" && p.End == "" && !end.After(start) {
		// first day of the month: widen the default window to last month
		start = firstOfMonth(today.AddDate(0, -1, 0))
	}
	if !end.After(start) {
		return CostQuery{}, NewValidationError("end", "end must be after start (start=%s, end=%s)", start.Format(DateLayout), end.Format(DateLayout))
	}
	q.Start, q.End = start, end

	return q, nil
}

// Validate checks every field and fills the default 30-day window relative to now.
func (p DimensionQueryParams) Validate(now time.Time) (DimensionQuery, error) {
	q := DimensionQuery{
		MaxResults:    DefaultDimensionMaxResults,
		SearchString:  p.SearchString,
		NextPageToken: strings.TrimSpace(p.NextPageToken),
		Profile:       strings.TrimSpace(p.Profile),
	}

	if p.Dimension == "" {
		return DimensionQuery{}, NewValidationError("dimension", "is required; allowed: %s", joinNames(DimensionNames()))
	}
	d, ok := ParseDimension(p.Dimension)
	if !ok {
		return DimensionQuery{}, NewValidationError("dimension", "unknown dimension %q; allowed: %s", p.Dimension, joinNames(DimensionNames()))
	}
	q.Dimension = d

	if p.MaxResults != nil {
		if *p.MaxResults < 1 || *p.MaxResults > MaxDimensionMaxResults {
			return DimensionQuery{}, NewValidationError("max_results", "must be between 1 and %d, got %d", MaxDimensionMaxResults, *p.MaxResults)
		}
		q.MaxResults = *p.MaxResults
	}

	var err error
	end := truncateToDay(now)
	if p.TimePeriodEnd != "" {
		if end, err = parseDate("time_period_end", p.TimePeriodEnd); err != nil {
			return DimensionQuery{}, err
		}
	}
	start := end.AddDate(0, 0, -DefaultLookbackDays)
	if p.TimePeriodStart != "" {
		if start, err = parseDate("time_period_start", p.TimePeriodStart); err != nil {
			return DimensionQuery{}, err
		}
	}
	if !end.After(start) {
		return DimensionQuery{}, NewValidationError("time_period_end", "time_period_end must be after time_period_start (start=%s, end=%s)", start.Format(DateLayout), end.Format(DateLayout))
	}
	q.Start, q.End = start, end

	return q, nil
}

func parseGroupBy(raw []string) ([]Dimension, error) {
	if len(raw) > MaxGroupBy {
		return nil, NewValidationError("group_by", "at most %d dimensions allowed, got %d", MaxGroupBy, len(raw))
	}
	out := make([]Dimension, 0, len(raw))
	seen := make(map[Dimension]bool, len(raw))
	for _, s := range raw {
		d, ok := ParseDimension(s)
		if !ok {
			return nil, NewValidationError("group_by", "unknown dimension %q; allowed: %s", s, joinNames(DimensionNames()))
		}
		if seen[d] {
			return nil, NewValidationError("group_by", "dimension %q listed more than once", s)
		}
		seen[d] = true
		out = append(out, d)
	}
	return out, nil
}

func parseMetrics(raw []string) ([]Metric, error) {
	if raw == nil {
		return []Metric{MetricUnblendedCost}, nil
	}
	if len(raw) == 0 {
		return nil, NewValidationError("metrics", "must contain at least one of: %s", joinNames(MetricNames()))
	}
	out := make([]Metric, 0, len(raw))
	seen := make(map[Metric]bool, len(raw))
	for _, s := range raw {
		m, ok := ParseMetric(s)
		if !ok {
			return nil, NewValidationError("metrics", "unknown metric %q; allowed: %s", s, joinNames(MetricNames()))
		}
		if seen[m] {
			return nil, NewValidationError("metrics", "metric %q listed more than once", s)
		}
		seen[m] = true
		out = append(out, m)
	}
	return out, nil
}

func parseFilter(f FilterConfig) (*DimensionFilter, error) {
	d, ok := ParseDimension(f.Dimension)
	if !ok {
		return nil, NewValidationError("filter_config.dimension", "unknown dimension %q; allowed: %s", f.Dimension, joinNames(DimensionNames()))
	}
	if len(f.Values) == 0 {
		return nil, NewValidationError("filter_config.values", "must contain at least one value")
	}
	for i, v := range f.Values {
		if strings.TrimSpace(v) == "" {
			return nil, NewValidationError("filter_config.values", "value %d is empty", i)
		}
	}
	return &DimensionFilter{Dimension: d, Values: append([]string(nil), f.Values...)}, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, NewValidationError(field, "invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
