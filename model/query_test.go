package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func requireValidation(t *testing.T, err error, field string) *ValidationError {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != field {
		t.Fatalf("expected field %q, got %q (%s)", field, ve.Field, ve.Constraint)
	}
	return ve
}

func TestCostQueryDefaults(t *testing.T) {
	q, err := CostQueryParams{}.Validate(fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Granularity != GranularityMonthly {
		t.Fatalf("expected MONTHLY, got %s", q.Granularity)
	}
	if len(q.Metrics) != 1 || q.Metrics[0] != MetricUnblendedCost {
		t.Fatalf("expected default UnblendedCost metric, got %v", q.Metrics)
	}
	if q.MaxResults != DefaultCostMaxResults {
		t.Fatalf("expected max_results %d, got %d", DefaultCostMaxResults, q.MaxResults)
	}
	if got := q.Start.Format(DateLayout); got != "2024-03-01" {
		t.Fatalf("expected start 2024-03-01, got %s", got)
	}
	if got := q.End.Format(DateLayout); got != "2024-03-15" {
		t.Fatalf("expected end 2024-03-15, got %s", got)
	}
}

func TestCostQueryDefaultWindowOnFirstOfMonth(t *testing.T) {
	now := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	q, err := CostQueryParams{}.Validate(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := q.Start.Format(DateLayout); got != "2023-12-01" {
		t.Fatalf("expected start 2023-12-01, got %s", got)
	}
	if got := q.End.Format(DateLayout); got != "2024-01-01" {
		t.Fatalf("expected end 2024-01-01, got %s", got)
	}
}

func TestCostQueryScenarioJanuaryByService(t *testing.T) {
	q, err := CostQueryParams{
		Start:       "2024-01-01",
		End:         "2024-02-01",
		Granularity: "MONTHLY",
		GroupBy:     []string{"SERVICE"},
		Metrics:     []string{"UnblendedCost"},
	}.Validate(fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.GroupBy) != 1 || q.GroupBy[0] != DimensionService {
		t.Fatalf("unexpected group_by %v", q.GroupBy)
	}
}

func TestCostQueryEndBeforeStart(t *testing.T) {
	_, err := CostQueryParams{Start: "2024-02-01", End: "2024-01-01"}.Validate(fixedNow)
	ve := requireValidation(t, err, "end")
	if !strings.Contains(ve.Error(), "end must be after start") {
		t.Fatalf("unexpected message %q", ve.Error())
	}
}

func TestCostQueryEqualDatesRejected(t *testing.T) {
	_, err := CostQueryParams{Start: "2024-02-01", End: "2024-02-01"}.Validate(fixedNow)
	requireValidation(t, err, "end")
}

func TestCostQueryValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		params CostQueryParams
		field  string
	}{
		{"granularity lowercase", CostQueryParams{Granularity: "monthly"}, "granularity"},
		{"granularity hourly", CostQueryParams{Granularity: "HOURLY"}, "granularity"},
		{"too many group_by", CostQueryParams{GroupBy: []string{"SERVICE", "REGION", "OPERATION"}}, "group_by"},
		{"unknown group_by", CostQueryParams{GroupBy: []string{"AZ"}}, "group_by"},
		{"duplicate group_by", CostQueryParams{GroupBy: []string{"SERVICE", "SERVICE"}}, "group_by"},
		{"empty metrics", CostQueryParams{Metrics: []string{}}, "metrics"},
		{"unknown metric", CostQueryParams{Metrics: []string{"Cost"}}, "metrics"},
		{"duplicate metric", CostQueryParams{Metrics: []string{"BlendedCost", "BlendedCost"}}, "metrics"},
		{"max_results zero", CostQueryParams{MaxResults: intPtr(0)}, "max_results"},
		{"max_results above limit", CostQueryParams{MaxResults: intPtr(101)}, "max_results"},
		{"bad start", CostQueryParams{Start: "2024/01/01", End: "2024-02-01"}, "start"},
		{"bad end", CostQueryParams{Start: "2024-01-01", End: "2024-02-30"}, "end"},
		{"filter unknown dimension", CostQueryParams{Filter: &FilterConfig{Dimension: "TAG", Values: []string{"x"}}}, "filter_config.dimension"},
		{"filter no values", CostQueryParams{Filter: &FilterConfig{Dimension: "SERVICE"}}, "filter_config.values"},
		{"filter blank value", CostQueryParams{Filter: &FilterConfig{Dimension: "SERVICE", Values: []string{" "}}}, "filter_config.values"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.params.Validate(fixedNow)
			requireValidation(t, err, tc.field)
		})
	}
}

func TestCostQueryMaxResultsBoundaries(t *testing.T) {
	for _, n := range []int{1, MaxCostMaxResults} {
		q, err := CostQueryParams{MaxResults: intPtr(n)}.Validate(fixedNow)
		if err != nil {
			t.Fatalf("max_results %d: unexpected error: %v", n, err)
		}
		if q.MaxResults != n {
			t.Fatalf("expected %d, got %d", n, q.MaxResults)
		}
	}
}

func TestCostQueryFilterCopied(t *testing.T) {
	values := []string{"Amazon Simple Storage Service"}
	q, err := CostQueryParams{Filter: &FilterConfig{Dimension: "SERVICE", Values: values}}.Validate(fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values[0] = "mutated"
	if q.Filter.Values[0] != "Amazon Simple Storage Service" {
		t.Fatalf("filter values alias caller slice")
	}
	if q.Filter.Dimension != DimensionService {
		t.Fatalf("expected SERVICE, got %s", q.Filter.Dimension)
	}
}

func TestDimensionQueryDefaults(t *testing.T) {
	q, err := DimensionQueryParams{Dimension: "REGION", SearchString: "us-"}.Validate(fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Dimension != DimensionRegion {
		t.Fatalf("expected REGION, got %s", q.Dimension)
	}
	if q.MaxResults != DefaultDimensionMaxResults {
		t.Fatalf("expected %d, got %d", DefaultDimensionMaxResults, q.MaxResults)
	}
	if got := q.Start.Format(DateLayout); got != "2024-02-14" {
		t.Fatalf("expected start 2024-02-14, got %s", got)
	}
	if got := q.End.Format(DateLayout); got != "2024-03-15" {
		t.Fatalf("expected end 2024-03-15, got %s", got)
	}
	if q.SearchString != "us-" {
		t.Fatalf("expected search string to be kept, got %q", q.SearchString)
	}
}

func TestDimensionQuerySingleBound(t *testing.T) {
	q, err := DimensionQueryParams{Dimension: "SERVICE", TimePeriodEnd: "2024-01-31"}.Validate(fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := q.Start.Format(DateLayout); got != "2024-01-01" {
		t.Fatalf("expected start 2024-01-01, got %s", got)
	}

	_, err = DimensionQueryParams{Dimension: "SERVICE", TimePeriodStart: "2024-04-01"}.Validate(fixedNow)
	requireValidation(t, err, "time_period_end")
}

func TestDimensionQueryValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		params DimensionQueryParams
		field  string
	}{
		{"missing dimension", DimensionQueryParams{}, "dimension"},
		{"unknown dimension", DimensionQueryParams{Dimension: "AZ"}, "dimension"},
		{"lowercase dimension", DimensionQueryParams{Dimension: "service"}, "dimension"},
		{"max_results zero", DimensionQueryParams{Dimension: "SERVICE", MaxResults: intPtr(0)}, "max_results"},
		{"max_results above limit", DimensionQueryParams{Dimension: "SERVICE", MaxResults: intPtr(1001)}, "max_results"},
		{"bad start", DimensionQueryParams{Dimension: "SERVICE", TimePeriodStart: "yesterday"}, "time_period_start"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.params.Validate(fixedNow)
			requireValidation(t, err, tc.field)
		})
	}
}

func TestDimensionQueryUnknownNamesAllowedSet(t *testing.T) {
	_, err := DimensionQueryParams{Dimension: "AVAILABILITY_ZONE"}.Validate(fixedNow)
	ve := requireValidation(t, err, "dimension")
	for _, name := range DimensionNames() {
		if !strings.Contains(ve.Constraint, name) {
			t.Fatalf("expected allowed set to mention %s: %q", name, ve.Constraint)
		}
	}
}

func TestDimensionQueryMaxResultsBoundaries(t *testing.T) {
	for _, n := range []int{1, MaxDimensionMaxResults} {
		if _, err := (DimensionQueryParams{Dimension: "SERVICE", MaxResults: intPtr(n)}).Validate(fixedNow); err != nil {
			t.Fatalf("max_results %d: unexpected error: %v", n, err)
		}
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorKind
	}{
		{NewValidationError("x", "bad"), KindValidation},
		{&CredentialsError{Profile: "p", Err: errors.New("nope")}, KindCredentials},
		{&AwsApiError{Code: "AccessDeniedException"}, KindAwsAPI},
		{&UnexpectedError{Err: errors.New("boom")}, KindUnexpected},
		{errors.New("plain"), KindUnexpected},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Fatalf("KindOf(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}
