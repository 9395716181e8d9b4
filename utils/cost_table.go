package utils

import (
	"fmt"
	"sort"
	"strings"

	"github.com/elC0mpa/cost-explorer-mcp/cmd/mcp/response"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
)

// RenderCostTable renders a cost query result as a terminal table, one row per
// result bucket in the order AWS returned them, followed by a total per metric.
func RenderCostTable(resp *response.CostAndUsage) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(fmt.Sprintf("%s costs %s to %s", resp.Granularity, resp.TimePeriod.Start, resp.TimePeriod.End))

	groupHeader := "Group"
	if len(resp.GroupBy) > 0 {
		groupHeader = strings.Join(resp.GroupBy, " / ")
	}
	header := table.Row{"Period", groupHeader}
	for _, m := range resp.Metrics {
		header = append(header, m)
	}
	tw.AppendHeader(header)

	totals := make(map[string]decimal.Decimal, len(resp.Metrics))
	units := make(map[string]string, len(resp.Metrics))
	mixedUnits := make(map[string]bool)

	for _, r := range resp.Results {
		period := fmt.Sprintf("%s\n%s", r.PeriodStart, r.PeriodEnd)
		if r.Estimated {
			period = text.FgYellow.Sprintf("%s *", period)
		}
		group := text.FgGreen.Sprint("Total")
		if len(r.GroupKeys) > 0 {
			group = text.FgGreen.Sprint(strings.Join(r.GroupKeys, " / "))
		}
		row := table.Row{period, group}
		for _, m := range resp.Metrics {
			amount, ok := r.Metrics[m]
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, formatAmount(amount))
			totals[m] = totals[m].Add(amount.Amount)
			if u, seen := units[m]; seen && u != amount.Unit {
				mixedUnits[m] = true
			}
			units[m] = amount.Unit
		}
		tw.AppendRow(row)
	}

	if len(resp.Results) > 1 {
		footer := table.Row{"", text.FgHiGreen.Sprint("Sum")}
		for _, m := range resp.Metrics {
			if mixedUnits[m] {
				footer = append(footer, "-")
				continue
			}
			footer = append(footer, text.FgHiGreen.Sprint(formatAmount(response.MetricAmount{Amount: totals[m], Unit: units[m]})))
		}
		tw.AppendFooter(footer)
	}

	configs := []table.ColumnConfig{
		{Number: 1, VAlignHeader: text.VAlignMiddle},
		{Number: 2, VAlignHeader: text.VAlignMiddle},
	}
	for i := range resp.Metrics {
		configs = append(configs, table.ColumnConfig{Number: i + 3, Align: text.AlignRight, AlignFooter: text.AlignRight})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render() + pageNote(resp.Truncated, resp.NextPageToken)
}

// RenderDimensionTable renders the values of a dimension, sorted for reading.
func RenderDimensionTable(resp *response.DimensionValues) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(fmt.Sprintf("%s values %s to %s", resp.Dimension, resp.TimePeriod.Start, resp.TimePeriod.End))
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"#", "Value", "Attributes"})

	values := append([]response.DimensionValue(nil), resp.Values...)
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].Value < values[j].Value
	})

	for i, v := range values {
		tw.AppendRow(table.Row{i + 1, text.FgGreen.Sprint(v.Value), formatAttributes(v.Attributes)})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d of %d", resp.ReturnSize, resp.TotalSize), ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})

	return tw.Render() + pageNote(resp.Truncated, resp.NextPageToken)
}

// RenderAccountInfo renders the caller identity returned by STS.
func RenderAccountInfo(info *response.AccountInfo) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendRows([]table.Row{
		{"Account ID", text.FgBlue.Sprint(info.AccountID)},
		{"ARN", info.AccountName},
		{"User ID", info.UserID},
	})
	return tw.Render()
}

func formatAmount(m response.MetricAmount) string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixedBank(2), m.Unit)
}

func formatAttributes(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, attrs[k]))
	}
	return strings.Join(parts, "\n")
}

func pageNote(truncated bool, token string) string {
	var b strings.Builder
	if truncated {
		b.WriteString("\n" + text.FgYellow.Sprint("Results truncated by max-results."))
	}
	if token != "" {
		b.WriteString("\n" + fmt.Sprintf("More results available: --next-page-token %s", token))
	}
	return b.String()
}
