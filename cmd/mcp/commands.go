package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/elC0mpa/cost-explorer-mcp/cmd/mcp/response"
	"github.com/elC0mpa/cost-explorer-mcp/cmd/mcp/tools"
	"github.com/elC0mpa/cost-explorer-mcp/model"
	"github.com/elC0mpa/cost-explorer-mcp/service"
	awsconfig "github.com/elC0mpa/cost-explorer-mcp/service/aws/config"
	awssts "github.com/elC0mpa/cost-explorer-mcp/service/aws/sts"
	"github.com/elC0mpa/cost-explorer-mcp/utils"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify AWS credentials and print the caller identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configSvc := awsconfig.NewService(a.cfg.Region, a.cfg.MaxRetries)
			awsCfg, err := configSvc.GetAWSCfg(cmd.Context(), a.cfg.Profile)
			if err != nil {
				return err
			}

			var identity service.IdentityService = awssts.NewService(awsCfg)
			info, err := identity.GetAccountInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get caller identity: %w", err)
			}

			resp := response.ConvertAccountInfo(info)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintln(cmd.OutOrStdout(), utils.RenderAccountInfo(resp))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newCostsCmd(a *app) *cobra.Command {
	var (
		params       model.CostQueryParams
		filterDim    string
		filterValues []string
		maxResults   int
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "costs",
		Short: "Run a get_cost_and_usage query once and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("metrics") {
				params.Metrics = nil
			}
			if cmd.Flags().Changed("max-results") {
				params.MaxResults = &maxResults
			}
			if filterDim != "" || len(filterValues) > 0 {
				params.Filter = &model.FilterConfig{Dimension: filterDim, Values: filterValues}
			}

			resp, err := tools.RunCostAndUsage(cmd.Context(), a.deps(), params)
			if err != nil {
				return cliError(err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintln(cmd.OutOrStdout(), utils.RenderCostTable(resp))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&params.Start, "start", "", "start date YYYY-MM-DD, inclusive (default first day of this month)")
	flags.StringVar(&params.End, "end", "", "end date YYYY-MM-DD, exclusive (default today)")
	flags.StringVar(&params.Granularity, "granularity", string(model.GranularityMonthly), "DAILY or MONTHLY")
	flags.StringSliceVar(&params.GroupBy, "group-by", nil, "dimensions to group by (at most 2)")
	flags.StringSliceVar(&params.Metrics, "metrics", nil, "metrics to return (default UnblendedCost)")
	flags.StringVar(&filterDim, "filter-dimension", "", "dimension to filter on")
	flags.StringSliceVar(&filterValues, "filter-values", nil, "values of --filter-dimension to keep")
	flags.IntVar(&maxResults, "max-results", model.DefaultCostMaxResults, "maximum number of result rows")
	flags.StringVar(&params.NextPageToken, "next-page-token", "", "token from a previous result")
	flags.BoolVar(&asJSON, "json", false, "print the tool JSON instead of a table")
	return cmd
}

func newDimensionsCmd(a *app) *cobra.Command {
	var (
		params     model.DimensionQueryParams
		maxResults int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:       "dimensions DIMENSION",
		Short:     "List the values of a cost dimension",
		Args:      cobra.ExactArgs(1),
		ValidArgs: model.DimensionNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Dimension = args[0]
			if cmd.Flags().Changed("max-results") {
				params.MaxResults = &maxResults
			}

			resp, err := tools.RunDimensionValues(cmd.Context(), a.deps(), params)
			if err != nil {
				return cliError(err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintln(cmd.OutOrStdout(), utils.RenderDimensionTable(resp))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&params.TimePeriodStart, "start", "", "start date YYYY-MM-DD, inclusive (default 30 days before end)")
	flags.StringVar(&params.TimePeriodEnd, "end", "", "end date YYYY-MM-DD, exclusive (default today)")
	flags.StringVar(&params.SearchString, "search", "", "only values containing this string")
	flags.IntVar(&maxResults, "max-results", model.DefaultDimensionMaxResults, "maximum number of values")
	flags.StringVar(&params.NextPageToken, "next-page-token", "", "token from a previous result")
	flags.BoolVar(&asJSON, "json", false, "print the tool JSON instead of a table")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// version needs no config or credentials
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		PersistentPostRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", serverName, version)
		},
	}
}

// cliError turns a tool failure into the message an MCP client would see.
// Unclassified errors keep their cause since the CLI user owns the process.
func cliError(err error) error {
	if model.KindOf(err) == model.KindUnexpected {
		return err
	}
	detail := response.ConvertError(err).Error
	if detail.Code != "" {
		return fmt.Errorf("%s: %s", detail.Code, detail.Message)
	}
	return errors.New(detail.Message)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
