package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/elC0mpa/cost-explorer-mcp/cmd/mcp/response"
	"github.com/elC0mpa/cost-explorer-mcp/model"
	"github.com/elC0mpa/cost-explorer-mcp/service"
	awsconfig "github.com/elC0mpa/cost-explorer-mcp/service/aws/config"
	awscostexplorer "github.com/elC0mpa/cost-explorer-mcp/service/aws/costexplorer"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	ToolGetCostAndUsage    = "get_cost_and_usage"
	ToolGetDimensionValues = "get_dimension_values"
)

// ServiceFactory returns a CostService bound to profile, or the default
// credential chain when profile is empty.
type ServiceFactory func(ctx context.Context, profile string) (service.CostService, error)

// NewAWSServiceFactory builds a fresh Cost Explorer client per call.
func NewAWSServiceFactory(configSvc awsconfig.ConfigService) ServiceFactory {
	return func(ctx context.Context, profile string) (service.CostService, error) {
		awsCfg, err := configSvc.GetAWSCfg(ctx, profile)
		if err != nil {
			return nil, err
		}
		return awscostexplorer.NewService(awsCfg), nil
	}
}

// Deps carries what the tool handlers need. Handlers hold no other state.
type Deps struct {
	Factory        ServiceFactory
	DefaultProfile string
	Logger         *zap.Logger
	Now            func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) logger() *zap.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return zap.NewNop()
}

func (d Deps) profile(requested string) string {
	if requested != "" {
		return requested
	}
	return d.DefaultProfile
}

// RegisterAWSTools registers the Cost Explorer tools with the MCP server
func RegisterAWSTools(s *server.MCPServer, deps Deps) {
	s.AddTools(
		server.ServerTool{Tool: costAndUsageTool(), Handler: makeCostAndUsageHandler(deps)},
		server.ServerTool{Tool: dimensionValuesTool(), Handler: makeDimensionValuesHandler(deps)},
	)
}

func costAndUsageTool() mcp.Tool {
	return mcp.NewTool(ToolGetCostAndUsage,
		mcp.WithDescription("Get AWS costs for a time period, optionally grouped by up to two dimensions. Dates are YYYY-MM-DD; start is inclusive, end is exclusive. Defaults to the current month to date."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("start",
			mcp.Description("Start date (YYYY-MM-DD, inclusive). Defaults to the first day of the current month."),
		),
		mcp.WithString("end",
			mcp.Description("End date (YYYY-MM-DD, exclusive). Defaults to today."),
		),
		mcp.WithString("granularity",
			mcp.Description("Time bucketing of the results."),
			mcp.Enum(string(model.GranularityDaily), string(model.GranularityMonthly)),
			mcp.DefaultString(string(model.GranularityMonthly)),
		),
		mcp.WithArray("group_by",
			mcp.Description("Dimensions to group by (at most 2)."),
			mcp.MaxItems(model.MaxGroupBy),
			mcp.Items(map[string]any{"type": "string", "enum": model.DimensionNames()}),
		),
		mcp.WithArray("metrics",
			mcp.Description("Cost metrics to return. Defaults to [UnblendedCost]."),
			mcp.MinItems(1),
			mcp.Items(map[string]any{"type": "string", "enum": model.MetricNames()}),
		),
		mcp.WithObject("filter_config",
			mcp.Description("Restrict costs to the listed values of one dimension."),
			mcp.Properties(map[string]any{
				"dimension": map[string]any{"type": "string", "enum": model.DimensionNames()},
				"values":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 1},
			}),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of result records to return."),
			mcp.Min(1),
			mcp.Max(model.MaxCostMaxResults),
			mcp.DefaultNumber(model.DefaultCostMaxResults),
		),
		mcp.WithString("next_page_token",
			mcp.Description("Token from a previous response to fetch the next page."),
		),
		mcp.WithString("profile",
			mcp.Description("AWS profile name from ~/.aws/config. Defaults to the server profile or the default credential chain."),
		),
	)
}

func dimensionValuesTool() mcp.Tool {
	return mcp.NewTool(ToolGetDimensionValues,
		mcp.WithDescription("Get available values for a Cost Explorer dimension, optionally filtered by a search string. Defaults to the last 30 days."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("dimension",
			mcp.Required(),
			mcp.Description("Dimension to list values for."),
			mcp.Enum(model.DimensionNames()...),
		),
		mcp.WithString("time_period_start",
			mcp.Description("Start date (YYYY-MM-DD, inclusive)."),
		),
		mcp.WithString("time_period_end",
			mcp.Description("End date (YYYY-MM-DD, exclusive)."),
		),
		mcp.WithString("search_string",
			mcp.Description("Only return values containing this string."),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of values to return."),
			mcp.Min(1),
			mcp.Max(model.MaxDimensionMaxResults),
			mcp.DefaultNumber(model.DefaultDimensionMaxResults),
		),
		mcp.WithString("next_page_token",
			mcp.Description("Token from a previous response to fetch the next page."),
		),
		mcp.WithString("profile",
			mcp.Description("AWS profile name from ~/.aws/config. Defaults to the server profile or the default credential chain."),
		),
	)
}

func makeCostAndUsageHandler(deps Deps) server.ToolHandlerFunc {
	return guard(ToolGetCostAndUsage, deps, func(ctx context.Context, args arguments) (any, string, error) {
		params, err := decodeCostQueryParams(args)
		if err != nil {
			return nil, deps.profile(params.Profile), err
		}
		resp, err := RunCostAndUsage(ctx, deps, params)
		return resp, deps.profile(params.Profile), err
	})
}

func makeDimensionValuesHandler(deps Deps) server.ToolHandlerFunc {
	return guard(ToolGetDimensionValues, deps, func(ctx context.Context, args arguments) (any, string, error) {
		params, err := decodeDimensionQueryParams(args)
		if err != nil {
			return nil, deps.profile(params.Profile), err
		}
		resp, err := RunDimensionValues(ctx, deps, params)
		return resp, deps.profile(params.Profile), err
	})
}

// RunCostAndUsage validates params, resolves a client and runs the query.
// AWS is never contacted when validation fails.
func RunCostAndUsage(ctx context.Context, deps Deps, params model.CostQueryParams) (*response.CostAndUsage, error) {
	params.Profile = deps.profile(params.Profile)
	q, err := params.Validate(deps.now())
	if err != nil {
		return nil, err
	}
	svc, err := resolveService(ctx, deps, q.Profile)
	if err != nil {
		return nil, err
	}
	result, err := svc.GetCostAndUsage(ctx, q)
	if err != nil {
		return nil, attachProfile(err, q.Profile)
	}
	return response.ConvertCostResult(q, result), nil
}

// RunDimensionValues validates params, resolves a client and lists the values.
func RunDimensionValues(ctx context.Context, deps Deps, params model.DimensionQueryParams) (*response.DimensionValues, error) {
	params.Profile = deps.profile(params.Profile)
	q, err := params.Validate(deps.now())
	if err != nil {
		return nil, err
	}
	svc, err := resolveService(ctx, deps, q.Profile)
	if err != nil {
		return nil, err
	}
	result, err := svc.GetDimensionValues(ctx, q)
	if err != nil {
		return nil, attachProfile(err, q.Profile)
	}
	return response.ConvertDimensionResult(q, result), nil
}

func resolveService(ctx context.Context, deps Deps, profile string) (service.CostService, error) {
	if deps.Factory == nil {
		return nil, &model.UnexpectedError{Err: errors.New("cost explorer client factory not configured")}
	}
	svc, err := deps.Factory(ctx, profile)
	if err != nil {
		return nil, attachProfile(err, profile)
	}
	return svc, nil
}

func attachProfile(err error, profile string) error {
	var credErr *model.CredentialsError
	if errors.As(err, &credErr) && credErr.Profile == "" {
		credErr.Profile = profile
	}
	return err
}

func decodeCostQueryParams(args arguments) (model.CostQueryParams, error) {
	var (
		p   model.CostQueryParams
		err error
	)
	if p.Profile, err = args.getString("profile"); err != nil {
		return p, err
	}
	if err = args.rejectUnknown("start", "end", "granularity", "group_by", "metrics", "filter_config", "max_results", "next_page_token", "profile"); err != nil {
		return p, err
	}
	if p.Start, err = args.getString("start"); err != nil {
		return p, err
	}
	if p.End, err = args.getString("end"); err != nil {
		return p, err
	}
	if p.Granularity, err = args.getString("granularity"); err != nil {
		return p, err
	}
	if p.GroupBy, err = args.getStringList("group_by"); err != nil {
		return p, err
	}
	if p.Metrics, err = args.getStringList("metrics"); err != nil {
		return p, err
	}
	if p.Filter, err = args.getFilter("filter_config"); err != nil {
		return p, err
	}
	if p.MaxResults, err = args.getInt("max_results"); err != nil {
		return p, err
	}
	if p.NextPageToken, err = args.getString("next_page_token"); err != nil {
		return p, err
	}
	return p, nil
}

func decodeDimensionQueryParams(args arguments) (model.DimensionQueryParams, error) {
	var (
		p   model.DimensionQueryParams
		err error
	)
	if p.Profile, err = args.getString("profile"); err != nil {
		return p, err
	}
	if err = args.rejectUnknown("dimension", "time_period_start", "time_period_end", "search_string", "max_results", "next_page_token", "profile"); err != nil {
		return p, err
	}
	if p.Dimension, err = args.getString("dimension"); err != nil {
		return p, err
	}
	if p.TimePeriodStart, err = args.getString("time_period_start"); err != nil {
		return p, err
	}
	if p.TimePeriodEnd, err = args.getString("time_period_end"); err != nil {
		return p, err
	}
	if p.SearchString, err = args.getString("search_string"); err != nil {
		return p, err
	}
	if p.MaxResults, err = args.getInt("max_results"); err != nil {
		return p, err
	}
	if p.NextPageToken, err = args.getString("next_page_token"); err != nil {
		return p, err
	}
	return p, nil
}

type toolFunc func(ctx context.Context, args arguments) (resp any, profile string, err error)

// guard turns every outcome of fn, panics included, into a tool result.
// The returned Go error is always nil so a failed call never tears down the session.
func guard(name string, deps Deps, fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, _ error) {
		log := deps.logger().With(zap.String("tool", name))
		started := deps.now()

		defer func() {
			if r := recover(); r != nil {
				err := &model.UnexpectedError{Err: fmt.Errorf("panic: %v", r)}
				log.Error("tool handler panicked", zap.Error(err), zap.Stack("stack"))
				result = errorResult(err)
			}
		}()

		resp, profile, err := fn(ctx, arguments(request.GetArguments()))
		log = log.With(zap.String("profile", profile), zap.Duration("duration", deps.now().Sub(started)))
		if err != nil {
			kind := model.KindOf(err)
			if kind == model.KindUnexpected {
				log.Error("tool call failed", zap.String("kind", string(kind)), zap.Error(err))
			} else {
				log.Info("tool call rejected", zap.String("kind", string(kind)), zap.Error(err))
			}
			return errorResult(err), nil
		}

		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			log.Error("failed to encode tool result", zap.Error(err))
			return errorResult(&model.UnexpectedError{Err: err}), nil
		}
		log.Debug("tool call completed")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func errorResult(err error) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(response.ConvertError(err), "", "  ")
	return mcp.NewToolResultError(string(data))
}
