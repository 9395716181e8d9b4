package main

import (
	"fmt"
	"os"

	"github.com/elC0mpa/cost-explorer-mcp/cmd/mcp/tools"
	"github.com/elC0mpa/cost-explorer-mcp/logging"
	awsconfig "github.com/elC0mpa/cost-explorer-mcp/service/aws/config"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const serverName = "aws-cost-explorer"

// set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "cost-explorer-mcp",
		Short: "MCP server exposing AWS Cost Explorer queries",
		Long: `cost-explorer-mcp serves AWS Cost Explorer over the Model Context Protocol.

With no subcommand it speaks MCP on stdin/stdout and offers two read-only tools:
get_cost_and_usage and get_dimension_values.

Examples:
  cost-explorer-mcp --profile billing
  cost-explorer-mcp check
  cost-explorer-mcp costs --group-by SERVICE --granularity DAILY
  cost-explorer-mcp dimensions REGION --search us-`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
		RunE:              a.serve,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("region", "", "AWS region for Cost Explorer (default us-east-1)")
	flags.String("profile", "", "default AWS profile from ~/.aws/config")
	flags.Int("max-retries", awsconfig.DefaultMaxRetries, "maximum attempts per AWS request")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")
	flags.String("log-output", "", "log destination: stderr or a file path")

	for key, flag := range map[string]string{
		"region":      "region",
		"profile":     "profile",
		"max_retries": "max-retries",
		"log.level":   "log-level",
		"log.format":  "log-format",
		"log.output":  "log-output",
	} {
		// Only errors on a nil flag
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve MCP over stdio (default)",
			Args:  cobra.NoArgs,
			RunE:  a.serve,
		},
		newCheckCmd(a),
		newCostsCmd(a),
		newDimensionsCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
	}

	cfg, err := LoadConfig(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) teardown(*cobra.Command, []string) {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) deps() tools.Deps {
	return tools.Deps{
		Factory:        tools.NewAWSServiceFactory(awsconfig.NewService(a.cfg.Region, a.cfg.MaxRetries)),
		DefaultProfile: a.cfg.Profile,
		Logger:         a.logger,
	}
}

func (a *app) serve(*cobra.Command, []string) error {
	s := newMCPServer(a.deps())

	a.logger.Info("serving MCP over stdio",
		zap.String("version", version),
		zap.String("region", a.cfg.Region),
		zap.String("profile", a.cfg.Profile),
		zap.Int("max_retries", a.cfg.MaxRetries),
	)
	if err := server.ServeStdio(s); err != nil {
		a.logger.Error("server error", zap.Error(err))
		return err
	}
	return nil
}

func newMCPServer(deps tools.Deps) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	tools.RegisterAWSTools(s, deps)
	return s
}
