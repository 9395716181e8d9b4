package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/elC0mpa/cost-explorer-mcp/cmd/mcp/tools"
)

func TestNewMCPServerRegistersTools(t *testing.T) {
	s := newMCPServer(tools.Deps{})
	registered := s.ListTools()
	if len(registered) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(registered))
	}
	for _, name := range []string{tools.ToolGetCostAndUsage, tools.ToolGetDimensionValues} {
		tool, ok := registered[name]
		if !ok {
			t.Fatalf("expected tool %q", name)
		}
		if tool.Tool.Annotations.ReadOnlyHint == nil || !*tool.Tool.Annotations.ReadOnlyHint {
			t.Errorf("%s must be annotated read-only", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "aws-cost-explorer version") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestQueryCommandsValidateBeforeAWS(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"dimensions", "AVAILABILITY_ZONE"}, "unknown dimension"},
		{[]string{"costs", "--group-by", "SERVICE,REGION,OPERATION"}, "at most 2"},
		{[]string{"costs", "--start", "2024-02-01", "--end", "2024-01-01"}, "end must be after start"},
		{[]string{"costs", "--max-results", "0"}, "max_results"},
	}
	for _, tc := range cases {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			clearEnv(t)
			root := newRootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(tc.args)

			err := root.Execute()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
