package service

import (
	"context"

	"github.com/elC0mpa/cost-explorer-mcp/model"
)

// IdentityService provides cloud account identity information
type IdentityService interface {
	GetAccountInfo(ctx context.Context) (*model.AccountInfo, error)
}

// CostService runs validated Cost Explorer queries
type CostService interface {
	GetCostAndUsage(ctx context.Context, q model.CostQuery) (*model.CostResult, error)
	GetDimensionValues(ctx context.Context, q model.DimensionQuery) (*model.DimensionResult, error)
}
