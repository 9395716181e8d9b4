package awscostexplorer

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
)

// API is the subset of the Cost Explorer client this package calls.
type API interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
	GetDimensionValues(ctx context.Context, params *costexplorer.GetDimensionValuesInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetDimensionValuesOutput, error)
}

type service struct {
	client API
}
