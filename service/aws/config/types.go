package awsconfig

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

const (
	// DefaultRegion is where Cost Explorer is served from.
	DefaultRegion     = "us-east-1"
	DefaultMaxRetries = 10
	AppID             = "mcp-aws-cost-explorer"
)

type service struct {
	region     string
	maxRetries int
	load       loadFunc
}

// ConfigService resolves an aws.Config bound to a credential profile.
type ConfigService interface {
	GetAWSCfg(ctx context.Context, profile string) (aws.Config, error)
}
