package awssts

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// API is the subset of the STS client used to confirm which identity a profile resolves to.
type API interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type service struct {
	client API
}
