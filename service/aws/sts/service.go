package awssts

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/elC0mpa/cost-explorer-mcp/model"
)

func NewService(awsconfig aws.Config) *service {
	return NewServiceWithClient(sts.NewFromConfig(awsconfig))
}

func NewServiceWithClient(client API) *service {
	return &service{
		client: client,
	}
}

// GetAccountInfo implements service.IdentityService
func (s *service) GetAccountInfo(ctx context.Context) (*model.AccountInfo, error) {
	output, err := s.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, err
	}

	return &model.AccountInfo{
		Provider:    "aws",
		AccountID:   aws.ToString(output.Account),
		AccountName: aws.ToString(output.Arn),
		UserID:      aws.ToString(output.UserId),
	}, nil
}
