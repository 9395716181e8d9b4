package awsconfig

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/elC0mpa/cost-explorer-mcp/model"
)

type loadFunc func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error)

// NewService returns a factory that builds a fresh aws.Config on every call,
// so credentials are never shared between profiles.
func NewService(region string, maxRetries int) *service {
	region = strings.TrimSpace(region)
	if region == "" {
		region = DefaultRegion
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &service{
		region:     region,
		maxRetries: maxRetries,
		load:       config.LoadDefaultConfig,
	}
}

// GetAWSCfg loads the shared config for profile (or the default chain when
// profile is empty) and resolves credentials once, so a missing profile or an
// empty chain surfaces as a CredentialsError before any API call is made.
func (s *service) GetAWSCfg(ctx context.Context, profile string) (aws.Config, error) {
	profile = strings.TrimSpace(profile)

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(s.region),
		config.WithRetryMode(aws.RetryModeStandard),
		config.WithRetryMaxAttempts(s.maxRetries),
		config.WithAppID(AppID),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := s.load(ctx, opts...)
	if err != nil {
		return aws.Config{}, &model.CredentialsError{Profile: profile, Err: err}
	}

	if cfg.Credentials == nil {
		return aws.Config{}, &model.CredentialsError{Profile: profile, Err: errors.New("no credential provider configured")}
	}
	creds, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		return aws.Config{}, &model.CredentialsError{Profile: profile, Err: err}
	}
	if !creds.HasKeys() {
		return aws.Config{}, &model.CredentialsError{Profile: profile, Err: errors.New("resolved credentials are empty")}
	}

	return cfg, nil
}
