package awsconfig

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/elC0mpa/cost-explorer-mcp/model"
)

// isolateSharedConfig points the SDK at temp files and clears ambient credentials.
func isolateSharedConfig(t *testing.T, credentials string) {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config")
	credsPath := filepath.Join(dir, "credentials")
	if err := os.WriteFile(configPath, []byte(""), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(credsPath, []byte(credentials), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}
	t.Setenv("AWS_CONFIG_FILE", configPath)
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", credsPath)
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_DEFAULT_PROFILE", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("AWS_SESSION_TOKEN", "")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
}

func TestGetAWSCfgMissingProfile(t *testing.T) {
	isolateSharedConfig(t, "")

	_, err := NewService("", 0).GetAWSCfg(context.Background(), "ghost")
	var credErr *model.CredentialsError
	if !errors.As(err, &credErr) {
		t.Fatalf("expected CredentialsError, got %v", err)
	}
	if credErr.Profile != "ghost" {
		t.Fatalf("expected profile ghost, got %q", credErr.Profile)
	}
}

func TestGetAWSCfgProfileFromSharedCredentials(t *testing.T) {
	isolateSharedConfig(t, "[billing]\naws_access_key_id = AKIDBILLING\naws_secret_access_key = secret\n")

	cfg, err := NewService("", 0).GetAWSCfg(context.Background(), "billing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Region != DefaultRegion {
		t.Fatalf("expected region %s, got %s", DefaultRegion, cfg.Region)
	}
	creds, err := cfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if creds.AccessKeyID != "AKIDBILLING" {
		t.Fatalf("expected billing profile keys, got %q", creds.AccessKeyID)
	}
}

func TestGetAWSCfgEmptyDefaultChain(t *testing.T) {
	isolateSharedConfig(t, "")

	_, err := NewService("", 0).GetAWSCfg(context.Background(), "")
	if model.KindOf(err) != model.KindCredentials {
		t.Fatalf("expected CredentialsError, got %v", err)
	}
}

func TestGetAWSCfgLoadOptions(t *testing.T) {
	var got config.LoadOptions
	svc := NewService("eu-west-1", 3)
	svc.load = func(_ context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		for _, fn := range optFns {
			if err := fn(&got); err != nil {
				return aws.Config{}, err
			}
		}
		return aws.Config{
			Region:      got.Region,
			Credentials: aws.NewCredentialsCache(staticProvider{}),
		}, nil
	}

	if _, err := svc.GetAWSCfg(context.Background(), " finance "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Region != "eu-west-1" {
		t.Fatalf("expected region eu-west-1, got %s", got.Region)
	}
	if got.RetryMaxAttempts != 3 {
		t.Fatalf("expected 3 retry attempts, got %d", got.RetryMaxAttempts)
	}
	if got.RetryMode != aws.RetryModeStandard {
		t.Fatalf("expected standard retry mode, got %s", got.RetryMode)
	}
	if got.AppID != AppID {
		t.Fatalf("expected app id %s, got %s", AppID, got.AppID)
	}
	if got.SharedConfigProfile != "finance" {
		t.Fatalf("expected trimmed profile finance, got %q", got.SharedConfigProfile)
	}
}

func TestGetAWSCfgAnonymousCredentialsRejected(t *testing.T) {
	svc := NewService("", 0)
	svc.load = func(context.Context, ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Credentials: aws.AnonymousCredentials{}}, nil
	}
	_, err := svc.GetAWSCfg(context.Background(), "")
	if model.KindOf(err) != model.KindCredentials {
		t.Fatalf("expected CredentialsError, got %v", err)
	}
}

type staticProvider struct{}

func (staticProvider) Retrieve(context.Context) (aws.Credentials, error) {
	return aws.Credentials{AccessKeyID: "AKID", SecretAccessKey: "secret", Source: "test"}, nil
}
