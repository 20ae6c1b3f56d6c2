// Package secrets resolves credentials from the environment or from AWS
// Secrets Manager, behind the [driven.SecretResolver] port.
package secrets

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driven"
)

// Ensure both resolvers implement the SecretResolver interface.
var (
	_ driven.SecretResolver = (*EnvResolver)(nil)
	_ driven.SecretResolver = (*ManagerResolver)(nil)
)

// EnvResolver resolves secrets from environment variables.
type EnvResolver struct{}

// NewEnvResolver creates an environment-backed resolver.
func NewEnvResolver() *EnvResolver {
	return &EnvResolver{}
}

// Resolve returns the value of the named environment variable.
func (r *EnvResolver) Resolve(_ context.Context, name string) (string, error) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("environment variable %s is not set", name)
	}
	return value, nil
}

// secretsManagerAPI is the slice of the Secrets Manager client we use.
type secretsManagerAPI interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// ManagerResolver resolves secrets from AWS Secrets Manager.
type ManagerResolver struct {
	client secretsManagerAPI
}

// NewManagerResolver creates a Secrets Manager resolver for the given region.
func NewManagerResolver(ctx context.Context, region string) (*ManagerResolver, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &ManagerResolver{client: secretsmanager.NewFromConfig(cfg)}, nil
}

// NewManagerResolverWithClient creates a resolver around an existing client.
// Useful for testing.
func NewManagerResolverWithClient(client secretsManagerAPI) *ManagerResolver {
	return &ManagerResolver{client: client}
}

// Resolve fetches the named secret's string value.
func (r *ManagerResolver) Resolve(ctx context.Context, name string) (string, error) {
	out, err := r.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("get secret value: %w", err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}
	return *out.SecretString, nil
}
