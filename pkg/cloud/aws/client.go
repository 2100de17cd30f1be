// Package aws wraps S3, EC2, SSM Parameter Store, AWS Config and STS calls with
// pagination, tag normalisation and retries on throttling.
package aws

import (
	"context"
	"fmt"
	"log/slog"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/configservice"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/amplify-education/awsutils-go/pkg/retry"
)

// Client manages the AWS configuration and service clients used by the wrappers.
// Every SDK call goes through the retry engine with the client's Policy.
type Client struct {
	// Region overrides the region from the environment or shared config.
	Region string
	// Profile selects a named profile from the shared config files.
	Profile string
	// Policy controls retries. The zero value retries throttling for five minutes.
	Policy retry.Policy
	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Config is the resolved SDK configuration, set by NewClient.
	Config awssdk.Config

	// Service clients. NewClient fills any that are nil, so tests can inject fakes.
	S3            S3API
	EC2           EC2API
	SSM           SSMAPI
	ConfigService ConfigServiceAPI
	STS           STSAPI
}

// GetCloudProviderName returns the identifier for this provider.
func (c *Client) GetCloudProviderName() string {
	return "aws"
}

// NewClient resolves the SDK configuration for Region and Profile and initializes
// the service clients.
func (c *Client) NewClient(ctx context.Context) error {
	c.logger().Debug("Initializing AWS client", "region", c.Region, "profile", c.Profile)

	var opts []func(*config.LoadOptions) error
	if c.Region != "" {
		opts = append(opts, config.WithRegion(c.Region))
	}
	if c.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(c.Profile))
	}

	cfg, err := retry.Do(ctx, c.policy(), "LoadDefaultConfig", func(ctx context.Context) (awssdk.Config, error) {
		return config.LoadDefaultConfig(ctx, opts...)
	})
	if err != nil {
		return fmt.Errorf("failed to load AWS config for profile '%s': %w", c.Profile, err)
	}

	c.UseConfig(cfg)
	return nil
}

// UseConfig installs cfg and creates any service client that is not already set.
func (c *Client) UseConfig(cfg awssdk.Config) {
	c.Config = cfg
	if c.Region == "" {
		c.Region = cfg.Region
	}

	if c.S3 == nil {
		c.S3 = s3.NewFromConfig(cfg)
	}
	if c.EC2 == nil {
		c.EC2 = ec2.NewFromConfig(cfg)
	}
	if c.SSM == nil {
		c.SSM = ssm.NewFromConfig(cfg)
	}
	if c.ConfigService == nil {
		c.ConfigService = configservice.NewFromConfig(cfg)
	}
	if c.STS == nil {
		c.STS = sts.NewFromConfig(cfg)
	}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// policy fills the unset parts of c.Policy with the throttling preset.
func (c *Client) policy() retry.Policy {
	p := c.Policy
	if p.Classifier == nil {
		p.Classifier = retry.Throttling
	}
	if p.Budget <= 0 {
		p.Budget = retry.DefaultBudget
	}
	if p.Logger == nil {
		p.Logger = c.logger()
	}
	return p
}

// throttled runs a single SDK call through the client's retry policy.
func throttled[T any](ctx context.Context, c *Client, name string, call func(ctx context.Context) (T, error)) (T, error) {
	return retry.Do(ctx, c.policy(), name, call)
}
