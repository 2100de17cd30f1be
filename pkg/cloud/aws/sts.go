package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	ststypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
)

// RoleSessionName is the session name used for every assumed role.
const RoleSessionName = "AssumedRole"

// RoleARN builds the ARN of roleName in accountID.
func RoleARN(accountID, roleName string) string {
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", accountID, roleName)
}

// AssumeRole returns temporary credentials for roleName in accountID.
func (c *Client) AssumeRole(ctx context.Context, accountID, roleName string) (*ststypes.Credentials, error) {
	out, err := throttled(ctx, c, "AssumeRole", func(ctx context.Context) (*sts.AssumeRoleOutput, error) {
		return c.STS.AssumeRole(ctx, &sts.AssumeRoleInput{
			RoleArn:         awssdk.String(RoleARN(accountID, roleName)),
			RoleSessionName: awssdk.String(RoleSessionName),
		})
	})
	if err != nil {
		return nil, err
	}
	if out.Credentials == nil {
		return nil, fmt.Errorf("assuming %s returned no credentials", RoleARN(accountID, roleName))
	}
	return out.Credentials, nil
}

// ConfigForAccount returns a copy of the client's configuration that authenticates
// as roleName in accountID. Pass it to any service's NewFromConfig.
func (c *Client) ConfigForAccount(ctx context.Context, accountID, roleName string) (awssdk.Config, error) {
	creds, err := c.AssumeRole(ctx, accountID, roleName)
	if err != nil {
		return awssdk.Config{}, err
	}

	cfg := c.Config.Copy()
	cfg.Credentials = credentials.NewStaticCredentialsProvider(
		awssdk.ToString(creds.AccessKeyId),
		awssdk.ToString(creds.SecretAccessKey),
		awssdk.ToString(creds.SessionToken),
	)
	return cfg, nil
}
