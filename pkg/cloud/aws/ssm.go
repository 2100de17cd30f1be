package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// GetParameter returns the decrypted value of a single parameter.
func (c *Client) GetParameter(ctx context.Context, name string) (string, error) {
	out, err := throttled(ctx, c, "GetParameter", func(ctx context.Context) (*ssm.GetParameterOutput, error) {
		return c.SSM.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           awssdk.String(name),
			WithDecryption: awssdk.Bool(true),
		})
	})
	if err != nil {
		return "", err
	}
	if out.Parameter == nil {
		return "", nil
	}
	return awssdk.ToString(out.Parameter.Value), nil
}

// GetParameters returns the decrypted values of names keyed by parameter name.
// Names that do not exist are absent from the result.
func (c *Client) GetParameters(ctx context.Context, names ...string) (map[string]string, error) {
	out, err := throttled(ctx, c, "GetParameters", func(ctx context.Context) (*ssm.GetParametersOutput, error) {
		return c.SSM.GetParameters(ctx, &ssm.GetParametersInput{
			Names:          names,
			WithDecryption: awssdk.Bool(true),
		})
	})
	if err != nil {
		return nil, err
	}

	if len(out.InvalidParameters) > 0 {
		c.logger().Warn("Parameters not found", "names", out.InvalidParameters)
	}

	values := make(map[string]string, len(out.Parameters))
	for _, p := range out.Parameters {
		values[awssdk.ToString(p.Name)] = awssdk.ToString(p.Value)
	}
	return values, nil
}
