package aws

import (
	"context"
	"fmt"
	"slices"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/configservice"
	configtypes "github.com/aws/aws-sdk-go-v2/service/configservice/types"
)

// EvaluationBatchSize is the most evaluations PutEvaluations accepts per call.
const EvaluationBatchSize = 100

// PutEvaluations submits evaluations for resultToken in batches of EvaluationBatchSize.
func (c *Client) PutEvaluations(ctx context.Context, resultToken string, evaluations []configtypes.Evaluation) error {
	for batch := range slices.Chunk(evaluations, EvaluationBatchSize) {
		summary := make([]string, 0, len(batch))
		for _, e := range batch {
			summary = append(summary, fmt.Sprintf("%s:%s", awssdk.ToString(e.ComplianceResourceId), e.ComplianceType))
		}
		c.logger().Info("Submitting evaluations", "evaluations", summary)

		_, err := throttled(ctx, c, "PutEvaluations", func(ctx context.Context) (*configservice.PutEvaluationsOutput, error) {
			return c.ConfigService.PutEvaluations(ctx, &configservice.PutEvaluationsInput{
				ResultToken: awssdk.String(resultToken),
				Evaluations: batch,
			})
		})
		if err != nil {
			return err
		}
	}
	return nil
}
