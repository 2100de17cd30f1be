package cli

import (
	"context"
	"fmt"
	"time"

	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/spf13/cobra"

	"github.com/amplify-education/awsutils-go/pkg/cloud/aws"
)

var (
	instanceEnvironment, instanceState string
	instanceAMIs, sourceAMIs           []string
	amiMaxAge                          time.Duration
)

var ec2Command = &cobra.Command{
	Use:     "ec2",
	GroupID: "aws",
	Short:   "Query EC2 instances and images",
}

var ec2InstancesCommand = &cobra.Command{
	Use:   "instances",
	Short: "List instances by environment tag, state and AMI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printHeader(cmd, "EC2 Instances")

		return run(cmd, "ec2 instances", func(ctx context.Context) error {
			client, err := newAWSClient(ctx)
			if err != nil {
				return err
			}

			instances, err := client.FindInstances(ctx, aws.InstanceQuery{
				AMIs:        instanceAMIs,
				Environment: instanceEnvironment,
				State:       ec2types.InstanceStateName(instanceState),
			})
			if err != nil {
				return fmt.Errorf("instance discovery failed: %w", err)
			}
			return writeInstances(cmd.OutOrStdout(), instances)
		})
	},
}

var ec2AMIsCommand = &cobra.Command{
	Use:   "amis",
	Short: "List self-owned images built from the given source AMIs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var newerThan time.Time
		if amiMaxAge > 0 {
			newerThan = time.Now().UTC().Add(-amiMaxAge)
		}

		return run(cmd, "ec2 amis", func(ctx context.Context) error {
			client, err := newAWSClient(ctx)
			if err != nil {
				return err
			}

			ids, err := client.FindAMIs(ctx, sourceAMIs, newerThan)
			if err != nil {
				return fmt.Errorf("image discovery failed: %w", err)
			}
			for _, id := range ids {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), id); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

func init() {
	ec2InstancesCommand.Flags().StringVar(&instanceEnvironment, "environment", "", "Match the 'environment' tag")
	ec2InstancesCommand.Flags().StringVar(&instanceState, "state", "", "Match the instance state, e.g. running")
	ec2InstancesCommand.Flags().StringSliceVar(&instanceAMIs, "ami", nil, "Keep only instances launched from these AMIs")

	ec2AMIsCommand.Flags().StringSliceVar(&sourceAMIs, "source-ami", nil, "Match the 'source_ami' tag")
	ec2AMIsCommand.Flags().DurationVar(&amiMaxAge, "max-age", 0, "Keep only images created within this duration (0 = any age)")

	ec2Command.AddCommand(ec2InstancesCommand, ec2AMIsCommand)
	rootCommand.AddCommand(ec2Command)
}
