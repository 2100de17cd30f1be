package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amplify-education/awsutils-go/pkg/cloud/aws"
)

var waitForObject bool

var s3Command = &cobra.Command{
	Use:     "s3",
	GroupID: "aws",
	Short:   "Read objects from S3",
}

var s3ListCommand = &cobra.Command{
	Use:   "ls s3://BUCKET[/PREFIX]",
	Short: "List every object under a prefix",
	Long:  `Lists all objects under the prefix, following continuation tokens until the listing is complete.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		location, err := aws.ParseS3URI(args[0])
		if err != nil {
			return err
		}
		printHeader(cmd, "S3 Listing")

		return run(cmd, "s3 ls", func(ctx context.Context) error {
			client, err := newAWSClient(ctx)
			if err != nil {
				return err
			}

			objects, err := client.ListObjects(ctx, location.Bucket, location.Key)
			if err != nil {
				return fmt.Errorf("listing %s failed: %w", location, err)
			}
			logger.Info("Listing completed", "bucket", location.Bucket, "object_count", len(objects))
			return writeObjects(cmd.OutOrStdout(), location.Bucket, objects)
		})
	},
}

var s3CatCommand = &cobra.Command{
	Use:   "cat s3://BUCKET/KEY",
	Short: "Stream an object to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		location, err := aws.ParseS3URI(args[0])
		if err != nil {
			return err
		}

		return run(cmd, "s3 cat", func(ctx context.Context) error {
			client, err := newAWSClient(ctx)
			if err != nil {
				return err
			}
			return client.DownloadFile(ctx, location.Bucket, location.Key, cmd.OutOrStdout(), waitForObject)
		})
	},
}

var s3HashCommand = &cobra.Command{
	Use:   "hash s3://BUCKET/KEY",
	Short: "Print the SHA-256 digest of an object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		location, err := aws.ParseS3URI(args[0])
		if err != nil {
			return err
		}

		return run(cmd, "s3 hash", func(ctx context.Context) error {
			client, err := newAWSClient(ctx)
			if err != nil {
				return err
			}

			digest, err := client.HashFile(ctx, location.Bucket, location.Key)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", digest, location)
			return err
		})
	},
}

func init() {
	s3CatCommand.Flags().BoolVar(&waitForObject, "wait", false, "Wait up to 100 seconds for the object to exist")

	s3Command.AddCommand(s3ListCommand, s3CatCommand, s3HashCommand)
	rootCommand.AddCommand(s3Command)
}
