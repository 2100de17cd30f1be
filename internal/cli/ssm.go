package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var ssmCommand = &cobra.Command{
	Use:     "ssm",
	GroupID: "aws",
	Short:   "Read SSM Parameter Store values",
}

var ssmGetCommand = &cobra.Command{
	Use:   "get NAME...",
	Short: "Print decrypted parameter values as name=value",
	Long:  `Fetches the parameters in one call. Names that do not exist are logged and left out of the output.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, "ssm get", func(ctx context.Context) error {
			client, err := newAWSClient(ctx)
			if err != nil {
				return err
			}

			params, err := client.GetParameters(ctx, args...)
			if err != nil {
				return err
			}
			return writeParameters(cmd.OutOrStdout(), params)
		})
	},
}

func init() {
	ssmCommand.AddCommand(ssmGetCommand)
	rootCommand.AddCommand(ssmCommand)
}
