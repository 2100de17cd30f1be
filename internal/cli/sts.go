package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var assumeAccount, assumeRole string

var stsCommand = &cobra.Command{
	Use:     "sts",
	GroupID: "aws",
	Short:   "Obtain temporary credentials",
}

var stsAssumeCommand = &cobra.Command{
	Use:   "assume",
	Short: "Assume a role in another account and print shell exports",
	Long: `Assumes arn:aws:iam::<account>:role/<role> and prints the credentials as
export statements, e.g. eval "$(awsutils sts assume --account 123456789012 --role deploy)".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, "sts assume", func(ctx context.Context) error {
			client, err := newAWSClient(ctx)
			if err != nil {
				return err
			}

			creds, err := client.AssumeRole(ctx, assumeAccount, assumeRole)
			if err != nil {
				return err
			}
			logger.Info("Role assumed", "account_id", assumeAccount, "role", assumeRole, "expires", creds.Expiration)
			return writeCredentials(cmd.OutOrStdout(), creds)
		})
	},
}

func init() {
	stsAssumeCommand.Flags().StringVar(&assumeAccount, "account", "", "Account id that owns the role (required)")
	stsAssumeCommand.Flags().StringVar(&assumeRole, "role", "", "Name of the role to assume (required)")
	_ = stsAssumeCommand.MarkFlagRequired("account")
	_ = stsAssumeCommand.MarkFlagRequired("role")

	stsCommand.AddCommand(stsAssumeCommand)
	rootCommand.AddCommand(stsCommand)
}
