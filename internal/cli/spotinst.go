package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amplify-education/awsutils-go/pkg/cloud/spotinst"
)

var spotinstCommand = &cobra.Command{
	Use:     "spotinst",
	GroupID: "spotinst",
	Short:   "Inspect Spotinst Elastigroups",
	Long: `Reads Elastigroups through the Spotinst API. Rate-limited requests are retried
with at least a minute between attempts for up to five minutes.`,
}

var spotinstGroupsCommand = &cobra.Command{
	Use:   "groups",
	Short: "List every Elastigroup in the account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printHeader(cmd, "Elastigroups")

		return run(cmd, "spotinst groups", func(ctx context.Context) error {
			client, err := newSpotinstClient()
			if err != nil {
				return err
			}

			groups, err := client.GetGroups(ctx)
			if err != nil {
				return err
			}
			return writeItems(cmd.OutOrStdout(), groups, "id", "name", "region", "updatedAt")
		})
	},
}

var spotinstDeploymentsCommand = &cobra.Command{
	Use:   "deployments GROUP_ID",
	Short: "List the blue/green deployments of a group, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printHeader(cmd, "Deployments")

		return run(cmd, "spotinst deployments", func(ctx context.Context) error {
			client, err := newSpotinstClient()
			if err != nil {
				return err
			}

			deployments, err := client.GetDeployments(ctx, args[0])
			if err != nil {
				return err
			}
			return writeItems(cmd.OutOrStdout(), deployments, "id", "status", "createdAt", "updatedAt")
		})
	},
}

func newSpotinstClient() (*spotinst.Client, error) {
	token := viper.GetString("spotinst-token")
	if token == "" {
		return nil, errors.New("required flag(s) \"spotinst-token\" not set")
	}

	client := spotinst.NewClient(token, viper.GetString("spotinst-account"))
	if baseURL := viper.GetString("spotinst-url"); baseURL != "" {
		client.BaseURL = baseURL
	}
	client.Logger = logger
	return client, nil
}

func init() {
	flags := spotinstCommand.PersistentFlags()
	flags.String("spotinst-token", "", "Spotinst API token")
	flags.String("spotinst-account", "", "Spotinst account id")
	flags.String("spotinst-url", spotinst.DefaultBaseURL, "Spotinst API endpoint")

	for _, name := range []string{"spotinst-token", "spotinst-account", "spotinst-url"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	spotinstCommand.AddCommand(spotinstGroupsCommand, spotinstDeploymentsCommand)
	rootCommand.AddCommand(spotinstCommand)
}
