package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	AwsutilsVersion, AwsutilsCommit, AwsutilsDate string
)

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Display version, commit hash and build date",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "awsutils version: %s\n", AwsutilsVersion)
		fmt.Fprintf(out, "Commit: %s\n", AwsutilsCommit)
		fmt.Fprintf(out, "Built: %s\n", AwsutilsDate)
	},
}

func init() {
	rootCommand.AddCommand(versionCommand)
}
