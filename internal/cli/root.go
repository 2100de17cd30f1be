package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amplify-education/awsutils-go/pkg/cloud"
	"github.com/amplify-education/awsutils-go/pkg/cloud/aws"
)

// logger is set up for every command except version and help.
var logger = slog.Default()

var rootCommand = &cobra.Command{
	Use:           "awsutils",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Allow 'version' and 'help' to run without touching the environment
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		// Variables from the env file are visible to viper and the AWS SDK alike
		if envFile := viper.GetString("env-file"); envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("loading env file %s: %w", envFile, err)
			}
		}

		runID := fmt.Sprintf("req-%s", uuid.New().String())
		logger = setupLogger(os.Stderr, viper.GetString("log-level")).With("awsutils_id", runID)
		return nil
	},
	Short: "awsutils: AWS and Spotinst helpers with throttling-aware retries",
	Long: `awsutils exposes the operations of the awsutils-go library from the command line.
Every call is retried with jittered backoff while the provider reports throttling,
so the commands are safe to run against busy accounts.`,
}

func Execute() error {
	return rootCommand.Execute()
}

// run executes fn under the global timeout and reports any failure, panics included,
// as a single logged error.
func run(cmd *cobra.Command, operation string, fn func(ctx context.Context) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if timeout := viper.GetInt("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
		logger.Debug("Global timeout configured", "timeout_seconds", timeout)
	}

	return cloud.CatchAll(ctx, logger, operation, fn)
}

// newAWSClient connects to AWS with the region and profile from flags or environment.
func newAWSClient(ctx context.Context) (*aws.Client, error) {
	client := &aws.Client{
		Region:  viper.GetString("region"),
		Profile: viper.GetString("profile"),
		Logger:  logger,
	}

	logger.Debug("Attempting to connect to AWS", "region", client.Region, "profile", client.Profile)
	if err := client.NewClient(ctx); err != nil {
		return nil, fmt.Errorf("client initialization failed: %w", err)
	}
	return client, nil
}

func init() {
	rootCommand.AddGroup(&cobra.Group{ID: "aws", Title: "AWS"})
	rootCommand.AddGroup(&cobra.Group{ID: "spotinst", Title: "Spotinst"})

	// Global persistent flags with env vars support
	flags := rootCommand.PersistentFlags()
	flags.String("region", "", "AWS region (defaults to the SDK's resolution chain)")
	flags.String("profile", "", "Named profile from the shared AWS config files")
	flags.Int("timeout", 0, "Global execution timeout in seconds (0 = run indefinitely)")
	flags.String("log-level", "info", "Logging level (debug, info, warn, error)")
	flags.String("env-file", "", "Load environment variables from this file first")

	for _, name := range []string{"region", "profile", "timeout", "log-level", "env-file"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	viper.SetEnvPrefix("AWSUTILS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
