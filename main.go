package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evanofslack/route53-restore/internal/config"
	"github.com/evanofslack/route53-restore/internal/logger"
)

var (
	configPath string
	backupTime string
	dryRun     bool

	rootCmd = &cobra.Command{
		Use:           "route53-restore",
		Short:         "Restore Route 53 hosted zones, records and health checks from a backup",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDefault,
	}

	restoreCmd = &cobra.Command{
		Use:   "restore",
		Short: "Restore a backup once and exit",
		RunE:  runRestore,
	}

	lambdaCmd = &cobra.Command{
		Use:   "lambda",
		Short: "Serve restore requests as an AWS Lambda handler",
		RunE:  runLambda,
	}

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "List restore runs recorded in the local journal",
		RunE:  runHistory,
	}
)

func init() {
	defaultConfig := "config.yaml"
	if p := os.Getenv("ROUTE53_RESTORE_CONFIG"); p != "" {
		defaultConfig = p
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfig, "path to config file")

	restoreCmd.Flags().StringVar(&backupTime, "backup-time", "", "backup to restore, defaults to the latest backup")
	restoreCmd.Flags().BoolVar(&dryRun, "dry-run", false, "plan the restore without changing anything")

	rootCmd.AddCommand(restoreCmd, lambdaCmd, historyCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// serveLambda is swapped in tests.
var serveLambda = runLambda

// runDefault serves Lambda when the runtime starts the binary with no subcommand.
func runDefault(cmd *cobra.Command, args []string) error {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		return serveLambda(cmd, args)
	}
	return cmd.Help()
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.Restore.DryRun = dryRun
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Env)
	return cfg, nil
}
