package main

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"github.com/evanofslack/route53-restore/internal/restore"
)

func runLambda(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	slog.Info("Starting lambda handler")
	// Start never returns, resources are released when the runtime shuts down.
	lambda.StartWithOptions(a.handle, lambda.WithEnableSIGTERM(a.Close))
	return nil
}

func (a *app) handle(ctx context.Context, event restore.Event) (string, error) {
	results, err := a.performRestore(ctx, event)
	if err != nil {
		return "", err
	}
	return results.Status(), nil
}
