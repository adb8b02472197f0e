package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evanofslack/route53-restore/internal/journal"
	"github.com/evanofslack/route53-restore/internal/metrics"
)

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.JournalPath == "" {
		return fmt.Errorf("journalPath is not configured")
	}

	j, err := journal.Open(cfg.JournalPath, metrics.New(false))
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list journal: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}
