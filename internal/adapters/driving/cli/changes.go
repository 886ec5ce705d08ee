package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	changesSince string
	changesJSON  bool
)

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "List recently indexed changes",
	Long: `Lists documents whose indexed state changed at or after the given
time, derived from replica timestamps. Deleted documents appear with a
deleted marker.`,
	RunE: runChanges,
}

func init() {
	changesCmd.Flags().StringVar(&changesSince, "since", "", "threshold time (RFC 3339, default 24h ago)")
	changesCmd.Flags().BoolVar(&changesJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(changesCmd)
}

func runChanges(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	since := time.Now().Add(-24 * time.Hour)
	if changesSince != "" {
		parsed, err := time.Parse(time.RFC3339, changesSince)
		if err != nil {
			return fmt.Errorf("parse --since: %w", err)
		}
		since = parsed
	}

	entries, err := documentService.ChangesSince(context.Background(), since)
	if err != nil {
		return fmt.Errorf("list changes: %w", err)
	}

	if changesJSON {
		return outputJSON(cmd, entries)
	}

	if len(entries) == 0 {
		cmd.Println("No changes.")
		return nil
	}

	for i := range entries {
		e := &entries[i]
		marker := " "
		if e.Deleted {
			marker = "D"
		}
		cmd.Printf("  %s %s  %s  indexed %s\n",
			marker, e.FileID, e.FileName, e.IndexedAt.Format(time.RFC3339))
	}
	return nil
}
