package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	jobsSourceID string
	jobsJSON     bool
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List sync jobs",
	Long:  `Lists sync job records, newest first.`,
	RunE:  runJobs,
}

func init() {
	jobsCmd.Flags().StringVar(&jobsSourceID, "source", "", "restrict to one source ID")
	jobsCmd.Flags().BoolVar(&jobsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, _ []string) error {
	if syncService == nil {
		return errors.New("sync service not configured")
	}

	jobs, err := syncService.Jobs(context.Background(), jobsSourceID)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}

	if jobsJSON {
		return outputJSON(cmd, jobs)
	}

	if len(jobs) == 0 {
		cmd.Println("No sync jobs recorded.")
		return nil
	}

	for i := range jobs {
		j := &jobs[i]
		kind := "incremental"
		if j.Full {
			kind = "full"
		}
		cmd.Printf("  %s  %-9s %-11s source=%s\n", j.ID, j.State, kind, j.SourceID)
		cmd.Printf("      %d seen, %d changed, %d deleted, %d chunks, %d errors\n",
			j.Stats.DocumentsSeen, j.Stats.DocumentsChanged,
			j.Stats.DocumentsDeleted, j.Stats.ChunksWritten, j.Stats.Errors)
		if j.Error != "" {
			cmd.Printf("      error: %s\n", j.Error)
		}
	}
	return nil
}
