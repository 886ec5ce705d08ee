package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/archivist-labs/archivist/internal/core/domain"
)

var (
	syncFull       bool
	syncBackground bool
)

var syncCmd = &cobra.Command{
	Use:   "sync [source-id]",
	Short: "Synchronise documents from sources",
	Long: `Runs a sync against the given source, or against every configured
source when no ID is given. Incremental by default; --full forces a
complete re-crawl.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncFull, "full", false, "force a full crawl")
	syncCmd.Flags().BoolVar(&syncBackground, "background", false, "trigger the sync and return the job ID immediately")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncService == nil {
		return errors.New("sync service not configured")
	}

	ctx := context.Background()

	if len(args) > 0 {
		return syncOne(ctx, cmd, args[0])
	}

	if sourceService == nil {
		return errors.New("source service not configured")
	}
	sources, err := sourceService.List(ctx)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}
	if len(sources) == 0 {
		cmd.Println("No sources configured.")
		return nil
	}

	var failed int
	for i := range sources {
		if err := syncOne(ctx, cmd, sources[i].ID); err != nil {
			cmd.PrintErrf("Source %s: %v\n", sources[i].ID, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed to sync", failed, len(sources))
	}
	return nil
}

func syncOne(ctx context.Context, cmd *cobra.Command, sourceID string) error {
	if syncBackground {
		jobID, err := syncService.Trigger(ctx, sourceID, syncFull)
		if err != nil {
			return fmt.Errorf("trigger sync: %w", err)
		}
		cmd.Printf("Started job %s for source %s\n", jobID, sourceID)
		return nil
	}

	cmd.Printf("Synchronising source %s...\n", sourceID)

	job, err := syncWithProgress(ctx, cmd, sourceID)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	printJobOutcome(cmd, job)
	if job.State == domain.JobFailed {
		return fmt.Errorf("sync failed: %s", job.Error)
	}
	return nil
}

// syncWithProgress runs the sync while polling the job record for
// progress updates.
func syncWithProgress(ctx context.Context, cmd *cobra.Command, sourceID string) (*domain.SyncJob, error) {
	jobID, err := syncService.Trigger(ctx, sourceID, syncFull)
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastSeen := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			job, err := syncService.Job(ctx, jobID)
			if err != nil {
				return nil, fmt.Errorf("poll job: %w", err)
			}
			if job.State.Terminal() {
				return job, nil
			}
			if job.Stats.DocumentsSeen > lastSeen {
				cmd.Printf("\rProcessing... %d documents", job.Stats.DocumentsSeen)
				lastSeen = job.Stats.DocumentsSeen
			}
		}
	}
}

func printJobOutcome(cmd *cobra.Command, job *domain.SyncJob) {
	cmd.Printf("\rJob %s %s: %d seen, %d changed, %d deleted, %d chunks, %d errors\n",
		job.ID, job.State,
		job.Stats.DocumentsSeen, job.Stats.DocumentsChanged,
		job.Stats.DocumentsDeleted, job.Stats.ChunksWritten, job.Stats.Errors)

	for _, fileID := range job.Stats.FailedFiles {
		cmd.Printf("  failed: %s\n", fileID)
	}
	if job.State == domain.JobPartial {
		cmd.Println("Cursor not advanced; the next sync retries the failed files.")
	}
}
