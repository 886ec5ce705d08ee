package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sourceAddConfig []string

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage corpus sources",
	Long:  `Commands for adding, listing and removing corpus sources.`,
}

var sourceAddCmd = &cobra.Command{
	Use:   "add [type] [name]",
	Short: "Add a new source",
	Long: `Registers a new source of the given type.

Feed-specific settings are passed as repeated --config key=value flags.
For Drive sources:
  folder_ids   comma-separated folder IDs to scope the crawl
  mime_types   comma-separated MIME type filter

Example:
  archivist source add drive "Team Docs" --config folder_ids=1AbC...`,
	Args: cobra.ExactArgs(2),
	RunE: runSourceAdd,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	RunE:  runSourceList,
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove [source-id]",
	Short: "Remove a source and its indexed documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceRemove,
}

func init() {
	sourceAddCmd.Flags().StringArrayVar(&sourceAddConfig, "config", nil, "feed setting as key=value (repeatable)")
	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	rootCmd.AddCommand(sourceCmd)
}

func runSourceAdd(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	config := make(map[string]string, len(sourceAddConfig))
	for _, kv := range sourceAddConfig {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --config %q, expected key=value", kv)
		}
		config[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	source, err := sourceService.Add(context.Background(), args[0], args[1], config)
	if err != nil {
		return fmt.Errorf("add source: %w", err)
	}

	cmd.Printf("Added source %s (%s)\n", source.ID, source.Name)
	return nil
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	sources, err := sourceService.List(context.Background())
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No sources configured.")
		return nil
	}

	for i := range sources {
		s := &sources[i]
		cmd.Printf("  %s  %-8s %s\n", s.ID, s.Type, s.Name)
		if s.LastSyncAt.IsZero() {
			cmd.Println("      never synced")
		} else {
			cmd.Printf("      last synced %s\n", s.LastSyncAt.Format("2006-01-02 15:04:05 MST"))
		}
	}
	return nil
}

func runSourceRemove(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	if err := sourceService.Remove(context.Background(), args[0]); err != nil {
		return fmt.Errorf("remove source: %w", err)
	}

	cmd.Printf("Removed source %s\n", args[0])
	return nil
}
