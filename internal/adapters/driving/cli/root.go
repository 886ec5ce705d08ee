// Package cli implements the archivist command line interface.
// Commands are thin shells over the driving ports; all construction
// and wiring happens in cmd/archivist.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/archivist-labs/archivist/internal/core/ports/driving"
	"github.com/archivist-labs/archivist/internal/logger"
)

// Injected services. Set via Execute before any command runs.
var (
	version = "dev"

	searchService   driving.SearchService
	syncService     driving.SyncService
	documentService driving.DocumentService
	sourceService   driving.SourceService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "archivist",
	Short: "Sync and search a document corpus",
	Long: `Archivist keeps a local, searchable replica of a document corpus.
It syncs changed documents from configured sources, chunks and embeds
their content, and answers semantic queries over the result — from the
command line or over MCP for AI assistants.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Services carries the driving ports the commands depend on.
type Services struct {
	Search   driving.SearchService
	Sync     driving.SyncService
	Document driving.DocumentService
	Source   driving.SourceService
}

// Execute wires the services and runs the root command.
func Execute(ver string, s Services) error {
	version = ver
	searchService = s.Search
	syncService = s.Sync
	documentService = s.Document
	sourceService = s.Source

	return rootCmd.Execute()
}
