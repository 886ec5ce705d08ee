package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/archivist-labs/archivist/internal/core/domain"
)

var (
	searchLimit    int
	searchJSON     bool
	searchSources  []string
	searchMIMEs    []string
	searchModAfter string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Performs semantic search across the indexed corpus.
Each result cites the best-matching chunk of a document, with its
heading path and link.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringSliceVar(&searchSources, "source", nil, "restrict to source IDs")
	searchCmd.Flags().StringSliceVar(&searchMIMEs, "mime-type", nil, "restrict to MIME types")
	searchCmd.Flags().StringVar(&searchModAfter, "modified-after", "", "restrict to documents modified after (RFC 3339)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	filters := domain.SearchFilters{
		SourceIDs: searchSources,
		MIMETypes: searchMIMEs,
	}
	if searchModAfter != "" {
		after, err := time.Parse(time.RFC3339, searchModAfter)
		if err != nil {
			return fmt.Errorf("parse --modified-after: %w", err)
		}
		filters.ModifiedAfter = after
	}

	results, err := searchService.Search(context.Background(), query, filters, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, r.FileName, r.Score)
		if r.Heading != "" {
			cmd.Printf("      %s\n", r.Heading)
		}
		cmd.Printf("      %s\n", snippet(r.ChunkText, 160))
		if r.WebViewLink != "" {
			cmd.Printf("      %s\n", r.WebViewLink)
		}
		cmd.Println()
	}

	return nil
}

// snippet flattens whitespace and truncates at a rune limit.
func snippet(text string, limit int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= limit {
		return flat
	}
	return string(runes[:limit]) + "…"
}
