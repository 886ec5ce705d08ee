package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentJSON bool

var documentCmd = &cobra.Command{
	Use:   "document [file-id]",
	Short: "Show an indexed document",
	Long:  `Prints an indexed document's metadata and reconstructed chunk text.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocument,
}

func init() {
	documentCmd.Flags().BoolVar(&documentJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(documentCmd)
}

func runDocument(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, chunks, err := documentService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	if documentJSON {
		return outputJSON(cmd, struct {
			Document any `json:"document"`
			Chunks   any `json:"chunks"`
		}{doc, chunks})
	}

	cmd.Printf("%s (%s)\n", doc.Name, doc.FileID)
	cmd.Printf("  type:     %s\n", doc.MIMEType)
	if doc.WebViewLink != "" {
		cmd.Printf("  link:     %s\n", doc.WebViewLink)
	}
	cmd.Printf("  modified: %s\n", doc.ModifiedTime.Format("2006-01-02 15:04:05 MST"))
	cmd.Printf("  indexed:  %s\n", doc.IndexedAt.Format("2006-01-02 15:04:05 MST"))
	if doc.Deleted {
		cmd.Println("  status:   deleted")
	}
	cmd.Printf("  chunks:   %d\n", len(chunks))
	cmd.Println()

	for i := range chunks {
		if chunks[i].Heading != "" {
			cmd.Printf("--- [%d] %s ---\n", chunks[i].Index, chunks[i].Heading)
		} else {
			cmd.Printf("--- [%d] ---\n", chunks[i].Index)
		}
		cmd.Println(chunks[i].Text)
		cmd.Println()
	}
	return nil
}
