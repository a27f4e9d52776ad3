package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage uploaded documents",
	Long:    `List, view, delete or re-embed your uploaded documents.`,
	RunE:    runDocumentList,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Print a document's extracted text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all of your documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentClear,
}

var documentReembedCmd = &cobra.Command{
	Use:   "reembed [doc-id]",
	Short: "Re-embed a document",
	Long: `Replace a document's chunks with freshly embedded ones.

Use this after changing the embedding provider or model: vectors of a
different length than the query's are never matched.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentReembed,
}

// clearConfirmed skips the confirmation prompt of documents clear.
var clearConfirmed bool

func init() {
	documentClearCmd.Flags().BoolVarP(&clearConfirmed, "yes", "y", false, "do not ask for confirmation")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentClearCmd)
	documentCmd.AddCommand(documentReembedCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	userID, err := currentUser()
	if err != nil {
		return err
	}

	docs, err := documentService.List(context.Background(), userID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents uploaded yet.")
		return nil
	}

	for i := range docs {
		cmd.Printf("[%d] %s\n", docs[i].ID, docs[i].Filename)
		cmd.Printf("    Chunks:   %d\n", docs[i].ChunkCount)
		cmd.Printf("    Uploaded: %s\n", docs[i].CreatedAt.Format("2006-01-02 15:04:05"))
		if docs[i].Preview != "" {
			cmd.Printf("    %s\n", oneLine(docs[i].Preview))
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	userID, err := currentUser()
	if err != nil {
		return err
	}
	id, err := parseDocumentID(args[0])
	if err != nil {
		return err
	}

	doc, err := documentService.Get(context.Background(), userID, id)
	if err != nil {
		return documentError("get", id, err)
	}

	cmd.Printf("Document %d: %s\n", doc.ID, doc.Filename)
	cmd.Printf("Uploaded: %s\n\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Println(doc.Content)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	userID, err := currentUser()
	if err != nil {
		return err
	}
	id, err := parseDocumentID(args[0])
	if err != nil {
		return err
	}

	if err := documentService.Delete(context.Background(), userID, id); err != nil {
		return documentError("delete", id, err)
	}

	cmd.Printf("Deleted document %d\n", id)
	return nil
}

func runDocumentClear(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	userID, err := currentUser()
	if err != nil {
		return err
	}

	if !clearConfirmed && !confirm(cmd, "Delete all documents? [y/N]: ") {
		cmd.Println("Cancelled.")
		return nil
	}

	if err := documentService.Clear(context.Background(), userID); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}

	cmd.Println("All documents deleted.")
	return nil
}

func runDocumentReembed(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}
	userID, err := currentUser()
	if err != nil {
		return err
	}
	id, err := parseDocumentID(args[0])
	if err != nil {
		return err
	}

	result, err := ingestionService.Reembed(context.Background(), userID, id)
	if err != nil {
		return documentError("re-embed", id, err)
	}

	cmd.Printf("%s: %s\n", result.Document.Filename, describeIngest(result))
	return nil
}

func parseDocumentID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid document id %q", arg)
	}
	return id, nil
}

func documentError(verb string, id int64, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("document %d not found", id)
	}
	return fmt.Errorf("failed to %s document: %w", verb, err)
}
