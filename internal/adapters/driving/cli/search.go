package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var (
	searchTopK int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find the chunks most relevant to a query",
	Long: `Embeds the query and ranks the chunks of your documents by cosine
similarity. Prints the top matches with their scores, without asking the
language model.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of chunks to return (0 = configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchHit is the JSON shape of one result.
type searchHit struct {
	DocumentID int64   `json:"document_id"`
	Position   int     `json:"position"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}
	userID, err := currentUser()
	if err != nil {
		return err
	}

	hits, err := retrievalService.RetrieveScored(context.Background(), userID, args[0], searchTopK)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuery) {
			return errors.New("query is empty")
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, hits)
	}
	return outputSearchTable(cmd, hits)
}

func outputSearchJSON(cmd *cobra.Command, hits []domain.ScoredChunk) error {
	out := make([]searchHit, 0, len(hits))
	for i := range hits {
		out = append(out, searchHit{
			DocumentID: hits[i].Chunk.DocumentID,
			Position:   hits[i].Chunk.Position,
			Score:      hits[i].Score,
			Text:       hits[i].Chunk.Text,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, hits []domain.ScoredChunk) error {
	if len(hits) == 0 {
		cmd.Println("No relevant chunks found.")
		return nil
	}

	for i := range hits {
		cmd.Printf("[%d] document %d, chunk %d (score %.3f)\n",
			i+1, hits[i].Chunk.DocumentID, hits[i].Chunk.Position, hits[i].Score)
		cmd.Printf("    %s\n\n", truncate(oneLine(hits[i].Chunk.Text), 200))
	}
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
