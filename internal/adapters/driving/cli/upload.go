package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file or glob]...",
	Short: "Upload documents",
	Long: `Extract, chunk and embed one or more documents.

Arguments may be paths or glob patterns, including ** for recursive matches:
  docchat upload report.pdf
  docchat upload "notes/**/*.md"

Supported types: PDF, DOCX, TXT, Markdown and HTML.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}
	userID, err := currentUser()
	if err != nil {
		return err
	}

	paths, err := expandPatterns(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no files matched")
	}

	ctx := context.Background()
	failed := 0
	for _, path := range paths {
		if !uploadOne(ctx, cmd, userID, path) {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(paths))
	}
	return nil
}

// uploadOne ingests a single file and reports the outcome. It returns false on failure.
func uploadOne(ctx context.Context, cmd *cobra.Command, userID, path string) bool {
	name := filepath.Base(path)
	result, err := ingestionService.IngestFile(ctx, userID, path)
	if err != nil {
		cmd.Printf("%s: %s\n", name, uploadMessage(err))
		return false
	}

	cmd.Printf("%s: %s\n", name, describeIngest(result))
	return true
}

// describeIngest renders an ingestion result for the user.
// A document without chunks was stored but cannot be searched.
func describeIngest(result *domain.IngestResult) string {
	if !result.Searchable() {
		return fmt.Sprintf("uploaded as document %d, but no embeddings could be created", result.Document.ID)
	}
	msg := fmt.Sprintf("uploaded as document %d. Created %d searchable chunks", result.Document.ID, result.ChunkCount)
	if result.Skipped > 0 {
		msg += fmt.Sprintf(" (%d of %d chunks could not be embedded)", result.Skipped, result.TotalChunks)
	}
	return msg
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return "unsupported file type, use PDF, DOCX, TXT, MD or HTML"
	case errors.Is(err, domain.ErrEmptyExtraction):
		return "could not extract text from the file"
	default:
		return err.Error()
	}
}

// expandPatterns resolves each argument as a doublestar glob. Arguments
// without glob syntax are taken as literal paths. The result is sorted and
// free of duplicates.
func expandPatterns(args []string) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			add(arg)
			continue
		}
		if !doublestar.ValidatePathPattern(arg) {
			return nil, fmt.Errorf("invalid pattern %q", arg)
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", arg, err)
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(paths)
	return paths, nil
}
