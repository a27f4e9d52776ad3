package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/connectors/filesystem"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Upload documents as they appear in a folder",
	Long: `Watch a folder and upload supported files whenever they are created or
saved. Existing files are uploaded first unless --skip-existing is set.

A saved file is uploaded again as a new document; delete the old one with
'docchat documents delete' if you no longer need it. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var (
	watchSkipExisting bool
	watchDebounce     time.Duration
)

func init() {
	watchCmd.Flags().BoolVar(&watchSkipExisting, "skip-existing", false, "do not upload files already in the folder")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", filesystem.DefaultDebounce, "quiet period before a changed file is uploaded")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}
	userID, err := currentUser()
	if err != nil {
		return err
	}

	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}

	watcher := filesystem.New(root,
		filesystem.WithFilter(supportedPath(ingestionService.SupportedExtensions())),
		filesystem.WithDebounce(watchDebounce),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if !watchSkipExisting {
		files, err := watcher.Files()
		if err != nil {
			return err
		}
		for _, path := range files {
			uploadOne(ctx, cmd, userID, path)
		}
	}

	changes, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}
	defer watcher.Close() //nolint:errcheck // best-effort on exit

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", root)
	for change := range changes {
		switch change.Type {
		case filesystem.ChangeRemoved:
			cmd.Printf("%s: removed from folder, uploaded copy kept\n", filepath.Base(change.Path))
		default:
			uploadOne(ctx, cmd, userID, change.Path)
		}
	}

	cmd.Println("Stopped watching.")
	return nil
}

// supportedPath builds a filter accepting paths with one of the given extensions.
func supportedPath(extensions []string) func(string) bool {
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return func(path string) bool {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		_, ok := allowed[ext]
		return ok
	}
}
