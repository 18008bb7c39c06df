package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/lwb-ingest/internal/logger"
	"github.com/custodia-labs/lwb-ingest/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Publish .docx files as they are saved into a directory",
	Long: `Watch a directory and publish every .docx file once it has stopped
changing. The article title and id are derived from the file name, so
saving the same file again publishes its next version.

Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", watcher.DefaultDebounce, "quiet period before a file is published")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, _ := cmd.Flags().GetDuration("debounce")

	articles, err := requireArticles(cmd.Context())
	if err != nil {
		return err
	}

	w := watcher.New(args[0], watcher.WithDebounce(debounce), watcher.WithExtensions(".docx"))
	defer w.Close()

	changes, err := w.Watch(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Watching %s for .docx files\n", args[0])

	opts := defaultParseOptions()
	for change := range changes {
		result, err := publishFile(cmd.Context(), articles, change.Path, opts)
		if err != nil {
			logger.Error("publishing %s: %v", change.Path, err)
			continue
		}
		cmd.Printf("%s %s -> %s v%d\n", change.Type, filepath.Base(change.Path),
			result.Article.ID, result.Article.Version)
	}
	return nil
}

// publishFile publishes path with a title derived from its file name.
func publishFile(
	ctx context.Context,
	articles driving.ArticleService,
	path string,
	opts domain.ParseOptions,
) (*driving.PublishResult, error) {
	return articles.Publish(ctx, driving.PublishRequest{
		Title:   titleFromFilename(path),
		Source:  driven.FileSource(path),
		Options: opts,
	})
}

// titleFromFilename turns "getting_started-guide.docx" into "getting started guide".
func titleFromFilename(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}

