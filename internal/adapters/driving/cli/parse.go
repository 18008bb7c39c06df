package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/lwb-ingest/internal/logger"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file.docx]",
	Short: "Parse a document and print its sections",
	Long: `Convert a .docx document and print a JSON summary: word count, the first
sections and media items, and their totals.

With --html the converted HTML is sanitized first and sections are
extracted from the sanitized markup.

With --extract-media the embedded images are written to the given directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().Bool("html", false, "sanitize HTML before extracting sections")
	parseCmd.Flags().IntP("limit", "n", 10, "maximum sections and media items to print (0 = all)")
	parseCmd.Flags().String("extract-media", "", "directory to write embedded images to")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	withHTML, _ := cmd.Flags().GetBool("html")
	limit, _ := cmd.Flags().GetInt("limit")
	mediaDir, _ := cmd.Flags().GetString("extract-media")

	ingestion, err := requireIngestion(cmd.Context())
	if err != nil {
		return err
	}

	path := args[0]
	src := driven.FileSource(path)
	doc, err := ingestion.Parse(cmd.Context(), src, domain.ParseOptions{WithHTML: withHTML})
	if err != nil {
		return fmt.Errorf("failed to parse: %w", err)
	}

	if mediaDir != "" {
		media, err := ingestion.ExtractMedia(cmd.Context(), src)
		if err != nil {
			return fmt.Errorf("failed to extract media: %w", err)
		}
		n, err := writeMedia(mediaDir, media)
		if err != nil {
			return err
		}
		logger.Info("wrote %d media files to %s", n, mediaDir)
	}

	return printJSON(cmd.OutOrStdout(), doc.Summary(path, limit))
}

// writeMedia writes items carrying bytes to dir and returns how many were written.
func writeMedia(dir string, media []domain.MediaItem) (int, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return 0, fmt.Errorf("creating media directory: %w", err)
	}
	n := 0
	for _, m := range media {
		if len(m.Data) == 0 || m.Filename == "" {
			continue
		}
		target := filepath.Join(dir, filepath.Base(m.Filename))
		if err := os.WriteFile(target, m.Data, 0600); err != nil {
			return n, fmt.Errorf("writing %s: %w", target, err)
		}
		n++
	}
	return n, nil
}
