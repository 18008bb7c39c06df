package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driving"
)

var publishCmd = &cobra.Command{
	Use:   "publish [file.docx]",
	Short: "Publish a document as a new article version",
	Long: `Ingest a .docx document and store it as the next version of an article,
signing its manifest with the configured secret.

The article id defaults to the slug, and the slug defaults to the
slugified title. Publishing the same id again increments its version.`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringP("title", "t", "", "article title (defaults to the document title)")
	publishCmd.Flags().String("id", "", "article id (defaults to the slug)")
	publishCmd.Flags().String("slug", "", "article slug (defaults to the slugified title)")
	publishCmd.Flags().Bool("html", false, "sanitize HTML before extracting sections")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	id, _ := cmd.Flags().GetString("id")
	slug, _ := cmd.Flags().GetString("slug")

	articles, err := requireArticles(cmd.Context())
	if err != nil {
		return err
	}

	opts := defaultParseOptions()
	if cmd.Flags().Changed("html") {
		opts.WithHTML, _ = cmd.Flags().GetBool("html")
	}

	result, err := articles.Publish(cmd.Context(), driving.PublishRequest{
		ID:      id,
		Title:   title,
		Slug:    slug,
		Source:  driven.FileSource(args[0]),
		Options: opts,
	})
	if err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}

	return printJSON(cmd.OutOrStdout(), result)
}
