package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect published articles",
}

var manifestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List published articles",
	Args:  cobra.NoArgs,
	RunE:  runManifestList,
}

var manifestShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show the signed manifest of an article",
	Args:  cobra.ExactArgs(1),
	RunE:  runManifestShow,
}

var verifyCmd = &cobra.Command{
	Use:   "verify [id]",
	Short: "Verify a stored article against its signature",
	Long: `Recompute the checksum and signature of a stored article from its
sections and media, and compare them with the stored values.

Exits non-zero when the content does not match.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	manifestCmd.AddCommand(manifestListCmd)
	manifestCmd.AddCommand(manifestShowCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(verifyCmd)
}

func runManifestList(cmd *cobra.Command, _ []string) error {
	articles, err := requireArticles(cmd.Context())
	if err != nil {
		return err
	}

	items, err := articles.ListManifests(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list articles: %w", err)
	}

	if len(items) == 0 {
		cmd.Println("No articles published.")
		return nil
	}

	cmd.Printf("%-24s %-8s %-8s %-20s %s\n", "ID", "VERSION", "WORDS", "UPDATED", "TITLE")
	for _, item := range items {
		cmd.Printf("%-24s %-8d %-8d %-20s %s\n",
			item.ID, item.Version, item.WordCount, item.UpdatedAt.Format("2006-01-02 15:04:05"), item.Title)
	}
	return nil
}

func runManifestShow(cmd *cobra.Command, args []string) error {
	articles, err := requireArticles(cmd.Context())
	if err != nil {
		return err
	}

	m, err := articles.Manifest(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get manifest: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), m)
}

func runVerify(cmd *cobra.Command, args []string) error {
	articles, err := requireArticles(cmd.Context())
	if err != nil {
		return err
	}

	id := args[0]
	err = articles.Verify(cmd.Context(), id)
	switch {
	case err == nil:
		cmd.Printf("%s: trusted\n", id)
		return nil
	case errors.Is(err, domain.ErrUntrustedContent):
		cmd.Printf("%s: untrusted\n", id)
		return err
	default:
		return fmt.Errorf("failed to verify: %w", err)
	}
}
