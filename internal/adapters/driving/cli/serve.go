package cli

import (
	"github.com/spf13/cobra"

	httpapi "github.com/custodia-labs/lwb-ingest/internal/adapters/driving/http"
	"github.com/custodia-labs/lwb-ingest/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP upload API",
	Long: `Start the HTTP API for uploading documents and reading manifests.

Endpoints:
  POST   /api/v1/articles                multipart upload (file, title, id, slug, html)
  POST   /api/v1/parse                   multipart upload (file, html)
  GET    /api/v1/manifest                published article summaries
  GET    /api/v1/articles/{id}           stored article (id or slug)
  GET    /api/v1/articles/{id}/manifest  signed manifest
  GET    /api/v1/articles/{id}/verify    signature check
  DELETE /api/v1/articles/{id}
  GET    /healthz
  GET    /metrics                        Prometheus metrics

Publishing is disabled until a manifest secret is configured.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ingestion, err := requireIngestion(cmd.Context())
	if err != nil {
		return err
	}

	cfg := httpapi.ConfigFromSettings(currentSettings())
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	server := httpapi.NewServer(cfg, ingestion, articleService, metrics.New())
	cmd.Printf("HTTP API listening on %s\n", cfg.Addr)
	return server.Run(cmd.Context())
}
