// Package cli provides the cobra command tree for lwb-ingest.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/lwb-ingest/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lwb-ingest/internal/app"
	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/lwb-ingest/internal/core/services"
	"github.com/custodia-labs/lwb-ingest/internal/logger"
)

var (
	version = "dev"

	verbose   bool
	configDir string
)

// Services used by commands. Built lazily on first use; tests inject them directly.
var (
	settingsService  driving.SettingsService
	ingestionService driving.IngestionService
	articleService   driving.ArticleService

	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "lwb-ingest",
	Short: "Convert Word documents into signed, versioned articles",
	Long: `lwb-ingest converts .docx documents into sanitized HTML, extracts typed
content sections and a media catalog, and publishes them as versioned
articles with an HMAC-signed manifest.

Run 'lwb-ingest config set manifest.secret <secret>' before publishing.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.lwb)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command and releases opened connections.
func Execute(ctx context.Context) error {
	defer closeApp()
	return rootCmd.ExecuteContext(ctx)
}

// loadSettingsService opens the TOML config store on first use.
func loadSettingsService() (driving.SettingsService, error) {
	if settingsService != nil {
		return settingsService, nil
	}
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService = services.NewSettingsService(store)
	return settingsService, nil
}

// openApp builds the ingestion pipeline and, when a secret is configured,
// the article service.
func openApp(ctx context.Context) error {
	if ingestionService != nil {
		return nil
	}
	ss, err := loadSettingsService()
	if err != nil {
		return err
	}
	settings, err := ss.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	a, err := app.Open(ctx, settings)
	if err != nil {
		return err
	}
	application = a
	ingestionService = a.Ingestion
	if a.Articles != nil {
		articleService = a.Articles
	}
	return nil
}

func requireIngestion(ctx context.Context) (driving.IngestionService, error) {
	if err := openApp(ctx); err != nil {
		return nil, err
	}
	return ingestionService, nil
}

func requireArticles(ctx context.Context) (driving.ArticleService, error) {
	if err := openApp(ctx); err != nil {
		return nil, err
	}
	if articleService == nil {
		return nil, fmt.Errorf("%w: run 'lwb-ingest config set manifest.secret <secret>' or set %s",
			domain.ErrMissingSecret, services.EnvManifestSecret)
	}
	return articleService, nil
}

// currentSettings returns the resolved settings, or the defaults when none can be read.
func currentSettings() domain.Settings {
	if application != nil {
		return *application.Settings
	}
	if ss, err := loadSettingsService(); err == nil {
		if s, err := ss.Get(); err == nil {
			return *s
		}
	}
	return domain.DefaultSettings()
}

func closeApp() {
	if application == nil {
		return
	}
	if err := application.Close(); err != nil {
		logger.Warn("closing: %v", err)
	}
	application = nil
}

// printJSON writes v as indented JSON on a terminal and compact JSON otherwise.
func printJSON(w io.Writer, v any) error {
	var (
		data []byte
		err  error
	)
	if isTerminal(w) {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// defaultParseOptions returns the configured ingestion defaults.
func defaultParseOptions() domain.ParseOptions {
	s := currentSettings()
	return domain.ParseOptions{
		WithHTML:         s.Ingest.WithHTML,
		ExtractMediaData: s.Ingest.ExtractMediaData,
	}
}
