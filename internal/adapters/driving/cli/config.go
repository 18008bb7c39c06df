package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change lwb-ingest configuration.

Settings are stored as TOML in ~/.lwb/config.toml. The environment
variables LWB_MANIFEST_SECRET, DATABASE_URL and REDIS_URL override the
file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration key",
	Long: `Set a configuration key. Known keys:

  ` + strings.Join(services.KnownKeys(), "\n  "),
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	ss, err := loadSettingsService()
	if err != nil {
		return err
	}

	settings, err := ss.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Manifest]")
	if settings.ManifestSecret != "" {
		cmd.Printf("  Secret: %s\n", maskSecret(settings.ManifestSecret))
	} else {
		cmd.Println("  Secret: (not set)")
	}
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Sanitize HTML: %t\n", settings.Ingest.WithHTML)
	cmd.Printf("  Keep media bytes: %t\n", settings.Ingest.ExtractMediaData)
	cmd.Printf("  Max file size: %d bytes\n", settings.Ingest.MaxFileSize)
	cmd.Printf("  Extractor: %s\n", settings.Ingest.Strategy)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend.Description())
	switch settings.Storage.Backend {
	case domain.StorageSQLite:
		dir := settings.Storage.DataDir
		if dir == "" {
			dir = "~/.lwb/data"
		}
		cmd.Printf("  Data dir: %s\n", dir)
	case domain.StoragePostgres:
		cmd.Printf("  URL: %s\n", redactURL(settings.Storage.PostgresURL))
	}
	cmd.Println()

	cmd.Println("[Cache]")
	if settings.Cache.RedisURL != "" {
		cmd.Printf("  Redis: %s\n", redactURL(settings.Cache.RedisURL))
		cmd.Printf("  TTL: %ds\n", settings.Cache.TTLSeconds)
	} else {
		cmd.Println("  Redis: (in-process)")
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Printf("  Rate limit: %.2f/s (burst %d)\n", settings.Server.RateLimit, settings.Server.Burst)
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		if errors.Is(err, domain.ErrMissingSecret) {
			cmd.Println("Run 'lwb-ingest config set manifest.secret <secret>' to enable publishing.")
		}
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	ss, err := loadSettingsService()
	if err != nil {
		return err
	}
	if err := ss.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	ss, err := loadSettingsService()
	if err != nil {
		return err
	}
	cmd.Println(ss.ConfigPath())
	return nil
}

// maskSecret shows only the ends of a secret.
func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

// redactURL hides the password of a connection URL.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
