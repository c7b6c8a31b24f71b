package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tigerabrodi/rudo/bootstrap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve MANIFEST",
	Short: "Preview a manifest with rebuild on save",
	Long: `Start the live preview server for a manifest.

The server will:
  - Compile the manifest and serve the document at /scene.svg
  - Watch the manifest and recompile on save
  - Push reload events to open preview pages
  - Expose Prometheus metrics when enabled in the config

Environment variables:
  RUDO_SERVER_HOST         - Bind host (default: 127.0.0.1)
  RUDO_SERVER_PORT         - Bind port (default: 7878)
  RUDO_COMPILE_ID_PREFIX   - Prefix for generated element ids
  RUDO_COMPILE_STRICT_TRIGGERS - Fail on unresolvable trigger targets
  RUDO_LOG_LEVEL           - Log level: debug, info, warn, error
  RUDO_METRICS_ENABLED     - Expose /metrics

Examples:
  rudo serve scene.yaml
  rudo serve scene.yaml --addr 0.0.0.0:8080
  rudo serve scene.yaml --config /etc/rudo/config.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides server host and port from the config")
}

func runServe(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]
	if _, err := os.Stat(manifestPath); err != nil {
		return fmt.Errorf("manifest not found: %s", manifestPath)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	app, err := bootstrap.New(bootstrap.Options{
		ManifestPath: manifestPath,
		Config:       cfg,
		Addr:         serveAddr,
	})
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
