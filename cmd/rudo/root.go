package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tigerabrodi/rudo/config"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rudo",
	Short: "Compile animation manifests into self-animating vector documents",
	Long: `Rudo turns a YAML animation manifest into an SVG document whose
elements animate themselves through native timeline directives. No
runtime, no script tag: the output is a plain file any viewer with a
timeline engine can play.

Quick start:
  rudo build scene.yaml     # Compile a manifest to scene.svg
  rudo serve scene.yaml     # Live preview with rebuild on save

Checks:
  rudo validate scene.yaml  # Diagnose a manifest without writing output
  rudo build scene.yaml --check --diff`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	color.NoColor = !colorWanted(os.Stdout)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "rudo.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// loadConfig reads the config file when present, falls back to
// environment variables and defaults, and applies global flag
// overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

// colorWanted reports whether diagnostics on f should be colored.
// Color is limited to interactive terminals and honors NO_COLOR.
func colorWanted(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
