package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tigerabrodi/rudo/adapters/clock"
	"github.com/tigerabrodi/rudo/adapters/idgen"
	"github.com/tigerabrodi/rudo/adapters/probe"
	"github.com/tigerabrodi/rudo/app"
	"github.com/tigerabrodi/rudo/bootstrap"
	"github.com/tigerabrodi/rudo/manifest"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate MANIFEST...",
	Short: "Check manifests without writing output",
	Long: `Validate one or more animation manifests.

Checks:
  - YAML syntax is well formed
  - Canvas, elements, easing names, key times and triggers are valid
  - Parameters evaluate and the document compiles

Examples:
  rudo validate scene.yaml
  rudo validate scenes/*.yaml --strict-triggers`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateStrict, "strict-triggers", false, "treat trigger targets outside the document as errors")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("strict-triggers") {
		cfg.Compile.StrictTriggers = validateStrict
	}

	// Always probe the timeline so directives are compiled and checked
	// even when the config asks for static output.
	service := app.NewCompileService(
		idgen.NewSequential(cfg.Compile.IDPrefix),
		probe.Static{Timeline: true},
		clock.Real{},
		bootstrap.NewLogger(cfg.Logging),
		app.CompileServiceConfig{StrictTriggers: cfg.Compile.StrictTriggers},
	)

	invalid := 0
	for _, path := range args {
		if !validateOne(service, path) {
			invalid++
		}
		fmt.Println()
	}

	if invalid > 0 {
		if len(args) == 1 {
			return fmt.Errorf("manifest is invalid")
		}
		return fmt.Errorf("%d of %d manifests are invalid", invalid, len(args))
	}
	if len(args) == 1 {
		fmt.Println("Manifest is valid.")
	} else {
		fmt.Println("All manifests are valid.")
	}
	return nil
}

// validateOne prints the check list for one manifest and reports
// whether it passed.
func validateOne(service *app.CompileService, path string) bool {
	fmt.Printf("Validating %s...\n\n", path)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("  %s Manifest readable\n", mark(false))
		fmt.Printf("      Error: %v\n", err)
		return false
	}
	fmt.Printf("  %s Manifest readable\n", mark(true))

	doc, err := manifest.Decode(data)
	if err != nil {
		fmt.Printf("  %s YAML syntax valid\n", mark(false))
		fmt.Printf("      Error: %v\n", err)
		return false
	}
	fmt.Printf("  %s YAML syntax valid\n", mark(true))

	if problems := manifest.Validate(doc); len(problems) > 0 {
		for _, p := range problems {
			fmt.Printf("  %s %s\n", mark(false), p)
		}
		return false
	}
	fmt.Printf("  %s Schema valid\n", mark(true))

	result, err := service.CompileDocument(doc)
	if err != nil {
		fmt.Printf("  %s Compiles\n", mark(false))
		fmt.Printf("      Error: %v\n", err)
		return false
	}
	fmt.Printf("  %s Compiles: %d elements, %d directives\n", mark(true), result.Elements, result.Directives)
	return true
}

func mark(ok bool) string {
	if ok {
		return color.GreenString("✓")
	}
	return color.RedString("✗")
}
