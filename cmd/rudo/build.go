package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/tigerabrodi/rudo/adapters/clock"
	"github.com/tigerabrodi/rudo/adapters/idgen"
	"github.com/tigerabrodi/rudo/adapters/probe"
	"github.com/tigerabrodi/rudo/app"
	"github.com/tigerabrodi/rudo/bootstrap"
)

var (
	buildOutput string
	buildCheck  bool
	buildDiff   bool
	buildStatic bool
	buildStrict bool
)

var buildCmd = &cobra.Command{
	Use:   "build MANIFEST",
	Short: "Compile a manifest into an animated document",
	Long: `Compile an animation manifest into a self-animating document.

Parameters are evaluated, easing names are lowered to spline control
points, and triggers are resolved to begin expressions. The result is
written next to the manifest unless -o is given.

Examples:
  rudo build scene.yaml
  rudo build scene.yaml -o out/scene.svg
  rudo build scene.yaml -o -              # write to stdout
  rudo build scene.yaml --check           # exit 1 if scene.svg is stale
  rudo build scene.yaml --diff            # show what would change
  rudo build scene.yaml --static          # drop animation directives`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", `output file (default: manifest name with .svg, "-" for stdout)`)
	buildCmd.Flags().BoolVar(&buildCheck, "check", false, "exit nonzero when the output file is missing or stale, write nothing")
	buildCmd.Flags().BoolVar(&buildDiff, "diff", false, "print a diff against the existing output instead of writing")
	buildCmd.Flags().BoolVar(&buildStatic, "static", false, "emit the document without animation directives")
	buildCmd.Flags().BoolVar(&buildStrict, "strict-triggers", false, "fail when a trigger targets a node outside the document")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("static") {
		cfg.Compile.Static = buildStatic
	}
	if cmd.Flags().Changed("strict-triggers") {
		cfg.Compile.StrictTriggers = buildStrict
	}

	manifestPath := args[0]
	outPath := buildOutput
	if outPath == "" {
		outPath = defaultOutput(manifestPath)
	}

	logger := bootstrap.NewLogger(cfg.Logging)
	service := app.NewCompileService(
		idgen.NewSequential(cfg.Compile.IDPrefix),
		probe.Static{Timeline: !cfg.Compile.Static},
		clock.Real{},
		logger,
		app.CompileServiceConfig{StrictTriggers: cfg.Compile.StrictTriggers},
	)

	result, err := service.CompileFile(manifestPath)
	if err != nil {
		return err
	}

	if outPath == "-" {
		_, err := os.Stdout.Write(result.SVG)
		return err
	}

	if buildCheck || buildDiff {
		return compareWithExisting(outPath, result.SVG)
	}

	if err := os.WriteFile(outPath, result.SVG, 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d elements, %d directives) in %s\n",
		outPath, result.Elements, result.Directives, result.Duration.Round(time.Microsecond))
	return nil
}

// compareWithExisting diffs the compiled document against what is on
// disk and returns an error when --check finds them out of sync. A
// missing output file counts as stale.
func compareWithExisting(path string, compiled []byte) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if bytes.Equal(existing, compiled) {
		fmt.Printf("%s is up to date\n", path)
		return nil
	}

	if buildDiff {
		printLineDiff(os.Stdout, string(existing), string(compiled))
	}
	if buildCheck {
		return fmt.Errorf("%s is out of date, run rudo build to update it", path)
	}
	return nil
}

// printLineDiff writes a line diff between two documents. Lines are
// compared whole through the chars encoding so a one-attribute change
// does not smear across the document.
func printLineDiff(w io.Writer, before, after string) {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffpatch.DiffDelete:
				del.Fprintf(w, "-%s\n", line)
			case diffpatch.DiffInsert:
				ins.Fprintf(w, "+%s\n", line)
			default:
				fmt.Fprintf(w, " %s\n", line)
			}
		}
	}
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// defaultOutput derives the output path from the manifest name,
// scene.yaml becoming scene.svg.
func defaultOutput(manifestPath string) string {
	ext := filepath.Ext(manifestPath)
	return strings.TrimSuffix(manifestPath, ext) + ".svg"
}
