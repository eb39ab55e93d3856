package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/blossom/internal/cli"
	"github.com/theirongolddev/blossom/internal/intake"
	"github.com/theirongolddev/blossom/internal/pipeline"
	"github.com/theirongolddev/blossom/internal/source"

	"github.com/spf13/cobra"
)

var flagImportDryRun bool

// maxImportProblems caps how many rejected lines are listed.
const maxImportProblems = 10

var importCmd = &cobra.Command{
	Use:   "import PATH...",
	Short: "Import gifts from JSON Lines exports",
	Long: "Import gifts from .jsonl or .ndjson files, one gift object per line.\n" +
		"Directories are searched recursively. Lines with a \"type\" other than\n" +
		"\"gift\" are skipped and repeated ids keep the last line. Missing\n" +
		"frequency, focus area or date fall back to the configured defaults.",
	Example: "  blossom import exports/\n  blossom import --dry-run march.jsonl",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportDryRun, "dry-run", false, "Validate without recording")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	files, err := source.Scan(args...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("  No .jsonl or .ndjson files found.")
		return nil
	}

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Reading %d export files...\n", len(files))
	}
	res := source.Load(files, func(current, total int) {
		if !flagQuiet && (current%50 == 0 || current == total) {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	})
	if !flagQuiet {
		fmt.Fprintln(os.Stderr)
	}

	h := e.newIntake()
	draft := h.Draft()

	var (
		imported int
		rejected []string
		saveErr  error
	)
	for _, f := range res.Files {
		if f.Err != nil {
			rejected = append(rejected, fmt.Sprintf("%s: %v", f.File.Path, f.Err))
			continue
		}
		for _, g := range f.Gifts {
			in := withDraftDefaults(g.Fields, draft)
			if err := intake.Validate(in); err != nil {
				rejected = append(rejected, fmt.Sprintf("%s:%d: %v", f.File.Path, g.Line, err))
				continue
			}
			if flagImportDryRun {
				imported++
				continue
			}
			if _, ok, err := h.Submit(cmd.Context(), in); ok {
				imported++
				saveErr = err
			}
		}
	}

	verb := "Imported"
	if flagImportDryRun {
		verb = "Would import"
	}
	fmt.Println()
	fmt.Printf("  %s %s gifts from %d files\n", verb, cli.FormatNumber(int64(imported)), res.ParsedFiles)
	if res.Skipped > 0 {
		fmt.Printf("  %s\n", cli.RenderMuted(fmt.Sprintf("%d non-gift lines skipped", res.Skipped)))
	}
	if res.ParseErrors > 0 {
		fmt.Printf("  %s\n", cli.RenderMuted(fmt.Sprintf("%d lines were not valid JSON", res.ParseErrors)))
	}
	if len(rejected) > 0 {
		fmt.Printf("  %d rejected:\n", len(rejected))
		for _, r := range rejected[:min(len(rejected), maxImportProblems)] {
			fmt.Printf("    %s\n", r)
		}
		if len(rejected) > maxImportProblems {
			fmt.Printf("    ... and %d more\n", len(rejected)-maxImportProblems)
		}
	}

	if saveErr != nil {
		return fmt.Errorf("imported gifts could not be saved: %w", saveErr)
	}
	if imported > 0 && !flagImportDryRun {
		m := pipeline.Aggregate(e.ledger.Current(), time.Now())
		fmt.Println()
		fmt.Println("  " + cli.RenderPills(cli.HeaderPills(m)...))
	}
	fmt.Println()
	return nil
}

// withDraftDefaults fills blank frequency, focus area and date from the draft.
func withDraftDefaults(in, draft intake.Fields) intake.Fields {
	if in.Frequency == "" {
		in.Frequency = draft.Frequency
	}
	if in.FocusArea == "" {
		in.FocusArea = draft.FocusArea
	}
	if in.Date == "" {
		in.Date = draft.Date
	}
	return in
}
