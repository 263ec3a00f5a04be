package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"darkpdf/batch"
	"darkpdf/converter"
	"darkpdf/converter/colors"
	"darkpdf/settings"
)

var (
	dryRun         bool
	schemeName     string
	customBg       string
	customText     string
	recolorImages  bool
	configPathFlag string
)

var (
	convertedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headerStyle    = lipgloss.NewStyle().Bold(true)
)

var rootCmd = &cobra.Command{
	Use:   "darkpdf [folder]",
	Short: "Batch-convert PDF trees to dark mode",
	Long: `darkpdf recursively converts every PDF under a folder to a dark mode
variant while keeping text selectable and searchable.

Converted files land in a DARK MODE subfolder of each job folder, mirroring
the source layout. Files whose output is already up to date are skipped, and
folders named DARK MODE or containing CNC are never scanned.

With no folder argument the configured quick-scan root is used
(see 'darkpdf settings').`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot(args)
		if err != nil {
			return err
		}

		scheme, err := resolveScheme()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		runner := batch.NewRunner(converter.Options{
			Scheme:        scheme,
			RecolorImages: recolorImages,
		})
		runner.Progress = printProgress(root)

		if dryRun {
			fmt.Println("Dry run - no files will be written")
		}
		fmt.Printf("Scanning %s...\n", root)

		result, runErr := runner.Run(ctx, root, dryRun)
		if result != nil {
			printSummary(result, dryRun)
		}
		if runErr != nil && ctx.Err() != nil {
			fmt.Println("Cancelled - current file was allowed to finish")
			return nil
		}
		return runErr
	},
}

// resolveRoot picks the folder argument or falls back to the quick-scan root
func resolveRoot(args []string) (string, error) {
	if len(args) == 1 {
		return filepath.Clean(args[0]), nil
	}

	path, err := configPath()
	if err != nil {
		return "", err
	}
	cfg, err := settings.Load(path)
	if err != nil {
		return "", err
	}
	if cfg.QuickScanRoot == "" {
		return "", fmt.Errorf("no folder given and no quick-scan root configured (run 'darkpdf settings set --root <folder>')")
	}
	return cfg.QuickScanRoot, nil
}

// resolveScheme builds the color scheme from flags, preferring an explicit
// custom background/text pair over a named scheme
func resolveScheme() (colors.Scheme, error) {
	if customBg != "" || customText != "" {
		if customBg == "" || customText == "" {
			return colors.Scheme{}, fmt.Errorf("custom schemes need both --bg and --text")
		}
		return colors.NewCustomScheme(customBg, customText)
	}
	if schemeName == "" {
		path, err := configPath()
		if err != nil {
			return colors.Scheme{}, err
		}
		cfg, err := settings.Load(path)
		if err != nil {
			return colors.Scheme{}, err
		}
		schemeName = cfg.Scheme
	}
	return colors.GetScheme(schemeName)
}

func configPath() (string, error) {
	if configPathFlag != "" {
		return configPathFlag, nil
	}
	return settings.DefaultPath()
}

// printProgress returns the per-job progress sink for CLI output
func printProgress(root string) batch.ProgressFunc {
	return func(job *batch.Job, result *batch.ScanResult) {
		rel, err := filepath.Rel(root, job.Source)
		if err != nil {
			rel = job.Source
		}

		done := result.Converted + result.Skipped + result.Failed

		switch job.Outcome {
		case batch.OutcomeConverted:
			fmt.Printf("[%d/%d] %s %s\n", done, result.Total(), convertedStyle.Render("converted"), rel)
		case batch.OutcomeConvertedWithWarnings:
			fmt.Printf("[%d/%d] %s %s\n", done, result.Total(), warningStyle.Render("converted*"), rel)
			fmt.Printf("        %s\n", job.Reason)
		case batch.OutcomeSkipped:
			fmt.Printf("[%d/%d] skipped   %s (up to date)\n", done, result.Total(), rel)
		case batch.OutcomeFailed:
			fmt.Printf("[%d/%d] %s    %s: %s\n", done, result.Total(), failedStyle.Render("failed"), rel, job.Reason)
		case batch.OutcomePending:
			// Dry run: report the decision without acting on it.
			fmt.Printf("would convert: %s -> %s\n", rel, job.Dest)
		}
	}
}

// printSummary prints the final counters
func printSummary(result *batch.ScanResult, dryRun bool) {
	fmt.Println()
	fmt.Println(headerStyle.Render("Summary"))
	if dryRun {
		fmt.Printf("  would convert: %d\n", result.Pending())
		fmt.Printf("  would skip:    %d\n", result.Skipped)
	} else {
		fmt.Printf("  converted: %d\n", result.Converted)
		fmt.Printf("  skipped:   %d\n", result.Skipped)
		fmt.Printf("  failed:    %d\n", result.Failed)
	}
	for _, job := range result.Jobs {
		if job.Outcome == batch.OutcomeFailed {
			fmt.Printf("  %s %s: %s\n", failedStyle.Render("✗"), job.Source, job.Reason)
		}
	}
	for _, dir := range result.SkippedDirs {
		fmt.Printf("  unreadable, skipped: %s\n", dir)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to config file (default: ~/.darkpdf/config.toml)")
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be converted without writing anything")
	rootCmd.Flags().StringVarP(&schemeName, "scheme", "s", "", "Color scheme (see 'darkpdf schemes'; default from settings)")
	rootCmd.Flags().StringVar(&customBg, "bg", "", "Custom background color as hex (requires --text)")
	rootCmd.Flags().StringVar(&customText, "text", "", "Custom text color as hex (requires --bg)")
	rootCmd.Flags().BoolVar(&recolorImages, "recolor-images", true, "Recolor embedded raster images too")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
