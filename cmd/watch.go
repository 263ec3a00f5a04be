package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"darkpdf/batch"
	"darkpdf/converter"
)

var watchCmd = &cobra.Command{
	Use:   "watch [folder]",
	Short: "Watch a folder and convert PDFs as they change",
	Long: `Watches the folder tree and re-runs the batch conversion whenever a PDF
is added or modified. Unchanged files stay skipped, so each run only touches
what is stale. Stop with Ctrl-C.`,
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

		watcher := batch.NewWatcher(runner, root)
		watcher.OnRun = func(result *batch.ScanResult) {
			printSummary(result, false)
			fmt.Printf("\nWatching %s (Ctrl-C to stop)...\n", root)
		}

		fmt.Printf("Watching %s (Ctrl-C to stop)...\n", root)
		if err := watcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVarP(&schemeName, "scheme", "s", "", "Color scheme (see 'darkpdf schemes')")
	watchCmd.Flags().BoolVar(&recolorImages, "recolor-images", true, "Recolor embedded raster images too")
	rootCmd.AddCommand(watchCmd)
}
