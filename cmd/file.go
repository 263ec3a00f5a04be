package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"darkpdf/converter"
)

var outputFile string

var fileCmd = &cobra.Command{
	Use:   "file <input.pdf>",
	Short: "Convert a single PDF to dark mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]

		if _, err := os.Stat(inputFile); os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", inputFile)
		}

		if outputFile == "" {
			outputFile = strings.TrimSuffix(inputFile, ".pdf") + "_dark.pdf"
		}

		scheme, err := resolveScheme()
		if err != nil {
			return err
		}

		fmt.Printf("Converting %s to dark mode...\n", inputFile)
		res := converter.Convert(inputFile, outputFile, converter.Options{
			Scheme:        scheme,
			RecolorImages: recolorImages,
		})

		switch res.Status {
		case converter.StatusFailed:
			return fmt.Errorf("conversion failed: %s", res.Reason)
		case converter.StatusConvertedWithWarnings:
			fmt.Printf("Converted with warnings (%d pages, %d colors, %d images):\n",
				res.Pages, res.ColorsTransformed, res.ImagesRecolored)
			for _, w := range res.Warnings {
				fmt.Printf("  %s\n", w)
			}
		default:
			fmt.Printf("Processed %d pages, transformed %d color operations, recolored %d images\n",
				res.Pages, res.ColorsTransformed, res.ImagesRecolored)
		}

		fmt.Printf("Successfully created: %s\n", outputFile)
		return nil
	},
}

func init() {
	fileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output PDF file (default: <input>_dark.pdf)")
	fileCmd.Flags().StringVarP(&schemeName, "scheme", "s", "", "Color scheme (see 'darkpdf schemes')")
	fileCmd.Flags().BoolVar(&recolorImages, "recolor-images", true, "Recolor embedded raster images too")
	rootCmd.AddCommand(fileCmd)
}
