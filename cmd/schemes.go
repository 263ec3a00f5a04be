package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"darkpdf/converter/colors"
)

var schemesCmd = &cobra.Command{
	Use:   "schemes",
	Short: "List available color schemes",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range colors.ListSchemes() {
			scheme := colors.AvailableSchemes[name]
			fmt.Printf("  %-10s background %s, text %s\n",
				name, scheme.Background.Hex(), scheme.Text.Hex())
		}
		fmt.Println("\nCustom schemes: --bg '#112233' --text '#eeeeee'")
	},
}

func init() {
	rootCmd.AddCommand(schemesCmd)
}
