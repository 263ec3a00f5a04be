package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"darkpdf/converter/colors"
	"darkpdf/settings"
)

var (
	setRoot   string
	setScheme string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the persisted defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		cfg, err := settings.Load(path)
		if err != nil {
			return err
		}

		fmt.Printf("config file:     %s\n", path)
		if cfg.QuickScanRoot == "" {
			fmt.Println("quick-scan root: (not set)")
		} else {
			fmt.Printf("quick-scan root: %s\n", cfg.QuickScanRoot)
		}
		fmt.Printf("scheme:          %s\n", cfg.Scheme)
		fmt.Printf("recolor images:  %v\n", cfg.RecolorImages)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the persisted defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		cfg, err := settings.Load(path)
		if err != nil {
			return err
		}

		if setRoot != "" {
			cfg.QuickScanRoot = setRoot
		}
		if setScheme != "" {
			if _, err := colors.GetScheme(setScheme); err != nil {
				return err
			}
			cfg.Scheme = setScheme
		}

		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", path)
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().StringVar(&setRoot, "root", "", "Default quick-scan root folder")
	settingsSetCmd.Flags().StringVar(&setScheme, "scheme", "", "Default color scheme")
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
