package cmd

import (
	"github.com/spf13/cobra"

	"github.com/timvw/pane-carousel/internal/ui"
)

var flagTheme string

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Show the bookmark list (run inside the popup)",
	Long: `Show the bookmark list. The daemon opens this in a popup when the
show-self key is pressed; it can also be run by hand in any pane.

Keys: Enter focuses the selected pane, 0-9 focus that index, Up/Down
move the selection, Del removes it and Esc closes the list.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		theme := cfg.Theme
		if flagTheme != "" {
			theme = flagTheme
		}
		t := &ui.TUI{
			Client: newClient(cfg),
			Theme:  ui.ThemeByName(theme),
		}
		return t.Run(cmd.Context())
	},
}

func init() {
	uiCmd.Flags().StringVar(&flagTheme, "theme", "", "Color theme: dark, light")
	rootCmd.AddCommand(uiCmd)
}
