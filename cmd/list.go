package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/timvw/pane-carousel/internal/carousel"
	"github.com/timvw/pane-carousel/internal/control"
)

var flagJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the bookmarked panes",
	Long: `List the bookmarked panes in order, one per line as "<index> title".
The pane that currently has focus is marked. Use --json for the full view.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		resp, err := newClient(cfg).Do(cmd.Context(), control.Request{Command: control.CommandState})
		if err != nil {
			return fmt.Errorf("failed to list bookmarks: %w", err)
		}
		var view carousel.View
		if resp.View != nil {
			view = *resp.View
		}
		return printView(cmd.OutOrStdout(), view, flagJSON)
	},
}

func init() {
	listCmd.Flags().BoolVar(&flagJSON, "json", false, "print the view as JSON")
	rootCmd.AddCommand(listCmd)
}

func printView(w io.Writer, view carousel.View, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	if len(view.Entries) == 0 {
		_, err := fmt.Fprintln(w, "NO ITEMS.")
		return err
	}
	for _, e := range view.Entries {
		line := fmt.Sprintf("<%d> %s", e.Index, e.Title)
		if e.Focused {
			line += " [focused]"
		}
		if e.Index == view.Selected {
			line = "> " + line
		} else {
			line = "  " + line
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
