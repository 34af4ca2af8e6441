package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/timvw/pane-carousel/internal/control"
)

var sendCmd = &cobra.Command{
	Use:   "send <command> [arg]",
	Short: "Send a command to the running daemon",
	Long: `Send one command to the running daemon. This is what the registered
key bindings run.

Commands:
  mark_pane          toggle a bookmark on the focused pane
  show_self          open the bookmark list
  key <name>         press a key in the list: up, down, enter, delete, esc, 0-9
  activate <index>   focus the bookmark at index
  state              print nothing, exit non-zero if the daemon is down`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := parseSendArgs(args)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		resp, err := newClient(cfg).Do(cmd.Context(), req)
		if err != nil {
			return err
		}
		if resp.Changed && resp.View != nil && req.Command == control.CommandMarkPane {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d bookmark(s)\n", len(resp.View.Entries))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func parseSendArgs(args []string) (control.Request, error) {
	req := control.Request{Command: args[0]}
	switch req.Command {
	case control.CommandKey:
		if len(args) != 2 {
			return req, fmt.Errorf("key requires a key name")
		}
		req.Key = args[1]
	case control.CommandActivate:
		if len(args) != 2 {
			return req, fmt.Errorf("activate requires an index")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return req, fmt.Errorf("invalid index %q: %w", args[1], err)
		}
		req.Index = n
	default:
		if len(args) != 1 {
			return req, fmt.Errorf("%s takes no argument", req.Command)
		}
	}
	return req, req.Validate()
}
