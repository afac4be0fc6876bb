package commands

import (
	"fmt"

	"ush/internal/errors"
	"ush/internal/tmux"

	"github.com/spf13/cobra"
)

// TmuxCommands creates tmux session management commands
func TmuxCommands(deps *Deps) []*cobra.Command {
	commands := []*cobra.Command{}

	// ush tmux bind <environment>
	bindCmd := &cobra.Command{
		Use:   "bind <environment>",
		Short: "Bind an environment to a tmux window",
		Long: `Ensure the environment's tmux session exists and contains a window named
after its branch, rooted at the worktree path. Safe to run repeatedly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			environment, err := deps.EnvOps.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !environment.HasWorktree() {
				return errors.NewWithDetails(errors.ErrGitWorktreeFailed,
					"environment has no worktree to bind", args[0])
			}

			session := tmux.SessionName(environment.Name)
			window := tmux.WindowName(environment.Worktree.Branch)

			if err := deps.Tmux.BindWindow(cmd.Context(), session, window, environment.Worktree.Path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Bound %s to %s:%s\n", args[0], session, window)
			return nil
		},
	}
	commands = append(commands, bindCmd)

	// ush tmux send <path> <key>
	sendCmd := &cobra.Command{
		Use:   "send <path> <key>",
		Short: "Send a key to the pane working in a path",
		Long: `Find the tmux pane whose working directory best matches the path and send
it a key. Panes running an agent process win ties.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pane, err := deps.Tmux.FindPaneForPath(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if err := deps.Tmux.SendKey(cmd.Context(), pane.Target, args[1]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Sent %q to %s\n", args[1], pane.Target)
			return nil
		},
	}
	commands = append(commands, sendCmd)

	// ush tmux windows <environment>
	windowsCmd := &cobra.Command{
		Use:   "windows <environment>",
		Short: "List the windows of an environment's session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			windows, err := deps.Tmux.ListWindows(cmd.Context(), tmux.SessionName(args[0]))
			if err != nil {
				return err
			}

			if len(windows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No windows found")
				return nil
			}
			for _, w := range windows {
				fmt.Fprintf(cmd.OutOrStdout(), "%d.%d: %s (%s)\n", w.WindowIndex, w.PaneIndex, w.CurrentCommand, w.Activity)
			}
			return nil
		},
	}
	commands = append(commands, windowsCmd)

	// ush tmux kill <environment>
	killCmd := &cobra.Command{
		Use:   "kill <environment>",
		Short: "Kill an environment's tmux session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Tmux.KillSession(cmd.Context(), tmux.SessionName(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Killed session %s\n", tmux.SessionName(args[0]))
			return nil
		},
	}
	commands = append(commands, killCmd)

	return commands
}
