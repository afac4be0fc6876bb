package cli

import (
	"github.com/spf13/cobra"
)

// createRootCommand creates the root command with global flags
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ush",
		Short: "Parallel development environment manager for the ushadow stack",
		Long: `ush manages parallel development environments, where each environment is
a git worktree plus a set of docker compose containers and, optionally, a
tmux session. It reconciles live git, docker and tmux state into one
coherent view, drives environment lifecycle transitions, and tracks work
tickets against environments.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	return rootCmd
}
