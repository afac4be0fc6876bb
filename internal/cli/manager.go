// Package cli assembles the cobra command tree for ush
package cli

import (
	"context"

	"ush/internal/cli/commands"

	"github.com/spf13/cobra"
)

// Manager handles CLI operations
type Manager struct {
	deps    *commands.Deps
	rootCmd *cobra.Command
}

// New creates a new CLI manager with the given dependencies
func New(deps *commands.Deps) *Manager {
	m := &Manager{
		deps:    deps,
		rootCmd: createRootCommand(),
	}
	m.setupCommands()
	return m
}

// Execute executes the CLI with the given arguments
func (m *Manager) Execute(args []string) error {
	return m.ExecuteWithContext(context.Background(), args)
}

// ExecuteWithContext executes the CLI with the given arguments and context
func (m *Manager) ExecuteWithContext(ctx context.Context, args []string) error {
	m.rootCmd.SetArgs(args)
	return m.rootCmd.ExecuteContext(ctx)
}

// setupCommands sets up all CLI commands
func (m *Manager) setupCommands() {
	// Environment commands live at the top level
	for _, cmd := range commands.EnvCommands(m.deps) {
		m.rootCmd.AddCommand(cmd)
	}

	// Ticket board commands
	ticketCmd := &cobra.Command{
		Use:     "ticket",
		Short:   "Ticket board commands",
		Aliases: []string{"tickets", "t"},
	}
	for _, cmd := range commands.TicketCommands(m.deps) {
		ticketCmd.AddCommand(cmd)
	}
	m.rootCmd.AddCommand(ticketCmd)

	// Tmux session commands
	tmuxCmd := &cobra.Command{
		Use:   "tmux",
		Short: "Tmux session commands",
	}
	for _, cmd := range commands.TmuxCommands(m.deps) {
		tmuxCmd.AddCommand(cmd)
	}
	m.rootCmd.AddCommand(tmuxCmd)

	// Server commands
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Status API server commands",
	}
	for _, cmd := range commands.ServerCommands(m.deps) {
		serverCmd.AddCommand(cmd)
	}
	m.rootCmd.AddCommand(serverCmd)
}
