package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"ush/internal/db"
	"ush/internal/operations"

	"github.com/spf13/cobra"
)

// TicketCommands creates ticket board commands
func TicketCommands(deps *Deps) []*cobra.Command {
	commands := []*cobra.Command{}

	// ush ticket list
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List tickets",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")

			tickets, err := deps.TicketOps.List(cmd.Context(), db.TicketStatus(status))
			if err != nil {
				return err
			}

			printTickets(cmd, tickets)
			return nil
		},
	}
	listCmd.Flags().StringP("status", "s", "", "Filter by status")
	commands = append(commands, listCmd)

	// ush ticket create <title>
	createCmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			path, _ := cmd.Flags().GetString("path")
			branch, _ := cmd.Flags().GetString("branch")
			window, _ := cmd.Flags().GetString("window")

			ticket := &db.Ticket{
				Title:          args[0],
				Status:         db.TicketStatus(status),
				WorktreePath:   path,
				BranchName:     branch,
				TmuxWindowName: window,
			}
			if ticket.Status == "" {
				ticket.Status = db.StatusBacklog
			}

			if err := deps.TicketOps.Create(cmd.Context(), ticket); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created ticket %s\n", ticket.ID)
			return nil
		},
	}
	createCmd.Flags().StringP("status", "s", "", "Initial status (default: backlog)")
	createCmd.Flags().String("path", "", "Worktree path to attach")
	createCmd.Flags().String("branch", "", "Branch name to attach")
	createCmd.Flags().String("window", "", "Tmux window name to attach")
	commands = append(commands, createCmd)

	// ush ticket set-status <id> <status>
	setStatusCmd := &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Move a ticket to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.TicketOps.SetStatus(cmd.Context(), args[0], db.TicketStatus(args[1])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ticket %s moved to %s\n", args[0], args[1])
			return nil
		},
	}
	commands = append(commands, setStatusCmd)

	// ush ticket find-by-path <path>
	commands = append(commands, findCommand(deps,
		"find-by-path <path>", "Find tickets by worktree path",
		func(ctx context.Context, value string) ([]db.Ticket, error) {
			return deps.TicketOps.FindByWorktreePath(ctx, value)
		}))

	// ush ticket find-by-branch <branch>
	commands = append(commands, findCommand(deps,
		"find-by-branch <branch>", "Find tickets by branch name",
		func(ctx context.Context, value string) ([]db.Ticket, error) {
			return deps.TicketOps.FindByBranch(ctx, value)
		}))

	// ush ticket find-by-window <window>
	commands = append(commands, findCommand(deps,
		"find-by-window <window>", "Find tickets by tmux window name",
		func(ctx context.Context, value string) ([]db.Ticket, error) {
			return deps.TicketOps.FindByWindow(ctx, value)
		}))

	// ush ticket move-to-review <identifier>
	commands = append(commands, moveCommand(deps,
		"move-to-review <identifier>",
		"Move an environment's tickets into review",
		`Move every ticket attached to the environment into in_review. The
identifier is resolved as a worktree path, then a branch name, then a tmux
window name. Tickets already in review or done are left alone.`,
		deps.TicketOps.MoveToReview))

	// ush ticket move-to-progress <identifier>
	commands = append(commands, moveCommand(deps,
		"move-to-progress <identifier>",
		"Move an environment's tickets into in_progress",
		"",
		deps.TicketOps.MoveToProgress))

	// ush ticket move-to-done <identifier>
	commands = append(commands, moveCommand(deps,
		"move-to-done <identifier>",
		"Move an environment's tickets into done",
		"",
		deps.TicketOps.MoveToDone))

	return commands
}

func findCommand(deps *Deps, use, short string, find func(context.Context, string) ([]db.Ticket, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tickets, err := find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printTickets(cmd, tickets)
			return nil
		},
	}
}

func moveCommand(deps *Deps, use, short, long string, move func(context.Context, string) (*operations.MoveResult, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := move(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if len(result.Moved) == 0 && len(result.Skipped) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No tickets found for %s\n", args[0])
				return nil
			}

			for _, t := range result.Moved {
				fmt.Fprintf(cmd.OutOrStdout(), "Moved %s (%s) to %s\n", t.ID, t.Title, t.Status)
			}
			for _, t := range result.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped %s (%s), already %s\n", t.ID, t.Title, t.Status)
			}
			return nil
		},
	}
}

func printTickets(cmd *cobra.Command, tickets []db.Ticket) {
	if len(tickets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tickets found")
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tSTATUS\tTITLE\tBRANCH\tWINDOW")
	for _, t := range tickets {
		branch := t.BranchName
		if branch == "" {
			branch = "-"
		}
		window := t.TmuxWindowName
		if window == "" {
			window = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Title, branch, window)
	}
}
