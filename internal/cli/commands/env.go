package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"ush/internal/env"

	"github.com/spf13/cobra"
)

// EnvCommands creates environment management commands
func EnvCommands(deps *Deps) []*cobra.Command {
	commands := []*cobra.Command{}

	// ush list
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List all environments",
		Long:    "List every environment derived from git worktrees and running containers.",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			environments, err := deps.EnvOps.List(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(environments)
			}

			printEnvironments(cmd, environments)
			return nil
		},
	}
	listCmd.Flags().Bool("json", false, "Output as JSON")
	commands = append(commands, listCmd)

	// ush start <env>
	startCmd := &cobra.Command{
		Use:   "start <environment>",
		Short: "Start an environment's containers",
		Long: `Start an environment. Stopped containers are started in place; when no
containers exist yet the provision workflow builds them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := deps.Controller.Start(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			switch result.Outcome {
			case "already_running":
				fmt.Fprintf(cmd.OutOrStdout(), "Environment %s is already running\n", args[0])
			case "provisioned":
				fmt.Fprintf(cmd.OutOrStdout(), "Environment %s provisioned (backend port %d)\n", args[0], result.BackendPort)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "Environment %s started\n", args[0])
			}

			if result.BackendPort != 0 && !result.Healthy {
				fmt.Fprintf(cmd.OutOrStdout(), "Warning: backend health check did not pass yet\n")
			}
			return nil
		},
	}
	commands = append(commands, startCmd)

	// ush stop <env>
	stopCmd := &cobra.Command{
		Use:   "stop <environment>",
		Short: "Stop an environment's containers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Controller.Stop(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Environment %s stopped\n", args[0])
			return nil
		},
	}
	commands = append(commands, stopCmd)

	// ush create <env>
	createCmd := &cobra.Command{
		Use:   "create <environment>",
		Short: "Create a new environment worktree",
		Long:  "Create a git worktree and branch for a new environment.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			branch, _ := cmd.Flags().GetString("branch")
			base, _ := cmd.Flags().GetString("base")
			if branch == "" {
				branch = args[0]
			}

			state, err := deps.AppCtx.Get()
			if err != nil {
				return err
			}

			path, err := deps.Controller.Create(cmd.Context(), args[0], branch, base, state.Global.Storage.WorktreesPath)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created worktree %s at %s\n", args[0], path)
			return nil
		},
	}
	createCmd.Flags().StringP("branch", "b", "", "Branch name (default: environment name)")
	createCmd.Flags().String("base", "", "Base branch for the new worktree")
	commands = append(commands, createCmd)

	// ush destroy <env>
	destroyCmd := &cobra.Command{
		Use:   "destroy <environment>",
		Short: "Destroy an environment",
		Long: `Stop an environment's containers, kill its tmux session and remove its
worktree. Refuses when the worktree has uncommitted changes unless --force
is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			environment, err := deps.EnvOps.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			worktreePath := ""
			if environment.HasWorktree() {
				worktreePath = environment.Worktree.Path
			}

			if err := deps.Controller.Destroy(cmd.Context(), args[0], worktreePath, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Environment %s destroyed\n", args[0])
			return nil
		},
	}
	destroyCmd.Flags().BoolP("force", "f", false, "Destroy even with uncommitted changes")
	commands = append(commands, destroyCmd)

	return commands
}

func printEnvironments(cmd *cobra.Command, environments []env.Environment) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "NAME\tSTATUS\tBRANCH\tBACKEND\tWEBUI\tURL")
	for _, e := range environments {
		branch := "-"
		if e.HasWorktree() {
			branch = e.Worktree.Branch
		}

		backend := "-"
		if e.BackendPort != nil {
			backend = fmt.Sprintf("%d", *e.BackendPort)
		}

		webui := "-"
		if e.WebUIPort != nil {
			webui = fmt.Sprintf("%d", *e.WebUIPort)
		}

		url := e.LocalhostURL
		if e.TailscaleActive && e.TailscaleURL != "" {
			url = e.TailscaleURL
		}
		if url == "" {
			url = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", e.Name, e.Status, branch, backend, webui, url)
	}
}
