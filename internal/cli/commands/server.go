package commands

import (
	"ush/internal/server"
	"ush/internal/validation"

	"github.com/spf13/cobra"
)

// ServerCommands creates server management commands
func ServerCommands(deps *Deps) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the status API server",
		Long: `Start the HTTP server that exposes the reconciled environment view and
the ticket board. Blocks until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetInt("port")

			state, err := deps.AppCtx.Get()
			if err != nil {
				return err
			}

			cfg := server.DefaultConfig()
			if port != 0 {
				if err := validation.Port(port); err != nil {
					return err
				}
				cfg.Port = port
			} else if state.Global != nil && state.Global.Server.Port != 0 {
				cfg.Port = state.Global.Server.Port
			}

			srv := server.New(cfg, deps.AppCtx)
			srv.SetDependencies(deps.EnvOps, deps.TicketOps, deps.Controller, deps.Database)

			return srv.Start(cmd.Context())
		},
	}
	startCmd.Flags().IntP("port", "p", 0, "Port to listen on")

	return []*cobra.Command{startCmd}
}
