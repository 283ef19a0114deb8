package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/jump-spaces/internal/app"
)

// serveCommand creates the "serve" command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (configured through JUMP_* environment variables)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context())
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
}
