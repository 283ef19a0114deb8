package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/jump-spaces/internal/config"
	"github.com/MrSnakeDoc/jump-spaces/internal/migrate"
)

// migrateCommand creates the "migrate" command applying the Postgres schema.
func (c *CLI) migrateCommand() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				files, err := migrate.Files()
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintln(c.out, f)
				}
				return nil
			}

			s := config.LoadStorage()
			if s.Store != config.StorePostgres {
				return fmt.Errorf("migrate requires JUMP_STORE=%s, got %q", config.StorePostgres, s.Store)
			}
			if err := migrate.Up(cmd.Context(), s.PostgresDSN); err != nil {
				return err
			}
			c.logger.Info("migrations applied")
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "print the embedded migrations instead of applying them")
	return cmd
}
