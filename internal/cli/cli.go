// Package cli implements the jump command-line interface.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
	"github.com/MrSnakeDoc/jump-spaces/internal/version"
)

const appName = "jump"

// CLI holds shared state for all commands.
type CLI struct {
	out     io.Writer
	verbose bool
	logger  logger.Logger
}

// New creates a CLI writing command output to out.
func New(out io.Writer) *CLI {
	return &CLI{out: out, logger: logger.Nop()}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Jump keeps bookmarks organized in spaces and collections",
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "info"
			if c.verbose {
				level = "debug"
			}
			c.logger = logger.New(level, true)
		},
	}

	root.SetOut(c.out)
	info := version.Get()
	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\ngo: %s\n",
		appName, info.Version, info.Commit, info.BuildDate, info.GoVersion))
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.migrateCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.versionCommand())

	return root
}
