package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/jump-spaces/internal/app"
	"github.com/MrSnakeDoc/jump-spaces/internal/codec"
	"github.com/MrSnakeDoc/jump-spaces/internal/config"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
	"github.com/MrSnakeDoc/jump-spaces/internal/sources/homepage"
	"github.com/MrSnakeDoc/jump-spaces/internal/utils"
	"github.com/MrSnakeDoc/jump-spaces/internal/workspace"
)

// withStorage opens the configured snapshot store for the duration of fn.
func (c *CLI) withStorage(ctx context.Context, fn func(st *app.Storage) error) error {
	st, err := app.OpenStorage(ctx, config.LoadStorage(), c.logger)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

// exportCommand creates the "export" command writing a user's graph as an
// export document.
func (c *CLI) exportCommand() *cobra.Command {
	var userID, spaceID, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's spaces as an export document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStorage(cmd.Context(), func(st *app.Storage) error {
				snap, err := st.Snapshots.Load(cmd.Context(), userID)
				if errors.Is(err, errs.ErrNotFound) {
					return fmt.Errorf("no snapshot stored for user %q", userID)
				}
				if err != nil {
					return err
				}

				doc := codec.Export(snap.Spaces)
				if spaceID != "" {
					if doc, err = codec.ExportSpace(snap.Spaces, spaceID); err != nil {
						return err
					}
				}

				var w io.Writer = c.out
				if outPath != "" {
					f, err := os.Create(outPath)
					if err != nil {
						return err
					}
					defer utils.MustClose(f, outPath, c.logger)
					w = f
				}
				if err := codec.Encode(w, doc); err != nil {
					return err
				}
				c.logger.Debug("exported snapshot",
					logger.String("user", userID),
					logger.Int("spaces", len(doc.Spaces)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&spaceID, "space", "", "export a single space")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// importCommand creates the "import" command loading an export document, or
// with --homepage a Homepage services.yaml or bookmarks.yaml, into a user's graph.
func (c *CLI) importCommand() *cobra.Command {
	var userID, spaceID, kind string

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import an export document or a Homepage config for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStorage(ctx, func(st *app.Storage) error {
				ws := workspace.New(workspace.Options{Store: st.Snapshots, Logger: c.logger})

				if kind != "" {
					k, err := homepage.ParseKind(kind)
					if err != nil {
						return err
					}
					groups, err := homepage.LoadFile(k, args[0])
					if err != nil {
						return err
					}
					sp, err := ws.ImportHomepage(ctx, userID, spaceID, groups)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.out, "imported %d groups into space %q\n", len(groups), sp.Name)
					return nil
				}

				data, err := readInput(cmd.InOrStdin(), args[0])
				if err != nil {
					return err
				}
				snap, err := ws.Import(ctx, userID, data)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "imported %d spaces\n", len(snap.Spaces))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&kind, "homepage", "", "read a Homepage config of this kind (services|bookmarks)")
	cmd.Flags().StringVar(&spaceID, "space", "", "target space of a Homepage import (default current)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
