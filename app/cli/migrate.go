package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/stockroom/inventory/models"
)

func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the store schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := models.Migrate(rt.db); err != nil {
				return WrapExitError(ExitCommandError, "failed to migrate schema", err)
			}
			rt.log.Debug("schema migrated", "driver", rt.cfg.Store.Driver)

			return printer(cmd, opts).Print(map[string]string{"status": "ok"}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, "schema up to date")
				return err
			})
		},
	}
}
