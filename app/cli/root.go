// Package cli implements the stockroom command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/stockroom/inventory/app/stock"
	"github.com/stockroom/inventory/config"
	"github.com/stockroom/inventory/models"
	"github.com/stockroom/inventory/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format  string
	EnvFile string
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "stockroom",
		Short: "Warehouse inventory: categories, products, stock issuance",
		Long: `stockroom keeps a warehouse inventory of products grouped into categories,
records every stock issuance, and flags products that are running low.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file read before the environment")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewCategoryCommand(opts))
	cmd.AddCommand(NewProductCommand(opts))
	cmd.AddCommand(NewIssueCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewAlertsCommand(opts))
	cmd.AddCommand(NewDashboardCommand(opts))

	return cmd
}

// runtime is the wiring every store-backed command needs.
type runtime struct {
	cfg *config.Config
	log *slog.Logger
	db  *gorm.DB
	svc *stock.Service
}

// openRuntime loads configuration and connects to the store. Logs go to
// logOut so they never mix with command output.
func openRuntime(ctx context.Context, opts *RootOptions, logOut io.Writer) (*runtime, error) {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat, logOut)

	db, err := models.Open(ctx, cfg.Store, log)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to connect to store", err)
	}

	svc := stock.NewService(
		models.NewCategoriesRepository(db),
		models.NewProductsRepository(db),
		models.NewOrdersRepository(db),
		stock.Options{
			Threshold: cfg.LowStockThreshold,
			CacheTTL:  cfg.CacheTTL,
			Logger:    log,
		},
	)

	return &runtime{cfg: cfg, log: log, db: db, svc: svc}, nil
}

func (rt *runtime) Close() {
	if err := models.Close(rt.db); err != nil {
		rt.log.Warn("failed to close store", "error", err)
	}
}

func printer(cmd *cobra.Command, opts *RootOptions) *Printer {
	return &Printer{Format: opts.Format, Writer: cmd.OutOrStdout()}
}

// failure maps a refused operation to ExitFailure; anything else is a
// command error.
func failure(err error) error {
	var stockErr *models.InsufficientStockError
	switch {
	case stock.IsValidation(err),
		errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrCategoryNotFound),
		errors.Is(err, models.ErrCategoryInUse),
		errors.Is(err, models.ErrCategoryExists),
		errors.As(err, &stockErr):
		return WrapExitError(ExitFailure, "refused", err)
	default:
		return WrapExitError(ExitCommandError, "failed", err)
	}
}
