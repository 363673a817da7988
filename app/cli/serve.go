package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stockroom/inventory/app/web"
	"github.com/stockroom/inventory/models"
)

type ServeOptions struct {
	*RootOptions
	Migrate bool
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "apply the schema before serving")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions, cmd *cobra.Command) error {
	rt, err := openRuntime(ctx, opts.RootOptions, os.Stdout)
	if err != nil {
		return err
	}
	defer rt.Close()

	if opts.Migrate {
		if err := models.Migrate(rt.db); err != nil {
			return WrapExitError(ExitCommandError, "failed to migrate schema", err)
		}
	}

	sqlDB, err := rt.db.DB()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to access store", err)
	}

	srv := &http.Server{
		Addr: rt.cfg.Addr(),
		Handler: web.NewRouter(rt.svc, web.RouterOptions{
			Ping:   sqlDB.PingContext,
			Logger: rt.log,
		}),
		ReadTimeout:  rt.cfg.Server.ReadTimeout,
		WriteTimeout: rt.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info("server listening",
			"address", srv.Addr,
			"store_driver", rt.cfg.Store.Driver,
			"low_stock_threshold", rt.svc.Threshold())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return WrapExitError(ExitCommandError, "server failed", err)
		}
		return nil
	case <-ctx.Done():
	}

	rt.log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return WrapExitError(ExitCommandError, "server forced to shutdown", err)
	}

	rt.log.Info("server stopped gracefully")
	return nil
}
