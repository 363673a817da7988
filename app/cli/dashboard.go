package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/stockroom/inventory/app/dashboard"
)

func NewAlertsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "List products below the low-stock threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			low, err := rt.svc.LowStock(cmd.Context())
			if err != nil {
				return failure(err)
			}

			threshold := rt.svc.Threshold()
			return printer(cmd, opts).Print(dashboard.ToAlerts(threshold, low), func(w io.Writer) error {
				if len(low) == 0 {
					_, err := fmt.Fprintln(w, "All products are sufficiently stocked.")
					return err
				}
				for _, p := range low {
					if _, err := fmt.Fprintf(w, "LOW  %-24s %4d (below %d)\n", p.Name, p.Quantity, threshold); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func NewDashboardCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show inventory totals and low-stock alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			summary, low, err := dashboard.Build(cmd.Context(), rt.svc)
			if err != nil {
				return failure(err)
			}

			return printer(cmd, opts).Print(toSummaryView(summary), func(w io.Writer) error {
				return dashboard.Render(w, summary, low)
			})
		},
	}
}
