package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stockroom/inventory/app/stock"
)

func NewIssueCommand(opts *RootOptions) *cobra.Command {
	var (
		product  string
		quantity int
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Take stock out of the warehouse and record the order",
		Example: `  stockroom issue --product Milk --qty 20
  stockroom issue --product 7 --qty 1 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			// --product is an id when numeric, a name otherwise.
			var productID uint
			if id, err := strconv.ParseUint(product, 10, 64); err == nil && id > 0 {
				productID = uint(id)
			} else {
				p, err := rt.svc.ProductByName(cmd.Context(), product)
				if err != nil {
					return failure(err)
				}
				productID = p.ID
			}

			res, err := rt.svc.IssueStock(cmd.Context(), stock.IssueRequest{
				ProductID: productID,
				Quantity:  quantity,
			})
			if err != nil {
				return failure(err)
			}

			out := struct {
				Order     OrderView `json:"order" yaml:"order"`
				Remaining int       `json:"remaining" yaml:"remaining"`
			}{toOrderView(*res.Order), res.Product.Quantity}

			return printer(cmd, opts).Print(out, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Issued %d x %s for %s (%d left)\n",
					out.Order.Quantity, out.Order.Product, out.Order.TotalPrice, out.Remaining)
				if err == nil && out.Remaining < rt.svc.Threshold() {
					_, err = fmt.Fprintf(w, "Low stock: %s is below %d\n", out.Order.Product, rt.svc.Threshold())
				}
				return err
			})
		},
	}

	cmd.Flags().StringVar(&product, "product", "", "product id or name (required)")
	cmd.Flags().IntVar(&quantity, "qty", 1, "units to issue")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

func NewHistoryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show issued orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			orders, err := rt.svc.Orders(cmd.Context())
			if err != nil {
				return failure(err)
			}

			views := make([]OrderView, len(orders))
			for i, o := range orders {
				views[i] = toOrderView(o)
			}

			return printer(cmd, opts).Print(views, func(w io.Writer) error {
				if len(views) == 0 {
					_, err := fmt.Fprintln(w, "No orders yet.")
					return err
				}
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "DATE\tPRODUCT\tQTY\tTOTAL")
				for _, v := range views {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
						v.CreatedAt.Format("2006-01-02 15:04"), v.Product, v.Quantity, v.TotalPrice)
				}
				return tw.Flush()
			})
		},
	}
}
