package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/stockroom/inventory/app/stock"
	"github.com/stockroom/inventory/models"
)

func NewProductCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "List, stock up and delete products",
	}

	cmd.AddCommand(newProductListCommand(opts))
	cmd.AddCommand(newProductUpsertCommand(opts))
	cmd.AddCommand(newProductDeleteCommand(opts))

	return cmd
}

func newProductListCommand(opts *RootOptions) *cobra.Command {
	var (
		search     string
		categoryID uint
		lowOnly    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			filters := models.ProductFilters{Search: search, CategoryID: categoryID}
			if lowOnly {
				filters.LowStockBelow = rt.svc.Threshold()
			}

			products, err := rt.svc.Products(cmd.Context(), filters)
			if err != nil {
				return failure(err)
			}

			views := make([]ProductView, len(products))
			for i, p := range products {
				views[i] = toProductView(p, rt.svc.Threshold())
			}

			return printer(cmd, opts).Print(views, func(w io.Writer) error {
				return writeProductTable(w, views)
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "only names containing this text (any case)")
	cmd.Flags().UintVar(&categoryID, "category", 0, "only products in this category id")
	cmd.Flags().BoolVar(&lowOnly, "low", false, "only products below the low-stock threshold")

	return cmd
}

func writeProductTable(w io.Writer, views []ProductView) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(w, "No products.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tQTY\tSTATUS")
	for _, v := range views {
		status := "OK"
		if v.LowStock {
			status = "LOW"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", v.ID, v.Name, v.Category, v.Price, v.Quantity, status)
	}
	return tw.Flush()
}

func newProductUpsertCommand(opts *RootOptions) *cobra.Command {
	var (
		price      string
		categoryID uint
		quantity   int
	)

	cmd := &cobra.Command{
		Use:   "upsert NAME",
		Short: "Add stock to a product, creating it if the name is new",
		Long: `Adds --qty units to the product whose name matches NAME ignoring case and
overwrites its price. If no such product exists it is created in --category.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := decimal.NewFromString(price)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("invalid price %q", price), err)
			}

			rt, err := openRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			res, err := rt.svc.UpsertProduct(cmd.Context(), stock.UpsertRequest{
				Name:       args[0],
				Price:      p,
				CategoryID: categoryID,
				Delta:      quantity,
			})
			if err != nil {
				return failure(err)
			}

			view := toProductView(*res.Product, rt.svc.Threshold())
			out := struct {
				Created bool        `json:"created" yaml:"created"`
				Product ProductView `json:"product" yaml:"product"`
			}{res.Created, view}

			return printer(cmd, opts).Print(out, func(w io.Writer) error {
				if res.Created {
					_, err := fmt.Fprintf(w, "Added new product %s with %d units\n", view.Name, view.Quantity)
					return err
				}
				_, err := fmt.Fprintf(w, "Updated %s: now %d units at %s\n", view.Name, view.Quantity, view.Price)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&price, "price", "0", "unit price")
	cmd.Flags().UintVar(&categoryID, "category", 0, "category id (required)")
	cmd.Flags().IntVar(&quantity, "qty", 1, "units to add")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newProductDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a product; its order history is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			rt, err := openRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.svc.DeleteProduct(cmd.Context(), id); err != nil {
				return failure(err)
			}

			return printer(cmd, opts).Print(map[string]uint{"deleted": id}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Deleted product %d\n", id)
				return err
			})
		},
	}
}
