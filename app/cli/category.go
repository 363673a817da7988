package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewCategoryCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "List, add and delete categories",
	}

	cmd.AddCommand(newCategoryListCommand(opts))
	cmd.AddCommand(newCategoryAddCommand(opts))
	cmd.AddCommand(newCategoryDeleteCommand(opts))

	return cmd
}

func newCategoryListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			categories, err := rt.svc.Categories(cmd.Context())
			if err != nil {
				return failure(err)
			}

			views := make([]CategoryView, len(categories))
			for i, c := range categories {
				views[i] = toCategoryView(c)
			}

			return printer(cmd, opts).Print(views, func(w io.Writer) error {
				if len(views) == 0 {
					_, err := fmt.Fprintln(w, "No categories yet.")
					return err
				}
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
				for _, v := range views {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", v.ID, v.Name, v.Description)
				}
				return tw.Flush()
			})
		},
	}
}

func newCategoryAddCommand(opts *RootOptions) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			category, err := rt.svc.CreateCategory(cmd.Context(), args[0], description)
			if err != nil {
				return failure(err)
			}

			view := toCategoryView(*category)
			return printer(cmd, opts).Print(view, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Added category %q (id %d)\n", view.Name, view.ID)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "optional description")

	return cmd
}

func newCategoryDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a category that no product uses",
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

			if err := rt.svc.DeleteCategory(cmd.Context(), id); err != nil {
				return failure(err)
			}

			return printer(cmd, opts).Print(map[string]uint{"deleted": id}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Deleted category %d\n", id)
				return err
			})
		},
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid id %q", raw))
	}
	return uint(id), nil
}
