package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintdesk/internal/cli/formatter"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage deliverables and packages",
	}

	cmd.AddCommand(
		newCatalogImportCmd(app),
		newCatalogListCmd(app),
		newCatalogActiveCmd(app, "activate", true),
		newCatalogActiveCmd(app, "deactivate", false),
	)

	return cmd
}

func newCatalogImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import deliverables and packages from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Catalog.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d deliverables and %d packages.\n", res.DeliverableCount, res.PackageCount)
			return nil
		},
	}
}

func newCatalogListCmd(app *App) *cobra.Command {
	var (
		all      bool
		packages bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deliverables, or packages with --packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if packages {
				ps, err := app.Catalog.ListPackages(cmd.Context(), !all)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatPackages(ps))
				return nil
			}
			ds, err := app.Catalog.ListDeliverables(cmd.Context(), !all)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatDeliverables(ds, app.currency()))
			return nil
		},
	}
	addListFlags(cmd.Flags(), &all, nil)
	cmd.Flags().BoolVarP(&packages, "packages", "p", false, "list packages instead of deliverables")
	return cmd
}

func newCatalogActiveCmd(app *App, use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " DELIVERABLE_ID",
		Short: fmt.Sprintf("Mark a deliverable %sd", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Catalog.SetDeliverableActive(cmd.Context(), args[0], active); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deliverable %s %sd.\n", args[0], use)
			return nil
		},
	}
}
