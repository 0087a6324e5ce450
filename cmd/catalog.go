package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omrilahav/cursor-for-designers/internal/catalog"
)

func newCatalogCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the lesson and achievement catalog",
	}

	validate := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a catalog file and report achievement conditions that can never unlock",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cat  *catalog.Catalog
				name string
				err  error
			)
			switch {
			case len(args) == 1:
				name = args[0]
				cat, err = catalog.Load(name)
			case e.cfg.Catalog != "":
				name = e.cfg.Catalog
				cat, err = catalog.Load(name)
			default:
				name = "built-in catalog"
				cat = catalog.Default()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d lessons in %d categories, %d achievements, %d levels\n",
				name, len(cat.Lessons), len(cat.Categories()), len(cat.Definitions), len(cat.Levels))
			for _, w := range cat.Warnings {
				fmt.Fprintf(out, "  warning: %s\n", w)
			}
			if n := len(cat.Warnings); n > 0 {
				return fmt.Errorf("%d achievement condition(s) can never be met", n)
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	}

	cmd.AddCommand(validate)
	return cmd
}
