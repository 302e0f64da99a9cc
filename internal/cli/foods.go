package cli

import (
	"github.com/spf13/cobra"
)

func newFoodsCmd(output *string) *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "foods",
		Short: "List the food table used to autofill nutrients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			return renderFoods(cmd.OutOrStdout(), *output, catalog.Items())
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Food table (.yaml or .xlsx) replacing the built-in one")
	return cmd
}
