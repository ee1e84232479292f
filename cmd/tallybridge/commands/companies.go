package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// companies: list companies known to the ERP instance.
func companiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "companies",
		Short: "List companies on the ERP instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			notifier.Status("querying companies")
			names, err := client.ListCompanies(cmd.Context(), limit)
			if err != nil {
				notifier.Status("query failed")
				return err
			}
			if len(names) == 0 {
				notifier.Status("no companies found")
				fmt.Println("no companies")
				return nil
			}
			notifier.Status(fmt.Sprintf("%d companies", len(names)))
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}
