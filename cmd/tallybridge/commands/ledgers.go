package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ledgers <needle>: search ledger names containing <needle>.
func ledgersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ledgers <needle>",
		Short: "Search ledgers whose name contains the given text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			needle := args[0]
			notifier.Status(fmt.Sprintf("searching ledgers: %s", needle))
			names, err := client.SearchLedgers(cmd.Context(), needle, limit)
			if err != nil {
				notifier.Status("query failed")
				return err
			}
			if len(names) == 0 {
				notifier.Status("no matches")
				fmt.Println("no matches")
				return nil
			}
			notifier.Status(fmt.Sprintf("%d matches", len(names)))
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}
