package cmd

import (
	"github.com/spf13/cobra"
)

var addonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked addons",
	Long: `List every tracked addon with its stored update state from the last
scan. No network requests are made; run a scan to refresh the state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		printAddonTable(getUpdater().LoadAddons())
		return nil
	},
}

func init() {
	addonsCmd.AddCommand(addonsListCmd)
}
