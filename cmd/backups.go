package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Vrilya/wow-addon-updater/internal/ui/styles"
)

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "Manage addon backups",
	Long: `List and restore the backups created by addon removal.

Examples:
  wow-addon-updater backups list WeakAuras
  wow-addon-updater backups restore WeakAuras 20260115-093000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var backupsListCmd = &cobra.Command{
	Use:   "list <addon>",
	Short: "List backups of an addon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backups, err := getUpdater().Backups().List(args[0])
		if err != nil {
			return fmt.Errorf("failed to list backups: %w", err)
		}
		if len(backups) == 0 {
			fmt.Printf("No backups for %s\n", args[0])
			return nil
		}
		for _, timestamp := range backups {
			fmt.Println(styles.Bullet.String() + " " + timestamp)
		}
		return nil
	},
}

var restoreInstallation string

var backupsRestoreCmd = &cobra.Command{
	Use:   "restore <addon> <timestamp>",
	Short: "Restore an addon backup",
	Long: `Copy a backup's folders back into the installation's addon directory,
replacing whatever is there. The addon is not re-tracked; run detect or
install it again for update tracking.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := getUpdater().Store()

		inst := store.ActiveInstallation()
		if restoreInstallation != "" {
			var err error
			inst, err = resolveInstallation(store, restoreInstallation)
			if err != nil {
				return err
			}
		}
		if inst == nil {
			return fmt.Errorf("no installations configured")
		}

		if err := getUpdater().Backups().Restore(args[0], args[1], inst.AddonPath); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}

		fmt.Println(styles.FormatSuccess(fmt.Sprintf("Restored %s from %s into %s", args[0], args[1], inst.Name)))
		return nil
	},
}

func init() {
	backupsRestoreCmd.Flags().StringVarP(&restoreInstallation, "installation", "i", "", "Installation to restore into (defaults to the active one)")
	backupsCmd.AddCommand(backupsListCmd)
	backupsCmd.AddCommand(backupsRestoreCmd)
	rootCmd.AddCommand(backupsCmd)
}
