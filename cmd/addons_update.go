package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Vrilya/wow-addon-updater/internal/ui/scanprogress"
	"github.com/Vrilya/wow-addon-updater/internal/ui/styles"
)

var (
	updateAll          bool
	updateInstallation string
)

var addonsUpdateCmd = &cobra.Command{
	Use:   "update [name]",
	Short: "Update addon(s)",
	Long: `Update a specific addon or, with --all, every addon the last scan
flagged as stale.

A failed download leaves the addon's stored state untouched, so it stays
flagged and is retried on the next run.

Examples:
  wow-addon-updater addons update WeakAuras
  wow-addon-updater addons update WeakAuras --installation "Classic"
  wow-addon-updater addons update --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if updateAll {
			if len(args) > 0 {
				return fmt.Errorf("--all takes no addon name")
			}
			return updateAllAddons()
		}
		if len(args) == 0 {
			return fmt.Errorf("addon name required (or --all)")
		}
		return updateSingleAddon(args[0])
	},
}

func updateSingleAddon(name string) error {
	addon, err := findTrackedAddon(getUpdater(), name, updateInstallation)
	if err != nil {
		return err
	}

	fmt.Printf("Updating %s...\n", styles.AddonName.Render(addon.Name))
	if err := getUpdater().UpdateAddon(addon); err != nil {
		return err
	}

	fmt.Println(styles.FormatSuccess(fmt.Sprintf("Updated %s", addon.Name)))
	return nil
}

func updateAllAddons() error {
	u := getUpdater()
	addons := u.LoadAddons()

	stale := 0
	for i := range addons {
		if addons[i].NeedsUpdate {
			stale++
		}
	}
	if stale == 0 {
		fmt.Println("No updates pending. Run a scan first to check for new releases.")
		return nil
	}

	var updated int
	var failed []string
	err := scanprogress.Run("Updating addons", func(report func(int, int, string)) error {
		updated, failed = u.UpdateAll(addons, report)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nUpdated %d of %d addon(s)\n", updated, stale)
	for _, name := range failed {
		fmt.Println(styles.FormatError("failed: " + name))
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d addon(s) failed to update", len(failed))
	}
	return nil
}

func init() {
	addonsUpdateCmd.Flags().BoolVarP(&updateAll, "all", "a", false, "Update every addon with a pending update")
	addonsUpdateCmd.Flags().StringVarP(&updateInstallation, "installation", "i", "", "Installation the addon is tracked in")
	addonsCmd.AddCommand(addonsUpdateCmd)
}
