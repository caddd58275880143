package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Vrilya/wow-addon-updater/internal/catalog"
	"github.com/Vrilya/wow-addon-updater/internal/ui/styles"
)

var installInstallation string

var addonsInstallCmd = &cobra.Command{
	Use:   "install <name>",
	Short: "Install an addon from the addon host",
	Long: `Search the addon host for the named addon, download its latest release
compatible with the installation's game version and start tracking it.

An exact name match is preferred; otherwise the first search hit is
taken.

Examples:
  wow-addon-updater addons install WeakAuras
  wow-addon-updater addons install "Deadly Boss Mods" --installation "Classic"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := getUpdater()
		store := u.Store()

		inst := store.ActiveInstallation()
		if installInstallation != "" {
			var err error
			inst, err = resolveInstallation(store, installInstallation)
			if err != nil {
				return err
			}
		}
		if inst == nil {
			return fmt.Errorf("no installations configured")
		}

		query := strings.Join(args, " ")
		results, err := u.Catalog().Search(query, inst.GameVersionID)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if len(results) == 0 {
			return fmt.Errorf("no addon found for %q", query)
		}

		hit := results[0]
		for i := range results {
			if strings.EqualFold(results[i].Name, query) {
				hit = results[i]
				break
			}
		}

		releases, err := u.Catalog().Releases(hit.ID)
		if err != nil {
			return fmt.Errorf("failed to fetch releases for %s: %w", hit.Name, err)
		}
		release := catalog.FirstCompatible(releases, inst.GameVersionID)
		if release == nil {
			return fmt.Errorf("%s has no release compatible with this game version", hit.Name)
		}

		fmt.Printf("Installing %s %s into %s...\n",
			styles.AddonName.Render(hit.Name), release.Version(), inst.Name)

		if err := u.InstallAddon(hit.Name, hit.ID, release.ID, inst.ID); err != nil {
			return err
		}

		fmt.Println(styles.FormatSuccess(fmt.Sprintf("Installed %s %s", hit.Name, release.Version())))
		return nil
	},
}

func init() {
	addonsInstallCmd.Flags().StringVarP(&installInstallation, "installation", "i", "", "Installation to install into (defaults to the active one)")
	addonsCmd.AddCommand(addonsInstallCmd)
}
