package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Vrilya/wow-addon-updater/internal/detect"
	"github.com/Vrilya/wow-addon-updater/internal/ui/scanprogress"
	"github.com/Vrilya/wow-addon-updater/internal/ui/styles"
)

var (
	detectInstallFlag  bool
	detectInstallation string
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect installed addons and start tracking them",
	Long: `Match the addon folders already on disk against the bundled addon
database and register every recognized addon in the config.

By default detected addons are only registered; the next scan flags them
all as needing an update since their installed release is unknown. With
--install each detected addon is downloaded fresh immediately, which
also records its real version.

Examples:
  wow-addon-updater detect
  wow-addon-updater detect --install
  wow-addon-updater detect --installation "Classic"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := getUpdater()
		store := u.Store()

		inst := store.ActiveInstallation()
		if detectInstallation != "" {
			var err error
			inst, err = resolveInstallation(store, detectInstallation)
			if err != nil {
				return err
			}
		}
		if inst == nil {
			return fmt.Errorf("no installations configured")
		}

		detected, skinFound := u.Detector().Detect(inst.AddonPath, inst.GameVersionID, true)

		if skinFound && !inst.IncludeElvUI {
			inst.IncludeElvUI = true
			store.UpdateInstallation(inst)
			fmt.Println(styles.FormatSuccess("ElvUI folders found, skin tracking enabled"))
		}

		if len(detected) == 0 {
			fmt.Println("No recognizable addons found in " + inst.AddonPath)
			return nil
		}

		printDetected(detected)

		if !detectInstallFlag {
			added := u.Detector().AddDetected(detected, inst)
			if err := store.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			if added > 0 {
				fmt.Printf("\n%d addon(s) now tracked. Run a scan to fetch their update state.\n", added)
			} else {
				fmt.Println("\nAll detected addons were already tracked")
			}
			return nil
		}

		var result *detect.BulkInstallResult
		err := scanprogress.Run("Installing detected addons", func(report func(int, int, string)) error {
			result = u.Detector().InstallAllDetected(detected, inst, report)
			return nil
		})
		if err != nil {
			return err
		}

		fmt.Printf("\nInstalled %d of %d addon(s)\n", result.Installed, result.Total)
		for _, failure := range result.Failed {
			fmt.Println(styles.FormatError(failure))
		}
		return nil
	},
}

func printDetected(detected map[int]*detect.Detected) {
	var names []string
	folderCounts := make(map[string]int, len(detected))
	for _, d := range detected {
		names = append(names, d.Name)
		folderCounts[d.Name] = len(d.Folders)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s\t%s\n", styles.Title.Render("DETECTED ADDON"), styles.Title.Render("FOLDERS"))
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", styles.AddonName.Render(name), folderCounts[name])
	}
	_ = w.Flush()
}

func init() {
	detectCmd.Flags().BoolVar(&detectInstallFlag, "install", false, "Download each detected addon fresh after registering it")
	detectCmd.Flags().StringVarP(&detectInstallation, "installation", "i", "", "Installation to detect in (defaults to the active one)")
	rootCmd.AddCommand(detectCmd)
}
