package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Vrilya/wow-addon-updater/internal/config"
	"github.com/Vrilya/wow-addon-updater/internal/gameversion"
	"github.com/Vrilya/wow-addon-updater/internal/ui/styles"
)

var installationsCmd = &cobra.Command{
	Use:     "installations",
	Aliases: []string{"inst"},
	Short:   "Manage game installations",
	Long: `Manage the tracked World of Warcraft installations.

Each installation points at an Interface/AddOns directory and a game
flavor, and keeps its own addon list.

Examples:
  wow-addon-updater installations list
  wow-addon-updater installations add "Classic" ~/wow/Interface/AddOns --game-version "Classic Era"
  wow-addon-updater installations use <id>
  wow-addon-updater installations remove <id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var addGameVersion string
var addElvUI bool

var installationsAddCmd = &cobra.Command{
	Use:   "add <name> <addon-path>",
	Short: "Add a game installation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, path := args[0], args[1]

		gv, ok := gameversion.ByName(addGameVersion)
		if !ok {
			var names []string
			for _, v := range gameversion.Versions() {
				names = append(names, v.Name)
			}
			return fmt.Errorf("unknown game version %q (known: %s)", addGameVersion, strings.Join(names, ", "))
		}

		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			fmt.Println(styles.FormatWarning(fmt.Sprintf("%s is not an existing directory; the installation will be skipped by scans until it is", path)))
		}

		store := getUpdater().Store()
		inst, err := store.AddInstallation(name, path, gv.ID)
		if err != nil {
			return fmt.Errorf("failed to save installation: %w", err)
		}

		if addElvUI {
			inst.IncludeElvUI = true
			store.UpdateInstallation(inst)
		}

		fmt.Println(styles.FormatSuccess(fmt.Sprintf("Added installation %s (%s)", inst.Name, gv.Name)))
		fmt.Printf("  ID: %s\n", inst.ID)
		return nil
	},
}

var installationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List game installations",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := getUpdater().Store()
		installations := store.Installations()

		if len(installations) == 0 {
			fmt.Println("No installations configured")
			fmt.Println("\nAdd one with: wow-addon-updater installations add <name> <addon-path> --game-version <flavor>")
			return nil
		}

		sort.Slice(installations, func(i, j int) bool {
			return strings.ToLower(installations[i].Name) < strings.ToLower(installations[j].Name)
		})

		active := store.ActiveInstallation()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			styles.Title.Render("NAME"),
			styles.Title.Render("GAME VERSION"),
			styles.Title.Render("ADDONS"),
			styles.Title.Render("PATH"),
			styles.Title.Render("ID"),
		)

		for _, inst := range installations {
			name := styles.FormatInstallation(inst.Name, inst.ColorHex)
			if active != nil && inst.ID == active.ID {
				name += " " + styles.Selected.Render("(active)")
			}

			versionName := "-"
			if gv, ok := gameversion.ByID(inst.GameVersionID); ok {
				versionName = gv.Name
			}

			count := len(inst.Addons)
			if inst.IncludeElvUI {
				if _, tracked := inst.Addons["ElvUI"]; !tracked {
					count++
				}
			}

			_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", name, versionName, count, inst.AddonPath, inst.ID)
		}
		_ = w.Flush()

		return nil
	},
}

var installationsRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a game installation",
	Long: `Remove an installation from the config. Addon folders on disk are
left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := getUpdater().Store()
		inst, err := resolveInstallation(store, args[0])
		if err != nil {
			return err
		}

		store.RemoveInstallation(inst.ID)
		fmt.Println(styles.FormatSuccess(fmt.Sprintf("Removed installation %s", inst.Name)))
		return nil
	},
}

var installationsUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Set the active installation",
	Long: `Set the installation that addon commands target when --installation
is not given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := getUpdater().Store()
		inst, err := resolveInstallation(store, args[0])
		if err != nil {
			return err
		}

		store.SetActiveInstallation(inst.ID)
		fmt.Println(styles.FormatSuccess(fmt.Sprintf("Active installation is now %s", inst.Name)))
		return nil
	},
}

// resolveInstallation finds an installation by id or by exact name. A name
// shared by several installations is rejected as ambiguous.
func resolveInstallation(store *config.Store, idOrName string) (*config.Installation, error) {
	if inst, ok := store.Installation(idOrName); ok {
		return inst, nil
	}

	var matches []*config.Installation
	for _, inst := range store.Installations() {
		if strings.EqualFold(inst.Name, idOrName) {
			matches = append(matches, inst)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("installation not found: %s", idOrName)
	default:
		return nil, fmt.Errorf("installation name %q is ambiguous, use the id", idOrName)
	}
}

func init() {
	installationsAddCmd.Flags().StringVar(&addGameVersion, "game-version", "Classic Era", "Game flavor (see `installations versions`)")
	installationsAddCmd.Flags().BoolVar(&addElvUI, "elvui", false, "Track the ElvUI skin for this installation")

	installationsCmd.AddCommand(installationsAddCmd)
	installationsCmd.AddCommand(installationsListCmd)
	installationsCmd.AddCommand(installationsRemoveCmd)
	installationsCmd.AddCommand(installationsUseCmd)
	installationsCmd.AddCommand(installationsVersionsCmd)
	rootCmd.AddCommand(installationsCmd)
}

var installationsVersionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List known game flavors",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "%s\t%s\n", styles.Title.Render("NAME"), styles.Title.Render("ID"))
		for _, v := range gameversion.Versions() {
			_, _ = fmt.Fprintf(w, "%s\t%d\n", v.Name, v.ID)
		}
		_ = w.Flush()
		return nil
	},
}
