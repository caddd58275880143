package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Vrilya/wow-addon-updater/internal/ui/styles"
)

var (
	removeForce        bool
	removeBackup       bool
	removeInstallation string
)

var addonsRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm", "delete", "uninstall"},
	Short:   "Remove a tracked addon",
	Long: `Delete an addon's folders from the installation and stop tracking it.

Use --backup to copy the folders aside first so the removal can be
undone with the backups command. Use --force to skip the confirmation
prompt.

Examples:
  wow-addon-updater addons remove WeakAuras
  wow-addon-updater addons remove WeakAuras --backup
  wow-addon-updater addons remove WeakAuras --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addon, err := findTrackedAddon(getUpdater(), args[0], removeInstallation)
		if err != nil {
			return err
		}

		if !removeForce {
			fmt.Printf("Remove addon %s from %s?\n", styles.AddonName.Render(addon.Name), addon.InstallationName)
			if len(addon.Folders) > 0 {
				fmt.Printf("  Folders: %s\n", strings.Join(addon.Folders, ", "))
			}
			if removeBackup {
				fmt.Println("  A backup will be created.")
			} else {
				fmt.Println(styles.FormatWarning("No backup will be created!"))
			}

			fmt.Print("\nConfirm? [y/N] ")
			reader := bufio.NewReader(os.Stdin)
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))

			if response != "y" && response != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if err := getUpdater().DeleteAddon(addon, removeBackup); err != nil {
			return fmt.Errorf("failed to remove addon: %w", err)
		}

		if removeBackup {
			fmt.Println(styles.FormatSuccess(fmt.Sprintf("Addon %s removed (backup created)", addon.Name)))
		} else {
			fmt.Println(styles.FormatSuccess(fmt.Sprintf("Addon %s removed", addon.Name)))
		}
		return nil
	},
}

func init() {
	addonsRemoveCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Skip confirmation prompt")
	addonsRemoveCmd.Flags().BoolVarP(&removeBackup, "backup", "b", false, "Create a backup before removing")
	addonsRemoveCmd.Flags().StringVarP(&removeInstallation, "installation", "i", "", "Installation the addon is tracked in")
	addonsCmd.AddCommand(addonsRemoveCmd)
}
