package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Vrilya/wow-addon-updater/internal/autoscan"
	"github.com/Vrilya/wow-addon-updater/internal/scan"
	"github.com/Vrilya/wow-addon-updater/internal/ui/scanprogress"
	"github.com/Vrilya/wow-addon-updater/internal/ui/styles"
)

var (
	scanWatch bool
	scanPlain bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Check tracked addons for updates",
	Long: `Check every tracked addon in every scan-eligible installation against
the addon host and report which ones have newer releases.

With --watch the scan repeats on the configured interval until
interrupted, auto-updating stale addons when that setting is enabled.

Examples:
  wow-addon-updater scan
  wow-addon-updater scan --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := getUpdater()

		if scanWatch {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Println("Watching for updates, Ctrl+C to stop")
			err := autoscan.New(u, getLogger()).Run(ctx)
			if err == context.Canceled {
				return nil
			}
			return err
		}

		var addons []scan.Addon
		if scanPlain {
			addons = u.ScanForUpdates(func(current, total int, name string) {
				fmt.Printf("Scanning (%d/%d) %s\n", current, total, name)
			})
		} else {
			err := scanprogress.Run("Scanning addons", func(report func(int, int, string)) error {
				addons = u.ScanForUpdates(report)
				return nil
			})
			if err != nil {
				return err
			}
		}

		printAddonTable(addons)
		return nil
	},
}

// printAddonTable renders the shared addon listing used by scan and
// `addons list`.
func printAddonTable(addons []scan.Addon) {
	if len(addons) == 0 {
		fmt.Println("No addons tracked")
		fmt.Println("\nTrack addons with: wow-addon-updater detect --install  or  wow-addon-updater addons install <name>")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		styles.Title.Render("NAME"),
		styles.Title.Render("INSTALLATION"),
		styles.Title.Render("VERSION"),
		styles.Title.Render("LAST UPDATED"),
		styles.Title.Render("STATUS"),
	)

	stale := 0
	for i := range addons {
		a := &addons[i]
		if a.NeedsUpdate {
			stale++
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			styles.AddonName.Render(a.Name),
			a.InstallationName,
			a.Status(),
			a.LastUpdatedText(),
			styles.FormatStatus(a.NeedsUpdate, a.OnlineVersion),
		)
	}
	_ = w.Flush()

	if stale > 0 {
		fmt.Printf("\n%d of %d addon(s) have updates available\n", stale, len(addons))
		fmt.Println("Install them with: wow-addon-updater addons update --all")
	} else {
		fmt.Printf("\nAll %d addon(s) up to date\n", len(addons))
	}
}

func init() {
	scanCmd.Flags().BoolVarP(&scanWatch, "watch", "w", false, "Keep scanning on the configured interval")
	scanCmd.Flags().BoolVar(&scanPlain, "plain", false, "Print plain progress lines instead of the live display")
	rootCmd.AddCommand(scanCmd)
}
