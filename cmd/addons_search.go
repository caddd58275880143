package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Vrilya/wow-addon-updater/internal/ui/styles"
)

var addonsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the addon host",
	Long: `Search the addon host for addons compatible with the active
installation's game version.

Examples:
  wow-addon-updater addons search "weak auras"
  wow-addon-updater addons search details`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := getUpdater()

		inst := u.Store().ActiveInstallation()
		if inst == nil {
			return fmt.Errorf("no installations configured")
		}

		query := strings.Join(args, " ")
		results, err := u.Catalog().Search(query, inst.GameVersionID)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if len(results) == 0 {
			fmt.Printf("No addons found for %q\n", query)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
			styles.Title.Render("NAME"),
			styles.Title.Render("ID"),
			styles.Title.Render("SUMMARY"),
		)
		for _, hit := range results {
			summary := hit.Summary
			if len(summary) > 80 {
				summary = summary[:77] + "..."
			}
			_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", styles.AddonName.Render(hit.Name), hit.ID, summary)
		}
		_ = w.Flush()

		fmt.Printf("\n%d result(s). Install with: wow-addon-updater addons install <name>\n", len(results))
		return nil
	},
}

func init() {
	addonsCmd.AddCommand(addonsSearchCmd)
}
