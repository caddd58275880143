package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Vrilya/wow-addon-updater/internal/config"
	"github.com/Vrilya/wow-addon-updater/internal/gameversion"
	"github.com/Vrilya/wow-addon-updater/internal/logger"
	"github.com/Vrilya/wow-addon-updater/internal/ui/styles"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
	Long: `Show or change the persisted settings.

Keys:
  auto-scan            on|off       scan periodically in --watch mode
  auto-scan-interval   minutes      interval between automatic scans
  auto-update          on|off       install stale addons after each automatic scan
  sort                 name|installation|updated  addon list ordering
  user-agent           string       custom HTTP user agent ("" resets to default)

Examples:
  wow-addon-updater settings
  wow-addon-updater settings set auto-scan on
  wow-addon-updater settings set auto-scan-interval 120
  wow-addon-updater settings set sort updated`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := getUpdater().Store().Doc().Settings

		fmt.Printf("auto-scan:           %s\n", onOff(settings.AutoScanEnabled))
		fmt.Printf("auto-scan-interval:  %d minutes\n", settings.AutoScanIntervalMin)
		fmt.Printf("auto-update:         %s\n", onOff(settings.AutoUpdateAfterScan))
		fmt.Printf("sort:                %s\n", sortModeName(settings.SortMode))
		if settings.UseCustomUserAgent {
			fmt.Printf("user-agent:          %s\n", settings.CustomUserAgent)
		} else {
			fmt.Printf("user-agent:          (default)\n")
		}
		fmt.Printf("\nConfig file: %s\n", getUpdater().Store().Path())
		fmt.Printf("Log file:    %s\n", logger.GetLogPath())
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := getUpdater().Store()
		settings := &store.Doc().Settings
		key, value := args[0], args[1]

		switch key {
		case "auto-scan":
			v, err := parseOnOff(value)
			if err != nil {
				return err
			}
			settings.AutoScanEnabled = v

		case "auto-scan-interval":
			minutes, err := strconv.Atoi(value)
			if err != nil || minutes <= 0 {
				return fmt.Errorf("interval must be a positive number of minutes (presets: %s)", intervalPresets())
			}
			settings.AutoScanIntervalMin = minutes

		case "auto-update":
			v, err := parseOnOff(value)
			if err != nil {
				return err
			}
			settings.AutoUpdateAfterScan = v

		case "sort":
			switch value {
			case "name":
				settings.SortMode = config.SortByName
			case "installation":
				settings.SortMode = config.SortByInstallation
			case "updated":
				settings.SortMode = config.SortByLastUpdated
			default:
				return fmt.Errorf("sort must be name, installation or updated")
			}

		case "user-agent":
			if value == "" {
				settings.UseCustomUserAgent = false
				settings.CustomUserAgent = ""
			} else {
				settings.UseCustomUserAgent = true
				settings.CustomUserAgent = value
			}

		default:
			return fmt.Errorf("unknown setting: %s", key)
		}

		if err := store.Save(); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println(styles.FormatSuccess(fmt.Sprintf("Set %s to %s", key, value)))
		return nil
	},
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func parseOnOff(value string) (bool, error) {
	switch value {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("value must be on or off")
}

func sortModeName(mode config.SortMode) string {
	switch mode {
	case config.SortByInstallation:
		return "installation"
	case config.SortByLastUpdated:
		return "updated"
	default:
		return "name"
	}
}

func intervalPresets() string {
	out := ""
	for i, preset := range gameversion.ScanIntervals() {
		if i > 0 {
			out += ", "
		}
		out += strconv.Itoa(preset.Minutes)
	}
	return out
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
