package scan

import (
	"sort"
	"strings"
	"time"

	"github.com/Vrilya/wow-addon-updater/internal/config"
)

// Addon is the transient per-scan projection of an installation's addon
// state. It is rebuilt on every scan or load and never persisted; the
// config document remains the source of truth.
type Addon struct {
	Name          string
	ModID         int // 0 for the skin addon, which has no catalog id
	FileID        int // compatible release id from the last scan, 0 if none
	LocalVersion  string
	OnlineVersion string
	NeedsUpdate   bool
	LastUpdated   *time.Time
	Folders       []string

	InstallationID   string
	InstallationName string
}

// Status renders the update state for listings.
func (a *Addon) Status() string {
	if a.NeedsUpdate {
		return a.LocalVersion + " -> " + a.OnlineVersion
	}
	return a.LocalVersion
}

// LastUpdatedText formats the last-updated timestamp for listings.
func (a *Addon) LastUpdatedText() string {
	if a.LastUpdated == nil {
		return "Never"
	}
	return a.LastUpdated.Format("2006-01-02 15:04")
}

// SortAddons orders a scan result list in place per the configured mode.
func SortAddons(addons []Addon, mode config.SortMode) {
	switch mode {
	case config.SortByInstallation:
		sort.SliceStable(addons, func(i, j int) bool {
			li, lj := strings.ToLower(addons[i].InstallationName), strings.ToLower(addons[j].InstallationName)
			if li != lj {
				return li < lj
			}
			return strings.ToLower(addons[i].Name) < strings.ToLower(addons[j].Name)
		})
	case config.SortByLastUpdated:
		sort.SliceStable(addons, func(i, j int) bool {
			ti, tj := timeOrZero(addons[i].LastUpdated), timeOrZero(addons[j].LastUpdated)
			if !ti.Equal(tj) {
				return ti.After(tj)
			}
			return strings.ToLower(addons[i].Name) < strings.ToLower(addons[j].Name)
		})
	default:
		sort.SliceStable(addons, func(i, j int) bool {
			return strings.ToLower(addons[i].Name) < strings.ToLower(addons[j].Name)
		})
	}
}

// timeOrZero treats a missing timestamp as the minimum so dateless addons
// sort after every dated one in most-recent-first order.
func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
