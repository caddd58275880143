package config

// SortMode controls how addon lists are ordered in scan results and listings.
type SortMode int

const (
	SortByName SortMode = iota
	SortByInstallation
	SortByLastUpdated
)

// DefaultAutoScanIntervalMinutes is the auto-scan interval used when the
// config carries none (6 hours).
const DefaultAutoScanIntervalMinutes = 360

// Settings holds process-wide preferences. Mutated only through the Store.
type Settings struct {
	MinimizeToTray      bool     `json:"minimize_to_tray"`
	StartWithSystem     bool     `json:"start_with_windows"`
	StartMinimized      bool     `json:"start_minimized"`
	AutoScanEnabled     bool     `json:"auto_scan_enabled"`
	AutoScanIntervalMin int      `json:"auto_scan_interval_minutes"`
	AutoUpdateAfterScan bool     `json:"auto_update_after_scan"`
	SortMode            SortMode `json:"addon_sort_mode"`
	UseCustomUserAgent  bool     `json:"use_custom_user_agent"`
	CustomUserAgent     string   `json:"custom_user_agent"`

	// Legacy single-installation fields. Zeroed by the migration; kept
	// only so old documents still decode.
	AddonPath     string `json:"addon_path"`
	GameVersionID int    `json:"game_version_id"`
	IncludeElvUI  bool   `json:"include_elvui"`
}

// AddonState is the persisted per-addon record inside an installation.
// The map key (the addon display name) is the addon's identity.
type AddonState struct {
	ID                 int    `json:"id"`
	ModifiedDate       string `json:"modified_date"`
	OnlineModifiedDate string `json:"online_modified_date"`
	UpdateAvailable    bool   `json:"update_available"`
	LastChecked        string `json:"last_checked"`
	OnlineVersion      string `json:"online_version"`
	LocalVersion       string `json:"local_version"`
}

// Installation is one tracked WoW game copy.
type Installation struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	AddonPath     string                 `json:"addon_path"`
	GameVersionID int                    `json:"game_version_id"`
	IncludeElvUI  bool                   `json:"include_elvui"`
	ColorHex      string                 `json:"color_hex"`
	Addons        map[string]*AddonState `json:"addons"`
	FolderMapping map[string][]string    `json:"folder_mapping"`
}

// Document is the root of the persisted config.json.
type Document struct {
	Settings          Settings                 `json:"settings"`
	Installations     map[string]*Installation `json:"installations"`
	ActiveInstallID   string                   `json:"active_installation_id"`
	LegacyAddons      map[string]*AddonState   `json:"addons"`
	LegacyFolderMap   map[string][]string      `json:"folder_mapping"`
}

// NewDocument returns an empty document with maps initialized and defaults set.
func NewDocument() *Document {
	return &Document{
		Settings: Settings{
			AutoScanIntervalMin: DefaultAutoScanIntervalMinutes,
		},
		Installations:   make(map[string]*Installation),
		LegacyAddons:    make(map[string]*AddonState),
		LegacyFolderMap: make(map[string][]string),
	}
}

// normalize fills in nil maps after decoding a hand-edited or partial document.
func (d *Document) normalize() {
	if d.Installations == nil {
		d.Installations = make(map[string]*Installation)
	}
	if d.LegacyAddons == nil {
		d.LegacyAddons = make(map[string]*AddonState)
	}
	if d.LegacyFolderMap == nil {
		d.LegacyFolderMap = make(map[string][]string)
	}
	if d.Settings.AutoScanIntervalMin <= 0 {
		d.Settings.AutoScanIntervalMin = DefaultAutoScanIntervalMinutes
	}
	for _, inst := range d.Installations {
		inst.normalize()
	}
}

func (i *Installation) normalize() {
	if i.Addons == nil {
		i.Addons = make(map[string]*AddonState)
	}
	if i.FolderMapping == nil {
		i.FolderMapping = make(map[string][]string)
	}
}

// ActiveInstallation returns the installation the active pointer references,
// falling back to an arbitrary installation when the pointer is empty or
// dangling, or nil when none exist.
func (d *Document) ActiveInstallation() *Installation {
	if d.ActiveInstallID != "" {
		if inst, ok := d.Installations[d.ActiveInstallID]; ok {
			return inst
		}
	}
	for _, inst := range d.Installations {
		return inst
	}
	return nil
}
