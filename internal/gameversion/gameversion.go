// Package gameversion holds the static lookup tables the updater is
// configured from: the CurseForge game-version flavors, the auto-scan
// interval presets and the installation color palette.
package gameversion

// GameVersion maps a human label to the compatibility id used both as the
// addon database's version key and as the tag on each release.
type GameVersion struct {
	Name string
	ID   int
}

// Versions returns the known game flavors, most-played classic lines first.
func Versions() []GameVersion {
	return []GameVersion{
		{Name: "Classic Era", ID: 67408},
		{Name: "Classic TBC", ID: 73246},
		{Name: "Classic WOTLK", ID: 73713},
		{Name: "Classic Cata", ID: 77522},
		{Name: "Classic MOP", ID: 79434},
		{Name: "Retail", ID: 517},
	}
}

// ByID looks up a game version by its compatibility id.
func ByID(id int) (GameVersion, bool) {
	for _, v := range Versions() {
		if v.ID == id {
			return v, true
		}
	}
	return GameVersion{}, false
}

// ByName looks up a game version by its label (exact match).
func ByName(name string) (GameVersion, bool) {
	for _, v := range Versions() {
		if v.Name == name {
			return v, true
		}
	}
	return GameVersion{}, false
}

// ScanInterval is an auto-scan interval preset.
type ScanInterval struct {
	Name    string
	Minutes int
}

// ScanIntervals returns the selectable auto-scan intervals.
func ScanIntervals() []ScanInterval {
	return []ScanInterval{
		{Name: "1 hour", Minutes: 60},
		{Name: "2 hours", Minutes: 120},
		{Name: "4 hours", Minutes: 240},
		{Name: "6 hours", Minutes: 360},
		{Name: "12 hours", Minutes: 720},
		{Name: "24 hours", Minutes: 1440},
	}
}

// colorPalette holds the cosmetic hex tags assignable to installations.
var colorPalette = []string{
	"#4F94CD",
	"#8FBC8F",
	"#CD853F",
	"#9370DB",
	"#CD5C5C",
	"#5F9EA0",
	"#DAA520",
	"#BC8F8F",
}

// NextColor picks a palette color for the nth installation, cycling when
// the palette is exhausted.
func NextColor(n int) string {
	if n < 0 {
		n = 0
	}
	return colorPalette[n%len(colorPalette)]
}
