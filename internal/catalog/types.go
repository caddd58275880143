package catalog

import "strings"

// AddonSummary is one search hit from the addon host.
type AddonSummary struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// Release is one downloadable file of an addon, tagged with the game
// flavors it is compatible with. The host returns releases newest first;
// that ordering is trusted as recency and never re-sorted locally.
type Release struct {
	ID                 int    `json:"id"`
	DisplayName        string `json:"displayName"`
	FileName           string `json:"fileName"`
	DateModified       string `json:"dateModified"`
	GameVersionTypeIDs []int  `json:"gameVersionTypeIds"`
}

// Compatible reports whether the release carries the given game version tag.
func (r *Release) Compatible(gameVersionID int) bool {
	for _, id := range r.GameVersionTypeIDs {
		if id == gameVersionID {
			return true
		}
	}
	return false
}

// Version returns the release's display name cleaned for use as a version
// string.
func (r *Release) Version() string {
	return CleanVersion(r.DisplayName)
}

// FirstCompatible selects the first release in list order carrying the
// given game version tag, or nil when none does.
func FirstCompatible(releases []Release, gameVersionID int) *Release {
	for i := range releases {
		if releases[i].Compatible(gameVersionID) {
			return &releases[i]
		}
	}
	return nil
}

// CleanVersion strips a trailing .zip from version strings derived from
// archive display names.
func CleanVersion(version string) string {
	if strings.HasSuffix(strings.ToLower(version), ".zip") {
		return version[:len(version)-4]
	}
	return version
}

type searchResponse struct {
	Data []AddonSummary `json:"data"`
}

type releasesResponse struct {
	Data []Release `json:"data"`
}

type releaseResponse struct {
	Data Release `json:"data"`
}
