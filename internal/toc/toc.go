// Package toc reads WoW addon .toc manifests: the version tag an installed
// folder carries and the Title/Notes text used to locate an addon's folders.
package toc

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// versionPrefixRegex matches a leading v, V or # on version strings
	versionPrefixRegex = regexp.MustCompile(`^[vV#]`)

	// flavorSuffixRegex matches trailing -Retail/-Cata/-Era markers some
	// addons append to their version tag
	flavorSuffixRegex = regexp.MustCompile(`-(?:Retail|Cata|Era)\s*$`)
)

// NormalizeVersion strips decoration from a .toc version tag so it compares
// cleanly against catalog version strings.
func NormalizeVersion(version string) string {
	if version == "" {
		return ""
	}
	version = versionPrefixRegex.ReplaceAllString(version, "")
	version = strings.TrimSpace(version)
	version = flavorSuffixRegex.ReplaceAllString(version, "")
	return strings.TrimSpace(version)
}

// ReadVersion returns the normalized "## Version:" tag found in the first
// .toc file among the given folders under addonPath, or "" when none of
// them carries one. Unreadable folders and files are skipped.
func ReadVersion(addonPath string, folders []string) string {
	for _, folder := range folders {
		folderPath := filepath.Join(addonPath, folder)

		entries, err := os.ReadDir(folderPath)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".toc") {
				continue
			}

			version, ok := versionFromFile(filepath.Join(folderPath, entry.Name()))
			if ok {
				return NormalizeVersion(version)
			}
			break
		}
	}
	return ""
}

func versionFromFile(tocPath string) (string, bool) {
	file, err := os.Open(tocPath)
	if err != nil {
		return "", false
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "##") {
			continue
		}

		line = strings.TrimSpace(strings.TrimPrefix(line, "##"))
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		if strings.EqualFold(strings.TrimSpace(parts[0]), "version") {
			return strings.TrimSpace(parts[1]), true
		}
	}
	return "", false
}

// FindAddonFolders scans the immediate subdirectories of addonPath and
// returns those whose .toc Title or Notes mention the addon name. Used as
// a fallback when no folder mapping has been recorded for an addon.
func FindAddonFolders(addonName, addonPath string) []string {
	var folders []string

	entries, err := os.ReadDir(addonPath)
	if err != nil {
		return folders
	}

	needle := strings.ToLower(addonName)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		folderPath := filepath.Join(addonPath, entry.Name())
		tocEntries, err := os.ReadDir(folderPath)
		if err != nil {
			continue
		}

		for _, tocEntry := range tocEntries {
			if tocEntry.IsDir() || !strings.HasSuffix(strings.ToLower(tocEntry.Name()), ".toc") {
				continue
			}

			if tocMentions(filepath.Join(folderPath, tocEntry.Name()), needle) {
				folders = append(folders, entry.Name())
				break
			}
		}
	}

	return folders
}

// tocMentions reports whether the .toc Title or Notes line contains the
// needle, case-insensitively.
func tocMentions(tocPath, needle string) bool {
	file, err := os.Open(tocPath)
	if err != nil {
		return false
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "##") {
			continue
		}

		line = strings.TrimSpace(strings.TrimPrefix(line, "##"))
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		if key != "title" && key != "notes" {
			continue
		}

		if strings.Contains(strings.ToLower(parts[1]), needle) {
			return true
		}
	}
	return false
}
