package install

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// extractArchive extracts a zip archive into destPath, overwriting existing
// files, and returns the distinct top-level directory names the archive
// writes. The entry list, not any metadata, is the authoritative folder
// manifest.
func extractArchive(archivePath, destPath string) ([]string, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	folderSet := make(map[string]struct{})

	for _, entry := range reader.File {
		name := entry.Name
		if idx := strings.IndexAny(name, `/\`); idx > 0 {
			folderSet[name[:idx]] = struct{}{}
		}

		if err := extractEntry(entry, destPath); err != nil {
			return nil, err
		}
	}

	folders := make([]string, 0, len(folderSet))
	for folder := range folderSet {
		folders = append(folders, folder)
	}
	sort.Strings(folders)

	return folders, nil
}

func extractEntry(entry *zip.File, destPath string) error {
	// Reject entries escaping the destination (zip slip)
	cleaned := filepath.Clean(entry.Name)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return fmt.Errorf("archive entry escapes destination: %s", entry.Name)
	}
	target := filepath.Join(destPath, cleaned)

	if entry.FileInfo().IsDir() {
		return os.MkdirAll(target, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}
