// Package backup keeps timestamped copies of an addon's mapped folders so
// destructive operations (delete, forced reinstall) can be undone.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// timeNow is swapped in tests to produce deterministic backup names.
var timeNow = time.Now

const (
	// MaxBackupsPerAddon is the maximum number of backups kept per addon
	MaxBackupsPerAddon = 3
	// TimestampFormat is the format used for backup directory names
	TimestampFormat = "20060102-150405"
)

// Manager handles addon folder backups under a data directory.
type Manager struct {
	backupDir string
	now       func() string
}

// NewManager creates a backup manager rooted at dataDir/backups.
func NewManager(dataDir string) *Manager {
	return &Manager{
		backupDir: filepath.Join(dataDir, "backups"),
		now:       defaultTimestamp,
	}
}

// Create copies every mapped folder of an addon into a timestamped backup
// directory and returns its path. Folders missing on disk are skipped.
func (m *Manager) Create(addonName, addonPath string, folders []string) (string, error) {
	addonBackupDir := filepath.Join(m.backupDir, addonName)
	if err := os.MkdirAll(addonBackupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath := filepath.Join(addonBackupDir, m.now())

	copied := 0
	for _, folder := range folders {
		src := filepath.Join(addonPath, folder)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := copyDir(src, filepath.Join(backupPath, folder)); err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to back up %s: %w", folder, err)
		}
		copied++
	}

	if copied == 0 {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("no folders to back up for %s", addonName)
	}

	if err := m.cleanupOld(addonName); err != nil {
		// Retention failure must not fail the backup itself
		fmt.Fprintf(os.Stderr, "Warning: failed to clean up old backups: %v\n", err)
	}

	return backupPath, nil
}

// Restore copies a backup's folders back under the addon path, replacing
// whatever is there.
func (m *Manager) Restore(addonName, timestamp, addonPath string) error {
	backupPath := filepath.Join(m.backupDir, addonName, timestamp)

	entries, err := os.ReadDir(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("backup not found: %s", timestamp)
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dest := filepath.Join(addonPath, entry.Name())
		if err := os.RemoveAll(dest); err != nil {
			return fmt.Errorf("failed to replace %s: %w", entry.Name(), err)
		}
		if err := copyDir(filepath.Join(backupPath, entry.Name()), dest); err != nil {
			return fmt.Errorf("failed to restore %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// List returns backup timestamps for an addon, newest first.
func (m *Manager) List(addonName string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(m.backupDir, addonName))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var backups []string
	for _, entry := range entries {
		if entry.IsDir() {
			backups = append(backups, entry.Name())
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(backups)))
	return backups, nil
}

// Delete removes one backup.
func (m *Manager) Delete(addonName, timestamp string) error {
	return os.RemoveAll(filepath.Join(m.backupDir, addonName, timestamp))
}

// cleanupOld drops backups beyond MaxBackupsPerAddon, oldest first.
func (m *Manager) cleanupOld(addonName string) error {
	backups, err := m.List(addonName)
	if err != nil {
		return err
	}
	if len(backups) <= MaxBackupsPerAddon {
		return nil
	}
	for _, old := range backups[MaxBackupsPerAddon:] {
		if err := m.Delete(addonName, old); err != nil {
			return err
		}
	}
	return nil
}

func defaultTimestamp() string {
	return timeNow().Format(TimestampFormat)
}

// copyDir recursively copies a directory
func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

// copyFile copies a single file
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return err
	}
	defer func() { _ = dstFile.Close() }()

	_, err = io.Copy(dstFile, srcFile)
	return err
}
