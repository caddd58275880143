// Package install resolves, downloads and extracts addon release archives.
// The addon host's CDN shards files by a numeric id split at a position
// that is usually, but not always, four digits; resolution brute-forces
// the shard boundary across every mirror before giving up.
package install

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Vrilya/wow-addon-updater/internal/catalog"
)

// ErrAllCandidatesFailed is returned when every mirror/split combination
// has been probed without a successful response.
var ErrAllCandidatesFailed = errors.New("failed to download file from all candidate URLs")

// canonicalSplitPos is the usual shard boundary in CDN paths: the first
// four digits of the file id form the first path segment.
const canonicalSplitPos = 4

// defaultMirrors are the CDN endpoints tried in order.
var defaultMirrors = []string{
	"https://edge.forgecdn.net/files",
	"https://mediafilez.forgecdn.net/files",
}

// Result describes a completed download and extraction.
type Result struct {
	FileName string
	// Folders is the authoritative manifest of top-level directories the
	// archive wrote under the addon path.
	Folders []string
}

// Pipeline downloads release archives and extracts them into an
// installation's addon directory.
type Pipeline struct {
	catalog   *catalog.Client
	mirrors   []string
	userAgent string
	client    *http.Client
	log       *log.Logger
}

// NewPipeline creates a pipeline sharing the given HTTP client and catalog.
func NewPipeline(catalogClient *catalog.Client, httpClient *http.Client, userAgent string, logger *log.Logger) *Pipeline {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	if userAgent == "" {
		userAgent = catalog.DefaultUserAgent
	}
	return &Pipeline{
		catalog:   catalogClient,
		mirrors:   defaultMirrors,
		userAgent: userAgent,
		client:    httpClient,
		log:       logger,
	}
}

// Download fetches the release archive for the given mod/file pair and
// extracts it into destPath, overwriting existing files. On any failure no
// partial result is returned.
func (p *Pipeline) Download(modID, fileID int, destPath string) (*Result, error) {
	release, err := p.catalog.Release(modID, fileID)
	if err != nil {
		return nil, fmt.Errorf("fetching release metadata: %w", err)
	}

	fileName := release.FileName
	if fileName == "" {
		fileName = fmt.Sprintf("addon_%d.zip", fileID)
	}

	tempPath := filepath.Join(os.TempDir(), fileName)
	defer func() {
		// Best-effort temp cleanup
		_ = os.Remove(tempPath)
	}()

	if err := p.downloadWithFallbacks(fileID, fileName, tempPath); err != nil {
		return nil, err
	}

	folders, err := extractArchive(tempPath, destPath)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", fileName, err)
	}

	p.log.Info("Addon archive installed", "file", fileName, "folders", len(folders))
	return &Result{FileName: fileName, Folders: folders}, nil
}

// DownloadArchive fetches an archive from a known URL (the skin addon's
// single-release distribution) and extracts it into destPath.
func (p *Pipeline) DownloadArchive(url, destPath string) ([]string, error) {
	tempPath := filepath.Join(os.TempDir(), filepath.Base(url))
	defer func() { _ = os.Remove(tempPath) }()

	if err := p.fetchToFile(url, tempPath); err != nil {
		return nil, fmt.Errorf("downloading %s: %w", url, err)
	}

	folders, err := extractArchive(tempPath, destPath)
	if err != nil {
		return nil, fmt.Errorf("extracting archive: %w", err)
	}
	return folders, nil
}

// DeleteFolders removes the given top-level folders from the addon path.
// Missing folders are skipped, not an error.
func (p *Pipeline) DeleteFolders(addonPath string, folders []string) error {
	for _, folder := range folders {
		folderPath := filepath.Join(addonPath, folder)
		if _, err := os.Stat(folderPath); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(folderPath); err != nil {
			return fmt.Errorf("removing %s: %w", folder, err)
		}
		p.log.Debug("Removed addon folder", "folder", folder)
	}
	return nil
}

// downloadWithFallbacks probes candidate URLs until one answers: per
// mirror, the canonical four-digit split first, then every alternative
// split position. The first successful response wins.
func (p *Pipeline) downloadWithFallbacks(fileID int, fileName, tempPath string) error {
	idStr := strconv.Itoa(fileID)

	for _, mirror := range p.mirrors {
		if len(idStr) >= canonicalSplitPos {
			url := fmt.Sprintf("%s/%s/%s/%s", mirror, idStr[:canonicalSplitPos], idStr[canonicalSplitPos:], fileName)
			if err := p.fetchToFile(url, tempPath); err == nil {
				p.log.Debug("Downloaded via canonical split", "url", url)
				return nil
			}
		}

		for _, split := range AlternativeSplits(idStr) {
			url := fmt.Sprintf("%s/%d/%d/%s", mirror, split[0], split[1], fileName)
			if err := p.fetchToFile(url, tempPath); err == nil {
				p.log.Debug("Downloaded via alternative split", "url", url)
				return nil
			}
		}
	}

	return ErrAllCandidatesFailed
}

// AlternativeSplits yields every non-canonical (first, second) integer
// split of a numeric file id string: positions 1 through len-1, skipping
// the canonical position. Splits producing unparseable halves are dropped.
func AlternativeSplits(idStr string) [][2]int {
	var splits [][2]int

	for pos := 1; pos < len(idStr); pos++ {
		if pos == canonicalSplitPos {
			continue
		}

		first, err := strconv.Atoi(idStr[:pos])
		if err != nil {
			continue
		}
		second, err := strconv.Atoi(idStr[pos:])
		if err != nil {
			continue
		}
		splits = append(splits, [2]int{first, second})
	}

	return splits
}

// fetchToFile streams one URL to a file. Any non-2xx status is a failure;
// the body is never buffered in memory.
func (p *Pipeline) fetchToFile(url, path string) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d from %s", resp.StatusCode, url)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
