// Package catalog wraps the remote addon host. All responses are decoded
// into typed structs at this boundary; nothing downstream touches raw JSON.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

const (
	defaultAPIBase = "https://www.curseforge.com/api/v1"

	// DefaultUserAgent identifies us to the addon host unless the user
	// configured a custom one.
	DefaultUserAgent = "wow-addon-updater/1.0"
)

// Client talks to the addon host's metadata API.
type Client struct {
	apiBase   string
	userAgent string
	client    *http.Client
	log       *log.Logger
}

// NewClient creates a catalog client sharing the given HTTP client.
// userAgent may be empty, in which case the default is sent.
func NewClient(httpClient *http.Client, userAgent string, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		apiBase:   defaultAPIBase,
		userAgent: userAgent,
		client:    httpClient,
		log:       logger,
	}
}

// Search queries the host for addons matching the query, filtered to the
// given game flavor. An empty data array is a valid, empty result.
func (c *Client) Search(query string, gameVersionID int) ([]AddonSummary, error) {
	params := url.Values{}
	params.Set("gameId", "1")
	params.Set("index", "0")
	params.Set("classId", "1")
	params.Set("filterText", query)
	params.Set("pageSize", "50")
	params.Set("sortField", "1")
	params.Set("gameFlavors[0]", strconv.Itoa(gameVersionID))

	requestURL := fmt.Sprintf("%s/mods/search?%s", c.apiBase, params.Encode())

	var resp searchResponse
	if err := c.getJSON(requestURL, &resp); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return resp.Data, nil
}

// Releases fetches the release list for an addon id, newest first as
// returned by the host.
func (c *Client) Releases(modID int) ([]Release, error) {
	requestURL := fmt.Sprintf("%s/mods/%d/files?pageSize=20&index=0", c.apiBase, modID)

	var resp releasesResponse
	if err := c.getJSON(requestURL, &resp); err != nil {
		return nil, fmt.Errorf("fetching releases for mod %d: %w", modID, err)
	}
	return resp.Data, nil
}

// Release fetches a single release's metadata, including the archive
// file name the download pipeline needs.
func (c *Client) Release(modID, fileID int) (*Release, error) {
	requestURL := fmt.Sprintf("%s/mods/%d/files/%d", c.apiBase, modID, fileID)

	var resp releaseResponse
	if err := c.getJSON(requestURL, &resp); err != nil {
		return nil, fmt.Errorf("fetching release %d of mod %d: %w", fileID, modID, err)
	}
	return &resp.Data, nil
}

func (c *Client) getJSON(requestURL string, out any) error {
	req, err := http.NewRequest(http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.log.Debug("Catalog request", "url", requestURL)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
