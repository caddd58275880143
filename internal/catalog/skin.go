package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// The UI-skin addon is distributed outside the generic catalog: one
// universal release from a fixed info endpoint, no compatibility tags.
const (
	SkinAddonName = "ElvUI"

	defaultSkinInfoURL = "https://api.tukui.org/v1/addon/elvui"
)

// SkinFolders are the top-level folders the skin addon installs. Detection
// excludes them from catalog matching; the first entry marks its presence.
var SkinFolders = []string{"ElvUI", "ElvUI_Libraries", "ElvUI_Options"}

// SkinInfo is the skin addon's single-release metadata.
type SkinInfo struct {
	Version    string `json:"version"`
	LastUpdate string `json:"last_update"`
	URL        string `json:"url"`
}

// SkinClient fetches skin addon release info.
type SkinClient struct {
	infoURL   string
	userAgent string
	client    *http.Client
	log       *log.Logger
}

// NewSkinClient creates a skin info client sharing the given HTTP client.
func NewSkinClient(httpClient *http.Client, userAgent string, logger *log.Logger) *SkinClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &SkinClient{
		infoURL:   defaultSkinInfoURL,
		userAgent: userAgent,
		client:    httpClient,
		log:       logger,
	}
}

// Info fetches the current skin release metadata.
func (c *SkinClient) Info() (*SkinInfo, error) {
	req, err := http.NewRequest(http.MethodGet, c.infoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.log.Debug("Fetching skin addon info", "url", c.infoURL)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching skin info: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var info SkinInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("parsing skin info: %w", err)
	}
	return &info, nil
}

// IsSkinFolder reports whether a folder name belongs to the skin addon.
func IsSkinFolder(name string) bool {
	for _, f := range SkinFolders {
		if f == name {
			return true
		}
	}
	return false
}
