package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/joescharf/modcount/internal/models"
)

const (
	// DefaultCurseForgeBaseURL is the public CurseForge Core API host.
	DefaultCurseForgeBaseURL = "https://api.curseforge.com"

	minecraftGameID = "432"
	modsClassID     = "6"
)

// CurseForge reads total downloads from the CurseForge Core API.
type CurseForge struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	userAgent string
}

// NewCurseForge returns a CurseForge API source. An empty apiKey is still
// sent; the API rejects the request and the fetch fails.
func NewCurseForge(client *http.Client, baseURL, apiKey, userAgent string) *CurseForge {
	if baseURL == "" {
		baseURL = DefaultCurseForgeBaseURL
	}
	return &CurseForge{
		client:    defaultClient(client),
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		userAgent: userAgent,
	}
}

func (c *CurseForge) Platform() models.Platform { return models.PlatformCurseForge }

type curseForgeMod struct {
	ID            int64        `json:"id"`
	Slug          string       `json:"slug"`
	DownloadCount *json.Number `json:"downloadCount"`
}

type curseForgeModResponse struct {
	Data *curseForgeMod `json:"data"`
}

type curseForgeSearchResponse struct {
	Data []curseForgeMod `json:"data"`
}

// Count returns the downloadCount of a mod. A numeric id is looked up via
// GET /v1/mods/{id}; anything else is treated as a slug and resolved through
// the Minecraft mods search endpoint.
func (c *CurseForge) Count(ctx context.Context, id string) (uint64, error) {
	if _, err := strconv.ParseUint(id, 10, 64); err == nil {
		return c.countByID(ctx, id)
	}
	return c.countBySlug(ctx, id)
}

func (c *CurseForge) newRequest(id, rawURL string) request {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("X-Api-Token", c.apiKey)
	// CurseForge documents x-api-key; older proxies read X-Api-Token.
	h.Set("X-Api-Key", c.apiKey)
	if c.userAgent != "" {
		h.Set("User-Agent", c.userAgent)
	}
	return request{
		client:   c.client,
		platform: models.PlatformCurseForge,
		id:       id,
		url:      rawURL,
		header:   h,
	}
}

func (c *CurseForge) countByID(ctx context.Context, id string) (uint64, error) {
	r := c.newRequest(id, c.baseURL+"/v1/mods/"+id)

	var resp curseForgeModResponse
	if err := r.getJSON(ctx, &resp); err != nil {
		return 0, err
	}
	if resp.Data == nil {
		return 0, r.fail(http.StatusOK, errors.New("response has no data field"))
	}
	n, err := parseDownloadCount(resp.Data.DownloadCount)
	if err != nil {
		return 0, r.fail(http.StatusOK, err)
	}
	return n, nil
}

func (c *CurseForge) countBySlug(ctx context.Context, slug string) (uint64, error) {
	q := url.Values{}
	q.Set("gameId", minecraftGameID)
	q.Set("classId", modsClassID)
	q.Set("slug", slug)
	r := c.newRequest(slug, c.baseURL+"/v1/mods/search?"+q.Encode())

	var resp curseForgeSearchResponse
	if err := r.getJSON(ctx, &resp); err != nil {
		return 0, err
	}
	for _, m := range resp.Data {
		if strings.EqualFold(m.Slug, slug) {
			n, err := parseDownloadCount(m.DownloadCount)
			if err != nil {
				return 0, r.fail(http.StatusOK, err)
			}
			return n, nil
		}
	}
	return 0, r.fail(http.StatusOK, fmt.Errorf("no mod with slug %q", slug))
}

// parseDownloadCount accepts integer or float JSON numbers.
func parseDownloadCount(n *json.Number) (uint64, error) {
	if n == nil {
		return 0, errors.New("response has no downloadCount field")
	}
	if v, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil || f < 0 || math.IsNaN(f) || f >= math.MaxUint64 {
		return 0, fmt.Errorf("invalid downloadCount %q", n.String())
	}
	return uint64(f), nil
}
