package source

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/joescharf/modcount/internal/models"
)

// DefaultModrinthBaseURL is the public Modrinth API host.
const DefaultModrinthBaseURL = "https://api.modrinth.com"

// Modrinth reads total downloads from the Modrinth v2 project endpoint.
type Modrinth struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// NewModrinth returns a Modrinth source. An empty baseURL uses the public API.
func NewModrinth(client *http.Client, baseURL, userAgent string) *Modrinth {
	if baseURL == "" {
		baseURL = DefaultModrinthBaseURL
	}
	return &Modrinth{
		client:    defaultClient(client),
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
	}
}

func (m *Modrinth) Platform() models.Platform { return models.PlatformModrinth }

type modrinthProject struct {
	Downloads *int64 `json:"downloads"`
}

// Count fetches GET /v2/project/{slug} and returns its downloads field.
func (m *Modrinth) Count(ctx context.Context, slug string) (uint64, error) {
	r := request{
		client:   m.client,
		platform: models.PlatformModrinth,
		id:       slug,
		url:      m.baseURL + "/v2/project/" + url.PathEscape(slug),
		header:   http.Header{},
	}
	if m.userAgent != "" {
		r.header.Set("User-Agent", m.userAgent)
	}

	var p modrinthProject
	if err := r.getJSON(ctx, &p); err != nil {
		return 0, err
	}
	if p.Downloads == nil {
		return 0, r.fail(http.StatusOK, errors.New("response has no downloads field"))
	}
	if *p.Downloads < 0 {
		return 0, r.fail(http.StatusOK, errors.New("negative download count"))
	}
	return uint64(*p.Downloads), nil
}
