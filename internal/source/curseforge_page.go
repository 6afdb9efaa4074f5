package source

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/joescharf/modcount/internal/models"
)

const (
	// DefaultCurseForgePageURL is the public CurseForge site.
	DefaultCurseForgePageURL = "https://www.curseforge.com"

	// BrowserUserAgent mimics a desktop browser; the project pages reject bare clients.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// CurseForgePage scrapes the download count from a public project page.
//
// The page has no stable markup contract. When the expected dt/dd pair is
// missing the count is reported as 0 rather than an error.
type CurseForgePage struct {
	client    *http.Client
	baseURL   string
	userAgent string
	log       Logger
}

// NewCurseForgePage returns a scraping source. A nil logger discards diagnostics.
func NewCurseForgePage(client *http.Client, baseURL, userAgent string, log Logger) *CurseForgePage {
	if baseURL == "" {
		baseURL = DefaultCurseForgePageURL
	}
	if userAgent == "" {
		userAgent = BrowserUserAgent
	}
	if log == nil {
		log = nopLogger{}
	}
	return &CurseForgePage{
		client:    defaultClient(client),
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		log:       log,
	}
}

func (p *CurseForgePage) Platform() models.Platform { return models.PlatformCurseForge }

// Count fetches /minecraft/mc-mods/{slug} and reads the dd following the
// "Downloads" dt.
func (p *CurseForgePage) Count(ctx context.Context, slug string) (uint64, error) {
	r := request{
		client:   p.client,
		platform: models.PlatformCurseForge,
		id:       slug,
		url:      p.baseURL + "/minecraft/mc-mods/" + url.PathEscape(slug),
		header:   http.Header{"User-Agent": []string{p.userAgent}},
	}

	body, err := r.get(ctx)
	if err != nil {
		return 0, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return 0, r.fail(http.StatusOK, err)
	}

	text, ok := downloadsText(doc)
	if !ok {
		p.log.Warning("Could not find download count on %s", r.url)
		return 0, nil
	}

	n, err := strconv.ParseUint(strings.ReplaceAll(text, ",", ""), 10, 64)
	if err != nil {
		p.log.Warning("Unreadable download count %q on %s", text, r.url)
		return 0, nil
	}
	return n, nil
}

// downloadsText returns the trimmed text of the dd after the first dt
// mentioning "Downloads".
func downloadsText(doc *goquery.Document) (string, bool) {
	dt := doc.Find("dt").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), "Downloads")
	}).First()
	if dt.Length() == 0 {
		return "", false
	}

	dd := dt.NextAllFiltered("dd").First()
	if dd.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(dd.Text()), true
}
