package availability

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dropradar/dropstack/config"
	"github.com/dropradar/dropstack/internal/enum"
	er "github.com/dropradar/dropstack/internal/errors"
)

// Textual and embedded-JSON markers the registrar search page renders.
// Lowercased before matching.
var (
	takenMarkers = []string{
		"is taken",
		"is unavailable",
		"already registered",
		`"available":false`,
	}
	availableMarkers = []string{
		"is available",
		"add to cart",
		`"available":true`,
	}
)

// scrapeChecker pattern-matches a registrar's public search results page.
// It is the lowest-confidence signal: anti-bot blocking and page redesigns
// both degrade to SignalUnknown so the cascade moves on.
type scrapeChecker struct {
	searchURL string
	client    *http.Client
}

func NewScrapeChecker(cfg *config.ValidationConfig) *scrapeChecker {
	return &scrapeChecker{
		searchURL: cfg.ScrapeSearchURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.DNSTimeoutSeconds) * time.Second,
		},
	}
}

func (c *scrapeChecker) Name() string {
	return "scrape"
}

func (c *scrapeChecker) Check(ctx context.Context, domain string) (enum.Signal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+domain, nil)
	if err != nil {
		return enum.SignalUnknown, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html")

	resp, err := c.client.Do(req)
	if err != nil {
		return enum.SignalUnknown, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return enum.SignalUnknown, er.ErrScrapeBlocked
	}
	if resp.StatusCode != http.StatusOK {
		return enum.SignalUnknown, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return enum.SignalUnknown, nil
	}

	return classifyPage(doc), nil
}

func classifyPage(doc *goquery.Document) enum.Signal {
	var chunks []string
	chunks = append(chunks, doc.Find("body").Text())
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		chunks = append(chunks, s.Text())
	})
	page := strings.ToLower(strings.Join(chunks, "\n"))

	for _, marker := range takenMarkers {
		if strings.Contains(page, marker) {
			return enum.SignalRegistered
		}
	}
	for _, marker := range availableMarkers {
		if strings.Contains(page, marker) {
			return enum.SignalAvailable
		}
	}
	return enum.SignalUnknown
}
