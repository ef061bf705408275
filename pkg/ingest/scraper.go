package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the wiki the yearly event pages are read from
	DefaultBaseURL = "https://en.wikipedia.org/wiki/"

	// DefaultTimeout is the per-request HTTP timeout
	DefaultTimeout = 30 * time.Second
)

// ErrNoEvents is returned for a page without an Events section
var ErrNoEvents = errors.New("page has no Events section")

// eventsEnd lists the section anchors that may close the Events section,
// in order of preference
var eventsEnd = []string{`id="Date_unknown"`, `id="Ongoing"`, `id="Births"`, `id="Deaths"`}

// ParseYearPage extracts events from a "<year> in the United States" page.
// Ids are assigned sequentially from startID.
//
// Days with a single event are one list item "Date – abstract". Days with
// several events are an item holding the date followed by a nested list of
// abstracts. A bare date item sets the date for following undated items.
func ParseYearPage(html string, year, startID int) ([]News, error) {
	start := strings.Index(html, `id="Events"`)
	if start < 0 {
		return nil, ErrNoEvents
	}
	html = html[start:]
	for _, anchor := range eventsEnd {
		if end := strings.Index(html, anchor); end >= 0 {
			html = html[:end]
			break
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	var (
		news          []News
		previousLines []string
		currentDate   time.Time
		id            = startID
	)
	add := func(date time.Time, abstract string) {
		news = append(news, News{ID: id, Date: date, Abstract: abstract})
		id++
	}

	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		text := li.Text()

		if strings.Count(text, "\n") > 1 {
			lines := strings.Split(text, "\n")
			for _, l := range lines {
				if l != "" && slices.Contains(previousLines, l) {
					return
				}
			}
			if date, ok := parseEventDateLogged(strings.TrimSpace(lines[0]), year); ok {
				for _, l := range lines[1:] {
					if l != "" {
						add(date, l)
					}
				}
			}
			previousLines = lines
			return
		}

		if slices.Contains(previousLines, text) {
			return
		}

		head, abstract, isEvent := strings.Cut(text, rangeSeparator)
		if !isEvent {
			if date, ok := ParseEventDate(strings.TrimSpace(text), year); ok {
				currentDate = date
			} else if !currentDate.IsZero() {
				add(currentDate, text)
			}
			return
		}

		if date, ok := parseEventDateLogged(strings.TrimSpace(head), year); ok {
			add(date, strings.TrimSpace(abstract))
		}
	})

	return news, nil
}

// Scraper downloads yearly event pages one at a time
type Scraper struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ScraperOption configures the Scraper
type ScraperOption func(*Scraper)

// WithBaseURL sets the wiki base URL
func WithBaseURL(baseURL string) ScraperOption {
	return func(s *Scraper) {
		s.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ScraperOption {
	return func(s *Scraper) {
		s.httpClient = httpClient
	}
}

// WithRateLimit sets the maximum request rate
func WithRateLimit(requestsPerSecond float64) ScraperOption {
	return func(s *Scraper) {
		s.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(userAgent string) ScraperOption {
	return func(s *Scraper) {
		s.userAgent = userAgent
	}
}

// NewScraper creates a scraper that makes at most one request per second
func NewScraper(opts ...ScraperOption) *Scraper {
	s := &Scraper{
		baseURL:    DefaultBaseURL,
		userAgent:  "mbayes/1.0",
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// YearURL returns the event page URL for year
func (s *Scraper) YearURL(year int) string {
	return fmt.Sprintf("%s%d_in_the_United_States", s.baseURL, year)
}

// FetchYear downloads and parses the events of one year
func (s *Scraper) FetchYear(ctx context.Context, year, startID int) ([]News, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.YearURL(year), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, s.YearURL(year))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return ParseYearPage(string(body), year, startID)
}

// Scrape fetches every year from startYear to endYear inclusive. A year that
// fails is logged and skipped; only cancellation of ctx stops the run.
func (s *Scraper) Scrape(ctx context.Context, startYear, endYear int) ([]News, error) {
	var all []News
	for year := startYear; year <= endYear; year++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		log.Info().Int("year", year).Msg("fetching events")
		news, err := s.FetchYear(ctx, year, len(all))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return all, ctxErr
			}
			log.Error().Err(err).Int("year", year).Msg("failed to fetch year, skipping")
			continue
		}

		log.Info().Int("year", year).Int("events", len(news)).Msg("fetched events")
		all = append(all, news...)
	}
	return all, nil
}
