package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yearPage = `<html><body>
<div id="toc">Contents</div>
<h2><span class="mw-headline" id="Events">Events</span></h2>
<h3>January</h3>
<ul>
<li><a href="/wiki/January_5">January 5</a> – Stocks rally after the rate cut.</li>
<li><a href="/wiki/January_12">January 12</a>
<ul>
<li>Oil prices jump.</li>
<li>Senate passes budget bill.</li>
</ul>
</li>
<li>February</li>
<li>Factory orders slump.</li>
<li>Not a date – ignored entirely.</li>
<li><a href="/wiki/March_3">March 3</a> – Storm closes exchanges.</li>
</ul>
<h2><span class="mw-headline" id="Date_unknown">Date unknown</span></h2>
<ul>
<li>April 9 – Hidden after the Events section.</li>
</ul>
<h2><span class="mw-headline" id="Births">Births</span></h2>
<ul>
<li>January 1 – Someone is born.</li>
</ul>
</body></html>`

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestParseYearPage(t *testing.T) {
	news, err := ParseYearPage(yearPage, 1990, 10)
	require.NoError(t, err)

	expected := []News{
		{ID: 10, Date: day(1990, time.January, 5), Abstract: "Stocks rally after the rate cut."},
		{ID: 11, Date: day(1990, time.January, 12), Abstract: "Oil prices jump."},
		{ID: 12, Date: day(1990, time.January, 12), Abstract: "Senate passes budget bill."},
		{ID: 13, Date: day(1990, time.February, 1), Abstract: "Factory orders slump."},
		{ID: 14, Date: day(1990, time.March, 3), Abstract: "Storm closes exchanges."},
	}
	assert.Equal(t, expected, news)
}

func TestParseYearPageWithoutEvents(t *testing.T) {
	_, err := ParseYearPage("<html><body><ul><li>January 1 – x</li></ul></body></html>", 1990, 0)
	assert.ErrorIs(t, err, ErrNoEvents)
}

func TestScraper(t *testing.T) {
	var (
		mu     sync.Mutex
		agents []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agents = append(agents, r.Header.Get("User-Agent"))
		mu.Unlock()
		switch r.URL.Path {
		case "/1990_in_the_United_States", "/1992_in_the_United_States":
			_, _ = w.Write([]byte(yearPage))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	s := NewScraper(
		WithBaseURL(srv.URL+"/"),
		WithRateLimit(1000),
		WithUserAgent("mbayes-test"),
		WithHTTPClient(srv.Client()),
	)
	assert.Equal(t, srv.URL+"/1990_in_the_United_States", s.YearURL(1990))

	news, err := s.Scrape(context.Background(), 1990, 1992)
	require.NoError(t, err)
	require.Len(t, news, 10)

	// 1991 fails and is skipped, ids continue across years
	for i, n := range news {
		assert.Equal(t, i, n.ID)
	}
	assert.Equal(t, 1990, news[0].Date.Year())
	assert.Equal(t, 1992, news[5].Date.Year())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"mbayes-test", "mbayes-test", "mbayes-test"}, agents)
}

func TestFetchYearError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewScraper(WithBaseURL(srv.URL+"/"), WithRateLimit(1000))
	_, err := s.FetchYear(context.Background(), 1990, 0)
	assert.Error(t, err)
}

func TestScrapeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScraper(WithBaseURL("http://127.0.0.1:1/"))
	news, err := s.Scrape(ctx, 1990, 1995)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, news)
}
