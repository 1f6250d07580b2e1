package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"mxshs/oddscrawler/src/domain"
)

const (
	participantMarker = "name table-participant"
	soccerMarker      = "soccer/"
	endOfListing      = "No data available"
)

// DefaultMaxPages caps a paginated crawl that never reaches the end marker.
const DefaultMaxPages = 100

// ExtractLinks returns the match links of a listing page.
func ExtractLinks(markup string) (domain.LinkSet, error) {
	links := domain.LinkSet{}

	for _, elem := range strings.Split(markup, participantMarker)[1:] {
		if !strings.Contains(elem, soccerMarker) {
			continue
		}

		path, err := between(elem, `href="/`, `">`)
		if err != nil {
			return nil, &ExtractionError{Field: "match link", Err: err}
		}

		links.Add(BaseURL + path)
	}

	return links, nil
}

// TodayCrawler reads the single listing of today's matches.
type TodayCrawler struct {
	fetcher Fetcher
	url     string
}

func NewTodayCrawler(f Fetcher) *TodayCrawler {
	return &TodayCrawler{fetcher: f, url: TodayURL}
}

func (tc *TodayCrawler) Discover(ctx context.Context) (domain.LinkSet, error) {
	markup, err := tc.fetcher.Fetch(ctx, tc.url)
	if err != nil {
		return nil, &FetchError{URL: tc.url, Err: err}
	}

	links, err := ExtractLinks(markup)
	if err != nil {
		return nil, withURL(err, tc.url)
	}

	slog.Info("collected match links", "url", tc.url, "links", len(links))

	return links, nil
}

// LeagueCrawler walks the pages of a league results listing until the
// listing reports that there is no more data.
type LeagueCrawler struct {
	fetcher  Fetcher
	base     string
	maxPages int
}

// NewLeagueCrawler crawls base, e.g.
// https://www.oddsportal.com/soccer/spain/laliga-2019-2020/results.
// maxPages <= 0 means DefaultMaxPages.
func NewLeagueCrawler(f Fetcher, base string, maxPages int) *LeagueCrawler {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	return &LeagueCrawler{fetcher: f, base: base, maxPages: maxPages}
}

// LeagueResultsURL is the results listing of a league path such as
// "spain/laliga-2019-2020".
func LeagueResultsURL(league string) string {
	return fmt.Sprintf("%ssoccer/%s/results", BaseURL, league)
}

func (lc *LeagueCrawler) pageURL(index int) string {
	return fmt.Sprintf("%s/#/page/%d", lc.base, index)
}

func (lc *LeagueCrawler) Discover(ctx context.Context) (domain.LinkSet, error) {
	links := domain.LinkSet{}

	for index := 1; index <= lc.maxPages; index++ {
		url := lc.pageURL(index)

		markup, err := lc.fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, &FetchError{URL: url, Err: err}
		}

		if strings.Contains(markup, endOfListing) {
			slog.Info("reached end of listing", "url", lc.base, "pages", index-1, "links", len(links))
			return links, nil
		}

		page, err := ExtractLinks(markup)
		if err != nil {
			return nil, withURL(err, url)
		}

		slog.Debug("collected page links", "url", url, "links", len(page))
		links.Merge(page)
	}

	return nil, &TerminationError{BaseURL: lc.base, Pages: lc.maxPages}
}
