package core

import (
	"context"

	"mxshs/oddscrawler/src/domain"
)

// BaseURL is prefixed to every extracted match link.
const BaseURL = "https://www.oddsportal.com/"

// TodayURL lists the matches of the current day.
const TodayURL = BaseURL + "matches/soccer/"

// Fetcher returns the rendered markup of a page. Implementations own the
// settle delay that follows each navigation.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	// Refresh re-renders the current page.
	Refresh(ctx context.Context) (string, error)
}

// LinkCrawler discovers match-page links.
type LinkCrawler interface {
	Discover(ctx context.Context) (domain.LinkSet, error)
}

// Suffixes selecting the match page views.
const (
	resultsView = "#1X2;2"
	totalsView  = "#over-under;2"
	bothView    = "#bts;2"
)
