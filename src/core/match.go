package core

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mxshs/oddscrawler/src/domain"
)

// MatchParser assembles match records from the views of a match page.
type MatchParser struct {
	fetcher Fetcher
}

func NewMatchParser(f Fetcher) *MatchParser {
	return &MatchParser{fetcher: f}
}

// ResultsURL is the 1X2 view of a match link, the link stored on records.
// A fragment already present on link is dropped.
func ResultsURL(link string) string {
	return matchBase(link) + resultsView
}

func matchBase(link string) string {
	base, _, _ := strings.Cut(link, "#")
	return base
}

// pages holds the three fetched views of one match.
type pages struct {
	link    string
	results *goquery.Document
	totals  string
	both    *goquery.Document
}

// load navigates to url and refreshes it so the view's odds get rendered.
func (mp *MatchParser) load(ctx context.Context, url string) (string, error) {
	if _, err := mp.fetcher.Fetch(ctx, url); err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	markup, err := mp.fetcher.Refresh(ctx)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	return markup, nil
}

func (mp *MatchParser) loadPages(ctx context.Context, link string) (*pages, error) {
	base := matchBase(link)
	p := &pages{link: base + resultsView}

	results, err := mp.load(ctx, p.link)
	if err != nil {
		return nil, err
	}

	totals, err := mp.load(ctx, base+totalsView)
	if err != nil {
		return nil, err
	}

	both, err := mp.load(ctx, base+bothView)
	if err != nil {
		return nil, err
	}

	if p.results, err = parseDocument(results); err != nil {
		return nil, fail("results view", err)
	}

	if p.both, err = parseDocument(both); err != nil {
		return nil, fail("both teams to score view", err)
	}

	p.totals = totals

	return p, nil
}

func (p *pages) matchInfo() (domain.MatchInfo, error) {
	info := domain.MatchInfo{Link: p.link}

	var err error

	if info.Date, err = extractDate(p.results); err != nil {
		return domain.MatchInfo{}, err
	}

	if info.Season, err = extractSeason(info.Date); err != nil {
		return domain.MatchInfo{}, err
	}

	if info.Country, info.League, err = extractCountryLeague(p.link); err != nil {
		return domain.MatchInfo{}, err
	}

	if info.Team1, info.Team2, err = extractTeams(p.results); err != nil {
		return domain.MatchInfo{}, err
	}

	hda, err := extractAverage(p.results, "home/draw/away", 3)
	if err != nil {
		return domain.MatchInfo{}, err
	}
	info.Home, info.Draw, info.Away = hda[0], hda[1], hda[2]

	if info.Over, info.Under, err = extractOverUnder(p.totals); err != nil {
		return domain.MatchInfo{}, err
	}

	yn, err := extractAverage(p.both, "both teams to score", 2)
	if err != nil {
		return domain.MatchInfo{}, err
	}
	info.Yes, info.No = yn[0], yn[1]

	return info, nil
}

// MatchInfo builds the pre-match odds record of link.
func (mp *MatchParser) MatchInfo(ctx context.Context, link string) (domain.MatchInfo, error) {
	p, err := mp.loadPages(ctx, link)
	if err != nil {
		return domain.MatchInfo{}, withURL(err, ResultsURL(link))
	}

	info, err := p.matchInfo()
	if err != nil {
		return domain.MatchInfo{}, withURL(err, p.link)
	}

	return info, nil
}

// ResultOnly builds the final result record of link from its 1X2 view.
func (mp *MatchParser) ResultOnly(ctx context.Context, link string) (domain.ResultMatchInfo, error) {
	url := ResultsURL(link)

	markup, err := mp.fetcher.Fetch(ctx, url)
	if err != nil {
		return domain.ResultMatchInfo{}, &FetchError{URL: url, Err: err}
	}

	if _, err := mp.fetcher.Refresh(ctx); err != nil {
		return domain.ResultMatchInfo{}, &FetchError{URL: url, Err: err}
	}

	doc, err := parseDocument(markup)
	if err != nil {
		return domain.ResultMatchInfo{}, withURL(fail("results view", err), url)
	}

	result, err := extractResult(doc)
	if err != nil {
		return domain.ResultMatchInfo{}, withURL(err, url)
	}

	return domain.ResultMatchInfo{Result: result, Link: url}, nil
}

// Historical builds the odds and final result record of a finished match.
func (mp *MatchParser) Historical(ctx context.Context, link string) (domain.HistoricalMatchInfo, error) {
	p, err := mp.loadPages(ctx, link)
	if err != nil {
		return domain.HistoricalMatchInfo{}, withURL(err, ResultsURL(link))
	}

	info, err := p.matchInfo()
	if err != nil {
		return domain.HistoricalMatchInfo{}, withURL(err, p.link)
	}

	result, err := extractResult(p.results)
	if err != nil {
		return domain.HistoricalMatchInfo{}, withURL(err, p.link)
	}

	return domain.HistoricalMatchInfo{MatchInfo: info, Result: result}, nil
}
