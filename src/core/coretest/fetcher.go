// Package coretest provides an in-memory page fetcher and page builders for
// tests of code that crawls oddsportal pages.
package coretest

import (
	"context"
	"fmt"
	"strings"
)

// Fetcher serves canned markup by URL. Refresh serves Refreshed[url] for
// the current page when set, and the page itself otherwise.
type Fetcher struct {
	Pages     map[string]string
	Refreshed map[string]string
	Errs      map[string]error

	current   string
	Fetched   []string
	Refreshes int
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		Pages:     map[string]string{},
		Refreshed: map[string]string{},
		Errs:      map[string]error{},
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.Fetched = append(f.Fetched, url)
	if err := f.Errs[url]; err != nil {
		return "", err
	}

	markup, ok := f.Pages[url]
	if !ok {
		return "", fmt.Errorf("no page for %s", url)
	}

	f.current = url

	return markup, nil
}

func (f *Fetcher) Refresh(ctx context.Context) (string, error) {
	f.Refreshes++
	if f.current == "" {
		return "", fmt.Errorf("nothing to refresh")
	}

	if markup, ok := f.Refreshed[f.current]; ok {
		return markup, nil
	}

	return f.Pages[f.current], nil
}

// Match describes the values rendered into the views of one match.
type Match struct {
	Title     string // e.g. "Real Madrid - Barcelona"
	Date      string // e.g. "Monday, 15 Mar 2021, 20:00"
	Score     string // e.g. "2:1", empty for a match without result
	HomeDraw  [3]string
	OverUnder [2]string // values in page order: under then over
	YesNo     [2]string
}

// AddMatch registers the 1X2, totals and both-teams-to-score views of link.
func (f *Fetcher) AddMatch(link string, m Match) {
	f.Pages[link+"#1X2;2"] = ResultsPage(m)
	f.Pages[link+"#over-under;2"] = TotalsPage(m.OverUnder[0], m.OverUnder[1])
	f.Pages[link+"#bts;2"] = AveragePage(m.YesNo[:]...)
}

func ResultsPage(m Match) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<html><head><title>%s Betting Odds, Soccer</title></head><body>", m.Title)
	fmt.Fprintf(&b, `<p class="date datet t1615838400-1-1-0-0 ">%s</p>`, m.Date)
	if m.Score != "" {
		fmt.Fprintf(&b, `<p class="result">Final result <strong>%s</strong> (1:0, 1:1)</p>`, m.Score)
	}
	b.WriteString(averageTable(m.HomeDraw[:]...))
	b.WriteString("</body></html>")

	return b.String()
}

func TotalsPage(first, second string) string {
	return fmt.Sprintf(
		`<html><body><div class="table-container" id="P-2.50-0-0"><strong>Over/Under +2.5</strong>`+
			`<span class="avg"><div class="text">%s</div></span><div class="text">%s</div></div></body></html>`,
		first,
		second,
	)
}

func AveragePage(odds ...string) string {
	return "<html><body>" + averageTable(odds...) + "</body></html>"
}

func averageTable(odds ...string) string {
	var b strings.Builder

	b.WriteString(`<table class="table-main"><tbody><tr class="aver"><td class="name">Average</td>`)
	for _, o := range odds {
		fmt.Fprintf(&b, `<td class="right">%s</td>`, o)
	}
	b.WriteString(`<td class="center">95.1%</td></tr></tbody></table>`)

	return b.String()
}

// ListingPage renders a results listing with one row per match path
// (relative to the site root, e.g. "soccer/spain/laliga/a-b-X1/").
func ListingPage(paths ...string) string {
	var b strings.Builder

	b.WriteString(`<html><body><table id="tournamentTable"><tbody>`)
	for _, p := range paths {
		fmt.Fprintf(&b, `<tr class="odd deactivate"><td class="name table-participant"><a href="/%s">Home - Away</a></td></tr>`, p)
	}
	b.WriteString("</tbody></table></body></html>")

	return b.String()
}

// EmptyListingPage is the page shown past the last page of a listing.
func EmptyListingPage() string {
	return `<html><body><div id="emptyMsg">No data available</div></body></html>`
}
