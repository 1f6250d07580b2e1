package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mxshs/oddscrawler/src/domain"
)

// monthAbbrs holds Jan..Dec, three letters each.
const monthAbbrs = "JanFebMarAprMayJunJulAugSepOctNovDec"

const totalsMarker = "P-2.50-0-0"

func fail(field string, err error) error {
	return &ExtractionError{Field: field, Err: err}
}

// extractDate turns "Monday, 15 Mar 2021, 20:00" into "15.03.2021".
func extractDate(doc *goquery.Document) (string, error) {
	p, err := fragment(doc.Selection, "p", "date")
	if err != nil {
		return "", fail("date", err)
	}

	text, err := between(p, ">", "<")
	if err != nil {
		return "", fail("date", err)
	}

	day, err := segment(text, ",", 1)
	if err != nil {
		return "", fail("date", err)
	}

	date := strings.Join(strings.Fields(day), " ")
	for i := 0; i < 12; i++ {
		date = strings.ReplaceAll(date, monthAbbrs[i*3:i*3+3], fmt.Sprintf("%02d", i+1))
	}

	return strings.ReplaceAll(date, " ", "."), nil
}

func extractSeason(date string) (int, error) {
	parts := strings.Split(date, ".")

	season, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, fail("season", err)
	}

	return season, nil
}

func extractCountryLeague(resultsURL string) (string, string, error) {
	parts := strings.Split(resultsURL, "/")
	if len(parts) < 6 {
		return "", "", fail("country/league", fmt.Errorf("%d path segments, need 6", len(parts)))
	}

	return parts[4], parts[5], nil
}

func extractTeams(doc *goquery.Document) (string, string, error) {
	sel := doc.Find("title").First()
	if sel.Length() == 0 {
		return "", "", fail("teams", fmt.Errorf("no <title> in document"))
	}

	title, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", "", fail("teams", err)
	}

	teams, err := between(title, "e>", "Bet")
	if err != nil {
		return "", "", fail("teams", err)
	}

	names := strings.Split(teams, "-")
	if len(names) != 2 {
		return "", "", fail("teams", fmt.Errorf("%q splits into %d names, need 2", teams, len(names)))
	}

	return strings.TrimSpace(names[0]), strings.TrimSpace(names[1]), nil
}

// extractAverage reads the cells of the average odds row.
func extractAverage(doc *goquery.Document, field string, want int) ([]float64, error) {
	row := doc.Find("tr.aver").First()
	if row.Length() == 0 {
		return nil, fail(field, fmt.Errorf(`no <tr class="aver"> in document`))
	}

	cells, err := fragments(row, "td", "right")
	if err != nil {
		return nil, fail(field, err)
	}

	if len(cells) != want {
		return nil, fail(field, fmt.Errorf("%d odds cells, need %d", len(cells), want))
	}

	odds := make([]float64, 0, want)
	for _, cell := range cells {
		raw, err := between(cell, ">", "<")
		if err != nil {
			return nil, fail(field, err)
		}

		v, err := parseOdds(raw)
		if err != nil {
			return nil, fail(field, err)
		}

		odds = append(odds, v)
	}

	return odds, nil
}

// extractOverUnder reads the 2.5 goals line. The value after the first
// text marker is stored as under and the next one as over.
func extractOverUnder(markup string) (over float64, under float64, err error) {
	rest, err := segment(markup, totalsMarker, 1)
	if err != nil {
		return 0, 0, fail("over/under", err)
	}

	parts := strings.Split(rest, `text">`)
	if len(parts) < 3 {
		return 0, 0, fail("over/under", fmt.Errorf("%d odds after %s, need 2", len(parts)-1, totalsMarker))
	}

	over, err = parseOdds(strings.Split(parts[2], "<")[0])
	if err != nil {
		return 0, 0, fail("over", err)
	}

	under, err = parseOdds(strings.Split(parts[1], "<")[0])
	if err != nil {
		return 0, 0, fail("under", err)
	}

	return over, under, nil
}

func extractResult(doc *goquery.Document) (domain.Result, error) {
	p, err := fragment(doc.Selection, "p", "result")
	if err != nil {
		return domain.Result{}, fail("result", err)
	}

	score, err := between(p, "<strong>", "</strong>")
	if err != nil {
		return domain.Result{}, fail("result", err)
	}

	goals := strings.Split(score, ":")
	if len(goals) != 2 {
		return domain.Result{}, fail("result", fmt.Errorf("score %q is not home:away", score))
	}

	home, err := strconv.Atoi(strings.TrimSpace(goals[0]))
	if err != nil {
		return domain.Result{}, fail("result", err)
	}

	away, err := strconv.Atoi(strings.TrimSpace(goals[1]))
	if err != nil {
		return domain.Result{}, fail("result", err)
	}

	if home < 0 || away < 0 {
		return domain.Result{}, fail("result", fmt.Errorf("negative score %q", score))
	}

	return domain.NewResult(home, away), nil
}

func parseOdds(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}
