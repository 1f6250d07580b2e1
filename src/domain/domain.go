package domain

import (
	"sort"
	"strconv"
)

// Record is any assembled match record that can be persisted.
type Record interface {
	// Key is the results-view link, used as the join key between tables.
	Key() string
	Columns() []string
	Values() []string
}

type MatchInfo struct {
	Date    string  `json:"date" bson:"date"`
	Season  int     `json:"season" bson:"season"`
	Country string  `json:"country" bson:"country"`
	League  string  `json:"league" bson:"league"`
	Team1   string  `json:"team1" bson:"team1"`
	Team2   string  `json:"team2" bson:"team2"`
	Home    float64 `json:"home" bson:"home"`
	Draw    float64 `json:"draw" bson:"draw"`
	Away    float64 `json:"away" bson:"away"`
	Over    float64 `json:"over" bson:"over"`
	Under   float64 `json:"under" bson:"under"`
	Yes     float64 `json:"yes" bson:"yes"`
	No      float64 `json:"no" bson:"no"`
	Link    string  `json:"link" bson:"link"`
}

// Result is the final-score part of a finished match.
type Result struct {
	Result int `json:"result" bson:"result"`
	Amount int `json:"amount" bson:"amount"`
	Both   int `json:"both" bson:"both"`
}

type HistoricalMatchInfo struct {
	MatchInfo `bson:",inline"`
	Result    `bson:",inline"`
}

type ResultMatchInfo struct {
	Result `bson:",inline"`
	Link   string `json:"link" bson:"link"`
}

// Outcome codes relative to the two listed teams.
const (
	Draw    = 0
	HomeWin = 1
	AwayWin = 2
)

// NewResult derives outcome, goal total and both-scored flag from a final score.
func NewResult(home, away int) Result {
	r := Result{Amount: home + away}

	switch {
	case home == away:
		r.Result = Draw
	case home > away:
		r.Result = HomeWin
	default:
		r.Result = AwayWin
	}

	if home != 0 && away != 0 {
		r.Both = 1
	}

	return r
}

var (
	matchColumns = []string{
		"date", "season", "country", "league", "team1", "team2",
		"home", "draw", "away", "over", "under", "yes", "no", "link",
	}
	resultColumns = []string{"result", "amount", "both"}
)

func (m MatchInfo) Key() string { return m.Link }

func (m MatchInfo) Columns() []string {
	return append([]string(nil), matchColumns...)
}

func (m MatchInfo) Values() []string {
	return []string{
		m.Date,
		strconv.Itoa(m.Season),
		m.Country,
		m.League,
		m.Team1,
		m.Team2,
		formatOdds(m.Home),
		formatOdds(m.Draw),
		formatOdds(m.Away),
		formatOdds(m.Over),
		formatOdds(m.Under),
		formatOdds(m.Yes),
		formatOdds(m.No),
		m.Link,
	}
}

func (r Result) Columns() []string {
	return append([]string(nil), resultColumns...)
}

func (r Result) Values() []string {
	return []string{
		strconv.Itoa(r.Result),
		strconv.Itoa(r.Amount),
		strconv.Itoa(r.Both),
	}
}

func (h HistoricalMatchInfo) Key() string { return h.MatchInfo.Link }

func (h HistoricalMatchInfo) Columns() []string {
	return append(h.MatchInfo.Columns(), h.Result.Columns()...)
}

func (h HistoricalMatchInfo) Values() []string {
	return append(h.MatchInfo.Values(), h.Result.Values()...)
}

func (r ResultMatchInfo) Key() string { return r.Link }

func (r ResultMatchInfo) Columns() []string {
	return append(r.Result.Columns(), "link")
}

func (r ResultMatchInfo) Values() []string {
	return append(r.Result.Values(), r.Link)
}

func formatOdds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// LinkSet is a set of match-page links.
type LinkSet map[string]struct{}

func NewLinkSet(links ...string) LinkSet {
	s := LinkSet{}
	for _, l := range links {
		s.Add(l)
	}
	return s
}

func (s LinkSet) Add(link string) {
	s[link] = struct{}{}
}

func (s LinkSet) Has(link string) bool {
	_, ok := s[link]
	return ok
}

// Merge adds every link of o to s.
func (s LinkSet) Merge(o LinkSet) {
	for l := range o {
		s[l] = struct{}{}
	}
}

func (s LinkSet) Sorted() []string {
	links := make([]string, 0, len(s))
	for l := range s {
		links = append(links, l)
	}
	sort.Strings(links)
	return links
}

// Outcome is the result of processing one link: a record or the reason
// there is none.
type Outcome struct {
	Link   string
	Record Record
	Err    error
}

func (o Outcome) OK() bool { return o.Err == nil }
