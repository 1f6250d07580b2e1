package parser

import (
	"context"
	"fmt"
	"log/slog"

	"mxshs/oddscrawler/src/core"
	"mxshs/oddscrawler/src/domain"
)

// Sink persists assembled records.
type Sink interface {
	Save(ctx context.Context, rec domain.Record) error
}

// Mode selects which record is assembled for every link.
type Mode int

const (
	// Odds builds pre-match MatchInfo records.
	Odds Mode = iota
	// Results builds ResultMatchInfo records.
	Results
	// Historical builds HistoricalMatchInfo records.
	Historical
)

func (m Mode) String() string {
	switch m {
	case Odds:
		return "odds"
	case Results:
		return "results"
	case Historical:
		return "historical"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts the names printed by Mode.String.
func ParseMode(name string) (Mode, error) {
	for _, m := range []Mode{Odds, Results, Historical} {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown record kind %q (odds, results or historical)", name)
}

// SaveError means the record was built but a sink refused it. Saved sinks
// that came before the failing one keep the record.
type SaveError struct {
	Saved int
	Err   error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("[ERROR] Failed to save record (kept by %d sinks): %v", e.Saved, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

type Parser struct {
	fetcher  core.Fetcher
	matches  *core.MatchParser
	sinks    []Sink
	maxPages int
}

// New wires a parser around one fetch session. Every record is handed to
// each sink in order.
func New(f core.Fetcher, maxPages int, sinks ...Sink) *Parser {
	return &Parser{
		fetcher:  f,
		matches:  core.NewMatchParser(f),
		sinks:    sinks,
		maxPages: maxPages,
	}
}

func (p *Parser) TodayLinks(ctx context.Context) (domain.LinkSet, error) {
	return core.NewTodayCrawler(p.fetcher).Discover(ctx)
}

// LeagueLinks crawls the results listing of a league path such as
// "spain/laliga-2019-2020".
func (p *Parser) LeagueLinks(ctx context.Context, league string) (domain.LinkSet, error) {
	return core.NewLeagueCrawler(p.fetcher, core.LeagueResultsURL(league), p.maxPages).Discover(ctx)
}

func (p *Parser) assemble(ctx context.Context, link string, mode Mode) (domain.Record, error) {
	switch mode {
	case Odds:
		return p.matches.MatchInfo(ctx, link)
	case Results:
		return p.matches.ResultOnly(ctx, link)
	case Historical:
		return p.matches.Historical(ctx, link)
	default:
		return nil, fmt.Errorf("unknown mode %s", mode)
	}
}

// Matches processes links one after another. A failing link is reported in
// its outcome and does not stop the others. Only a cancelled context ends
// the run early.
//
// Records go to the extra sinks (the run's record stream) before the
// parser's database sinks, so the stream is never behind a database.
func (p *Parser) Matches(ctx context.Context, links []string, mode Mode, extra ...Sink) []domain.Outcome {
	sinks := append(append([]Sink(nil), extra...), p.sinks...)
	outcomes := make([]domain.Outcome, 0, len(links))

	for _, link := range links {
		if err := ctx.Err(); err != nil {
			slog.Warn("stopping match parsing", "reason", err, "left", len(links)-len(outcomes))
			break
		}

		out := domain.Outcome{Link: link}

		out.Record, out.Err = p.assemble(ctx, link, mode)
		if out.Err == nil {
			out.Err = save(ctx, sinks, out.Record)
		}

		if out.Err != nil {
			out.Record = nil
			slog.Error("failed to parse match", "link", link, "mode", mode, "error", out.Err)
		} else {
			slog.Debug("parsed match", "link", link, "mode", mode)
		}

		outcomes = append(outcomes, out)
	}

	return outcomes
}

func save(ctx context.Context, sinks []Sink, rec domain.Record) error {
	for i, s := range sinks {
		if err := s.Save(ctx, rec); err != nil {
			return &SaveError{Saved: i, Err: err}
		}
	}
	return nil
}

// Summarize counts successful and failed outcomes.
func Summarize(outcomes []domain.Outcome) (ok, failed int) {
	for _, o := range outcomes {
		if o.OK() {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
