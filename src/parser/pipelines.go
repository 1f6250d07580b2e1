package parser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mxshs/oddscrawler/src/config"
	"mxshs/oddscrawler/src/db"
	"mxshs/oddscrawler/src/domain"
)

// Today collects today's matches with their pre-match odds into
// today_links.txt, today_match_data.txt and today.csv under dir.
func (p *Parser) Today(ctx context.Context, dir string) ([]domain.Outcome, error) {
	links, err := p.TodayLinks(ctx)
	if err != nil {
		return nil, err
	}

	linksPath := filepath.Join(dir, "today_links.txt")
	if err := db.WriteLinks(linksPath, links); err != nil {
		return nil, err
	}

	return p.matchFile(ctx, linksPath, filepath.Join(dir, "today"), Odds)
}

// League crawls every listing of a league and stores historical records
// per listing under dir/<country>. A failing listing is logged and skipped.
func (p *Parser) League(ctx context.Context, league config.League, dir string) ([]domain.Outcome, error) {
	country, _, _ := strings.Cut(league.Name, "/")
	if err := os.MkdirAll(filepath.Join(dir, country), 0o755); err != nil {
		return nil, err
	}

	var outcomes []domain.Outcome

	for _, listing := range league.Listings() {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		out, err := p.listing(ctx, listing, dir)
		if err != nil {
			slog.Error("failed to parse listing", "league", listing, "error", err)
			continue
		}

		outcomes = append(outcomes, out...)
	}

	return outcomes, nil
}

func (p *Parser) listing(ctx context.Context, listing, dir string) ([]domain.Outcome, error) {
	links, err := p.LeagueLinks(ctx, listing)
	if err != nil {
		return nil, err
	}

	base := filepath.Join(dir, filepath.FromSlash(listing))
	linksPath := base + "_links.txt"
	if err := db.WriteLinks(linksPath, links); err != nil {
		return nil, err
	}

	return p.matchFile(ctx, linksPath, base, Historical)
}

// Results fetches final results for the links of <name>.csv under dir, then
// writes <name>_result.csv and the joined <name>_full.csv.
func (p *Parser) Results(ctx context.Context, dir, name string) ([]domain.Outcome, error) {
	base := filepath.Join(dir, name)

	links, err := db.ReadColumn(base+".csv", "link")
	if err != nil {
		return nil, err
	}

	outcomes, err := p.matchList(ctx, links, base+"_result", Results)
	if err != nil {
		return outcomes, err
	}

	if err := db.MergeResults(base+".csv", base+"_result.csv", base+"_full.csv"); err != nil {
		return outcomes, fmt.Errorf("merge results: %w", err)
	}

	return outcomes, nil
}

func (p *Parser) matchFile(ctx context.Context, linksPath, base string, mode Mode) ([]domain.Outcome, error) {
	links, err := db.ReadLinks(linksPath)
	if err != nil {
		return nil, err
	}

	return p.matchList(ctx, links, base, mode)
}

// matchList appends records to <base>_match_data.txt and converts the whole
// stream to <base>.csv.
func (p *Parser) matchList(ctx context.Context, links []string, base string, mode Mode) ([]domain.Outcome, error) {
	streamPath := base + "_match_data.txt"

	sample, err := sampleFor(mode)
	if err != nil {
		return nil, err
	}

	stream, err := db.OpenRecordStream(streamPath)
	if err != nil {
		return nil, err
	}

	outcomes := p.Matches(ctx, links, mode, stream)
	if err := stream.Close(); err != nil {
		return outcomes, err
	}

	ok, failed := Summarize(outcomes)
	slog.Info("parsed matches", "mode", mode, "ok", ok, "failed", failed, "stream", streamPath)

	if _, err := toCSV(streamPath, base+".csv", sample); err != nil {
		return outcomes, fmt.Errorf("convert %s: %w", streamPath, err)
	}

	return outcomes, nil
}

// ConvertStream rewrites <name>.csv under dir from the record stream
// <name>_match_data.txt, holding records of the given mode.
func ConvertStream(dir, name string, mode Mode) (int, error) {
	base := filepath.Join(dir, filepath.FromSlash(name))

	sample, err := sampleFor(mode)
	if err != nil {
		return 0, err
	}

	return toCSV(base+"_match_data.txt", base+".csv", sample)
}

func sampleFor(mode Mode) (domain.Record, error) {
	switch mode {
	case Odds:
		return domain.MatchInfo{}, nil
	case Results:
		return domain.ResultMatchInfo{}, nil
	case Historical:
		return domain.HistoricalMatchInfo{}, nil
	default:
		return nil, fmt.Errorf("unknown mode %s", mode)
	}
}

func toCSV(streamPath, csvPath string, sample domain.Record) (int, error) {
	switch s := sample.(type) {
	case domain.MatchInfo:
		return db.StreamToCSV(streamPath, csvPath, s)
	case domain.HistoricalMatchInfo:
		return db.StreamToCSV(streamPath, csvPath, s)
	case domain.ResultMatchInfo:
		return db.StreamToCSV(streamPath, csvPath, s)
	default:
		return 0, fmt.Errorf("unsupported record %T", sample)
	}
}
