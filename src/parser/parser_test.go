package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mxshs/oddscrawler/src/config"
	"mxshs/oddscrawler/src/core"
	"mxshs/oddscrawler/src/core/coretest"
	"mxshs/oddscrawler/src/db"
	"mxshs/oddscrawler/src/domain"
)

type memorySink struct {
	saved []domain.Record
	err   error
}

func (s *memorySink) Save(ctx context.Context, rec domain.Record) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, rec)
	return nil
}

func match(title, score string) coretest.Match {
	return coretest.Match{
		Title:     title,
		Date:      "Saturday, 20 Jun 2020, 21:00",
		Score:     score,
		HomeDraw:  [3]string{"2.00", "3.10", "3.90"},
		OverUnder: [2]string{"1.95", "1.85"},
		YesNo:     [2]string{"1.80", "1.95"},
	}
}

const leagueLink = "https://www.oddsportal.com/soccer/spain/laliga-2019-2020/"

func TestMatches_IsolatesFailures(t *testing.T) {
	f := coretest.NewFetcher()
	links := []string{leagueLink + "a-b-X1/", leagueLink + "c-d-X2/", leagueLink + "e-f-X3/"}
	f.AddMatch(links[0], match("A - B", "1:0"))
	f.AddMatch(links[1], match("C - D", "1:1"))
	f.AddMatch(links[2], match("E - F", "0:2"))
	f.Pages[links[1]+"#1X2;2"] = "<html><body>layout changed</body></html>"

	sink := &memorySink{}
	outcomes := New(f, 0, sink).Matches(context.Background(), links, Historical)

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if !outcomes[0].OK() || !outcomes[2].OK() {
		t.Fatalf("expected links 1 and 3 to succeed: %+v", outcomes)
	}

	var ee *core.ExtractionError
	if outcomes[1].OK() || !errors.As(outcomes[1].Err, &ee) || outcomes[1].Record != nil {
		t.Fatalf("expected extraction failure for link 2, got %+v", outcomes[1])
	}
	if outcomes[1].Link != links[1] {
		t.Fatalf("failure must name its link, got %q", outcomes[1].Link)
	}

	if len(sink.saved) != 2 {
		t.Fatalf("expected 2 saved records, got %d", len(sink.saved))
	}
	if sink.saved[1].Key() != links[2]+"#1X2;2" {
		t.Fatalf("unexpected second record %+v", sink.saved[1])
	}

	ok, failed := Summarize(outcomes)
	if ok != 2 || failed != 1 {
		t.Fatalf("expected 2 ok and 1 failed, got %d and %d", ok, failed)
	}
}

func TestMatches_SinkFailure(t *testing.T) {
	f := coretest.NewFetcher()
	f.AddMatch(leagueLink+"a-b-X1/", match("A - B", "1:0"))

	outcomes := New(f, 0, &memorySink{err: errors.New("disk full")}).
		Matches(context.Background(), []string{leagueLink + "a-b-X1/"}, Results)

	var se *SaveError
	if len(outcomes) != 1 || !errors.As(outcomes[0].Err, &se) {
		t.Fatalf("expected SaveError, got %+v", outcomes)
	}
}

func TestMatches_StreamKeepsRecordWhenDatabaseFails(t *testing.T) {
	f := coretest.NewFetcher()
	f.AddMatch(leagueLink+"a-b-X1/", match("A - B", "1:0"))

	stream := &memorySink{}
	database := &memorySink{err: errors.New("connection refused")}

	outcomes := New(f, 0, database).
		Matches(context.Background(), []string{leagueLink + "a-b-X1/"}, Historical, stream)

	var se *SaveError
	if len(outcomes) != 1 || !errors.As(outcomes[0].Err, &se) {
		t.Fatalf("expected SaveError, got %+v", outcomes)
	}
	if se.Saved != 1 {
		t.Fatalf("expected the record kept by 1 sink, got %d", se.Saved)
	}
	if len(stream.saved) != 1 || stream.saved[0].Key() != leagueLink+"a-b-X1/#1X2;2" {
		t.Fatalf("expected the stream to hold the record, got %+v", stream.saved)
	}
}

func TestMatches_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := New(coretest.NewFetcher(), 0).Matches(ctx, []string{leagueLink + "a-b-X1/"}, Odds)
	if len(outcomes) != 0 {
		t.Fatalf("expected no outcomes, got %+v", outcomes)
	}
}

func TestLeague_WritesFilesPerListing(t *testing.T) {
	dir := t.TempDir()
	f := coretest.NewFetcher()

	past := core.LeagueResultsURL("spain/laliga-2019-2020")
	f.Pages[past+"/#/page/1"] = coretest.ListingPage("soccer/spain/laliga-2019-2020/a-b-X1/", "soccer/spain/laliga-2019-2020/c-d-X2/")
	f.Pages[past+"/#/page/2"] = coretest.EmptyListingPage()
	f.AddMatch(leagueLink+"a-b-X1/", match("A - B", "3:0"))
	f.AddMatch(leagueLink+"c-d-X2/", match("C - D", "2:2"))

	// The current season listing cannot be fetched and is skipped.
	outcomes, err := New(f, 0).League(context.Background(), config.League{
		Name:    "spain/laliga",
		Seasons: []string{"2019-2020"},
	}, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %+v", outcomes)
	}

	links, err := os.ReadFile(filepath.Join(dir, "spain", "laliga-2019-2020_links.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Split(string(links), "\n"); len(got) != 2 {
		t.Fatalf("expected 2 links in file, got %q", got)
	}

	table, err := os.ReadFile(filepath.Join(dir, "spain", "laliga-2019-2020.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows := strings.Split(strings.TrimSpace(string(table)), "\n")
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", rows)
	}
	if rows[0] != "date,season,country,league,team1,team2,home,draw,away,over,under,yes,no,link,result,amount,both" {
		t.Fatalf("unexpected header %q", rows[0])
	}
	want := "20.06.2020,2020,spain,laliga-2019-2020,A,B,2,3.1,3.9,1.85,1.95,1.8,1.95," + leagueLink + "a-b-X1/#1X2;2,1,3,0"
	if rows[1] != want {
		t.Fatalf("expected row %q, got %q", want, rows[1])
	}
}

func TestTodayThenResults(t *testing.T) {
	dir := t.TempDir()
	f := coretest.NewFetcher()

	link := "https://www.oddsportal.com/soccer/england/premier-league/a-b-X1/"
	f.Pages[core.TodayURL] = coretest.ListingPage("soccer/england/premier-league/a-b-X1/")
	f.AddMatch(link, match("A - B", ""))

	outcomes, err := New(f, 0).Today(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcomes) != 1 || !outcomes[0].OK() {
		t.Fatalf("unexpected outcomes %+v", outcomes)
	}

	// The match has been played since.
	f.AddMatch(link, match("A - B", "0:1"))

	outcomes, err = New(f, 0).Results(context.Background(), dir, "today")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcomes) != 1 || !outcomes[0].OK() {
		t.Fatalf("unexpected outcomes %+v", outcomes)
	}

	full, err := os.ReadFile(filepath.Join(dir, "today_full.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows := strings.Split(strings.TrimSpace(string(full)), "\n")
	if len(rows) != 2 {
		t.Fatalf("expected header and 1 row, got %q", rows)
	}
	if !strings.HasSuffix(rows[0], ",link,result,amount,both") {
		t.Fatalf("unexpected header %q", rows[0])
	}
	if !strings.HasSuffix(rows[1], link+"#1X2;2,2,1,0") {
		t.Fatalf("unexpected row %q", rows[1])
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{Odds, Results, Historical} {
		got, err := ParseMode(m.String())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != m {
			t.Fatalf("expected %s, got %s", m, got)
		}
	}

	if _, err := ParseMode("live"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestConvertStream(t *testing.T) {
	dir := t.TempDir()
	link := leagueLink + "a-b-X1/#1X2;2"
	if err := os.MkdirAll(filepath.Join(dir, "spain"), 0o755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stream, err := db.OpenRecordStream(filepath.Join(dir, "spain", "laliga_match_data.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := stream.Save(context.Background(), domain.ResultMatchInfo{Result: domain.NewResult(2, 1), Link: link}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := ConvertStream(dir, "spain/laliga", Results)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row, got %d", rows)
	}

	table, err := os.ReadFile(filepath.Join(dir, "spain", "laliga.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "result,amount,both,link\n1,3,1," + link + "\n"
	if string(table) != want {
		t.Fatalf("expected %q, got %q", want, table)
	}
}

func TestConvertStream_MissingStream(t *testing.T) {
	if _, err := ConvertStream(t.TempDir(), "nothing", Odds); err == nil {
		t.Fatalf("expected error for a missing record stream")
	}
}
