package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mxshs/oddscrawler/src/db"
	"mxshs/oddscrawler/src/domain"
)

func TestConvert(t *testing.T) {
	dir := t.TempDir()

	stream, err := db.OpenRecordStream(filepath.Join(dir, "today_match_data.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := domain.MatchInfo{
		Date:    "20.06.2020",
		Season:  2020,
		Country: "england",
		League:  "premier-league",
		Team1:   "A",
		Team2:   "B",
		Home:    2,
		Draw:    3.1,
		Away:    3.9,
		Over:    1.85,
		Under:   1.95,
		Yes:     1.8,
		No:      1.95,
		Link:    "https://www.oddsportal.com/soccer/england/premier-league/a-b-X1/#1X2;2",
	}
	if err := stream.Save(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := convert(dir, "today", "odds"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	table, err := os.ReadFile(filepath.Join(dir, "today.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows := strings.Split(strings.TrimSpace(string(table)), "\n")
	if len(rows) != 2 {
		t.Fatalf("expected header and 1 row, got %q", rows)
	}
	if want := strings.Join(rec.Values(), ","); rows[1] != want {
		t.Fatalf("expected row %q, got %q", want, rows[1])
	}
}

func TestConvert_BadArguments(t *testing.T) {
	tests := []struct {
		name, table, kind string
	}{
		{name: "missing name", table: "", kind: "odds"},
		{name: "unknown kind", table: "today", kind: "live"},
		{name: "missing stream", table: "today", kind: "historical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := convert(t.TempDir(), tt.table, tt.kind); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
