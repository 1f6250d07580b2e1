package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mxshs/oddscrawler/src/config"
	"mxshs/oddscrawler/src/domain"

	pq "github.com/lib/pq"
)

type DB struct {
	db    *sql.DB
	table string
}

func GetDB(ctx context.Context, cfg config.Postgres) (*DB, error) {
	conn_info := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Pass,
		cfg.Name,
	)

	conn, err := sql.Open("postgres", conn_info)
	if err != nil {
		return nil, err
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	table := cfg.Table
	if table == "" {
		table = "matches"
	}

	db := &DB{db: conn, table: pq.QuoteIdentifier(table)}
	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate(ctx context.Context) error {
	_, err := db.db.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			link TEXT PRIMARY KEY,
			date TEXT,
			season INTEGER,
			country TEXT,
			league TEXT,
			team1 TEXT,
			team2 TEXT,
			home DOUBLE PRECISION,
			draw DOUBLE PRECISION,
			away DOUBLE PRECISION,
			"over" DOUBLE PRECISION,
			"under" DOUBLE PRECISION,
			yes DOUBLE PRECISION,
			no DOUBLE PRECISION,
			result SMALLINT,
			amount SMALLINT,
			"both" SMALLINT
		);`,
		db.table,
	))

	return describe(err)
}

// execer is either the pool or an open transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Save upserts rec by link. Result-only records fill the result columns of
// an existing row, or create a row holding just the result. A historical
// record is written in one transaction so its row never lacks the result.
func (db *DB) Save(ctx context.Context, rec domain.Record) error {
	switch r := rec.(type) {
	case domain.MatchInfo:
		return db.InsertMatch(ctx, &r)
	case domain.HistoricalMatchInfo:
		return db.InsertHistorical(ctx, &r)
	case domain.ResultMatchInfo:
		return db.InsertResult(ctx, r.Link, &r.Result)
	default:
		return fmt.Errorf("unsupported record %T", rec)
	}
}

func (db *DB) InsertHistorical(ctx context.Context, h *domain.HistoricalMatchInfo) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return describe(err)
	}

	if err := db.insertMatch(ctx, tx, &h.MatchInfo); err != nil {
		tx.Rollback()
		return err
	}

	if err := db.insertResult(ctx, tx, h.MatchInfo.Link, &h.Result); err != nil {
		tx.Rollback()
		return err
	}

	return describe(tx.Commit())
}

func (db *DB) InsertMatch(ctx context.Context, m *domain.MatchInfo) error {
	return db.insertMatch(ctx, db.db, m)
}

func (db *DB) InsertResult(ctx context.Context, link string, r *domain.Result) error {
	return db.insertResult(ctx, db.db, link, r)
}

func (db *DB) insertMatch(ctx context.Context, ex execer, m *domain.MatchInfo) error {
	_, err := ex.ExecContext(
		ctx,
		fmt.Sprintf(
			`INSERT INTO %s (link, date, season, country, league, team1, team2,
				home, draw, away, "over", "under", yes, no)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (link) DO UPDATE SET
				date = EXCLUDED.date, season = EXCLUDED.season,
				country = EXCLUDED.country, league = EXCLUDED.league,
				team1 = EXCLUDED.team1, team2 = EXCLUDED.team2,
				home = EXCLUDED.home, draw = EXCLUDED.draw, away = EXCLUDED.away,
				"over" = EXCLUDED."over", "under" = EXCLUDED."under",
				yes = EXCLUDED.yes, no = EXCLUDED.no;`,
			db.table,
		),
		m.Link,
		m.Date,
		m.Season,
		m.Country,
		m.League,
		m.Team1,
		m.Team2,
		m.Home,
		m.Draw,
		m.Away,
		m.Over,
		m.Under,
		m.Yes,
		m.No,
	)

	return describe(err)
}

func (db *DB) insertResult(ctx context.Context, ex execer, link string, r *domain.Result) error {
	_, err := ex.ExecContext(
		ctx,
		fmt.Sprintf(
			`INSERT INTO %s (link, result, amount, "both")
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (link) DO UPDATE SET
				result = EXCLUDED.result, amount = EXCLUDED.amount, "both" = EXCLUDED."both";`,
			db.table,
		),
		link,
		r.Result,
		r.Amount,
		r.Both,
	)

	return describe(err)
}

func (db *DB) Close() error {
	return db.db.Close()
}

// describe adds the postgres error code to driver errors.
func describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("postgres %s (%s): %w", pqErr.Code, pqErr.Code.Name(), err)
	}
	return err
}
