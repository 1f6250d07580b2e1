package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"mxshs/oddscrawler/src/browser"
	"mxshs/oddscrawler/src/config"
	"mxshs/oddscrawler/src/db"
	"mxshs/oddscrawler/src/logging"
	"mxshs/oddscrawler/src/parser"
)

func main() {
	mode := flag.String("mode", "today", "today, league, results or csv")
	jobsPath := flag.String("jobs", "jobs.yaml", "leagues to crawl in league mode")
	name := flag.String("name", "", "table name (without .csv) for results and csv modes")
	kind := flag.String("kind", "odds", "records held by the stream in csv mode: odds, results or historical")
	flag.Parse()

	if err := run(*mode, *jobsPath, *name, *kind); err != nil {
		slog.Error("run failed", "mode", *mode, "error", err)
		os.Exit(1)
	}

	slog.Info("Successfully finished parsing", "mode", *mode)
}

func run(mode, jobsPath, name, kind string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Setup(cfg.LogLevel, "oddscrawler")

	if mode == "csv" {
		return convert(cfg.OutputDir, name, kind)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sinks []parser.Sink

	if cfg.Postgres.Enabled() {
		pg, err := db.GetDB(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer pg.Close()
		sinks = append(sinks, pg)
	}

	if cfg.Mongo.Enabled() {
		mg, err := db.NewMongoDB(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		defer mg.Close()
		sinks = append(sinks, mg)
	}

	session, err := browser.NewSession(ctx, browser.Options{
		Headless:  cfg.Browser.Headless,
		UserAgent: cfg.Browser.UserAgent,
		Settle:    cfg.Browser.Settle,
		Timeout:   cfg.Browser.Timeout,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	p := parser.New(session, cfg.MaxPages, sinks...)

	switch mode {
	case "today":
		_, err = p.Today(ctx, cfg.OutputDir)
		return err
	case "league":
		jobs, err := config.LoadJobs(jobsPath)
		if err != nil {
			return err
		}
		for _, league := range jobs.Leagues {
			if _, err := p.League(ctx, league, cfg.OutputDir); err != nil {
				return err
			}
		}
		return nil
	case "results":
		if name == "" {
			return fmt.Errorf("results mode needs -name")
		}
		_, err = p.Results(ctx, cfg.OutputDir, name)
		return err
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// convert rebuilds <name>.csv from an existing <name>_match_data.txt
// without crawling.
func convert(dir, name, kind string) error {
	if name == "" {
		return fmt.Errorf("csv mode needs -name")
	}

	mode, err := parser.ParseMode(kind)
	if err != nil {
		return err
	}

	rows, err := parser.ConvertStream(dir, name, mode)
	if err != nil {
		return err
	}

	slog.Info("converted record stream", "name", name, "kind", mode, "rows", rows)

	return nil
}
