package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Postgres struct {
	Host  string
	Port  string
	User  string
	Pass  string
	Name  string
	Table string
}

// Enabled reports whether a postgres sink was configured.
func (p Postgres) Enabled() bool { return p.Host != "" }

type Mongo struct {
	URI        string
	Database   string
	Collection string
}

func (m Mongo) Enabled() bool { return m.URI != "" }

type Browser struct {
	Headless  bool
	UserAgent string
	Settle    time.Duration
	Timeout   time.Duration
}

type Config struct {
	Postgres  Postgres
	Mongo     Mongo
	Browser   Browser
	MaxPages  int
	OutputDir string
	LogLevel  string
}

// Load reads the environment, after merging the variables of the given
// .env files. A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, f := range envFiles {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Postgres: Postgres{
			Host:  os.Getenv("DB_HOST"),
			Port:  getenv("DB_PORT", "5432"),
			User:  os.Getenv("DB_USER"),
			Pass:  os.Getenv("DB_PASS"),
			Name:  os.Getenv("DB"),
			Table: getenv("DB_TABLE", "matches"),
		},
		Mongo: Mongo{
			URI:        os.Getenv("MONGO_URI"),
			Database:   getenv("MONGO_DB", "oddsportal"),
			Collection: getenv("MONGO_COLLECTION", "matches"),
		},
		Browser: Browser{
			UserAgent: os.Getenv("BROWSER_USER_AGENT"),
		},
		OutputDir: getenv("OUTPUT_DIR", "."),
		LogLevel:  getenv("LOG_LEVEL", "info"),
	}

	var err error

	if cfg.Browser.Headless, err = strconv.ParseBool(getenv("BROWSER_HEADLESS", "true")); err != nil {
		return nil, fmt.Errorf("BROWSER_HEADLESS: %w", err)
	}

	if cfg.Browser.Settle, err = time.ParseDuration(getenv("BROWSER_SETTLE", "100ms")); err != nil {
		return nil, fmt.Errorf("BROWSER_SETTLE: %w", err)
	}

	if cfg.Browser.Timeout, err = time.ParseDuration(getenv("BROWSER_TIMEOUT", "0s")); err != nil {
		return nil, fmt.Errorf("BROWSER_TIMEOUT: %w", err)
	}

	if cfg.MaxPages, err = strconv.Atoi(getenv("MAX_PAGES", "100")); err != nil {
		return nil, fmt.Errorf("MAX_PAGES: %w", err)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// League is one league to crawl, e.g. "spain/laliga", over a list of
// finished seasons such as "2019-2020". The current season is always added.
type League struct {
	Name    string   `yaml:"name"`
	Seasons []string `yaml:"seasons"`
}

type Jobs struct {
	Leagues []League `yaml:"leagues"`
}

func LoadJobs(path string) (*Jobs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs file: %w", err)
	}

	var jobs Jobs
	if err := yaml.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse jobs file: %w", err)
	}

	for i, l := range jobs.Leagues {
		if l.Name == "" {
			return nil, fmt.Errorf("league %d has no name", i+1)
		}
	}

	return &jobs, nil
}

// Listings returns the league paths to crawl: every season, then the
// current one.
func (l League) Listings() []string {
	out := make([]string, 0, len(l.Seasons)+1)
	for _, s := range l.Seasons {
		out = append(out, l.Name+"-"+s)
	}
	return append(out, l.Name)
}
