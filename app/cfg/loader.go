package cfg

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	SourcesFile string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML file listing the feeds to poll"`

	// Persistent state, relative paths are resolved against the data directory
	DataDir     string `long:"data-dir" env:"DATA_DIR" default:"." description:"Directory holding the ledger, datasets, report and journal"`
	LedgerFile  string `long:"ledger-file" env:"LEDGER_FILE" default:"seen_links.txt" description:"Seen links ledger file"`
	DatasetDir  string `long:"dataset-dir" env:"DATASET_DIR" default:"csv" description:"Directory for per-feed CSV datasets"`
	ReportFile  string `long:"report-file" env:"REPORT_FILE" default:"index.html" description:"Rendered HTML report"`
	JournalFile string `long:"journal-file" env:"JOURNAL_FILE" default:"rss-mood.db" description:"SQLite run journal"`
	LockFile    string `long:"lock-file" env:"LOCK_FILE" default:".rss-mood.lock" description:"Lock file guarding against concurrent runs"`

	LedgerLimit  int    `long:"ledger-limit" env:"LEDGER_LIMIT" default:"1000" description:"Ledger line count above which the ledger is reset"`
	MaxRows      int    `long:"max-rows" env:"MAX_ROWS" default:"100" description:"Maximum rows kept per feed dataset"`
	FetchTimeout int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"25" description:"Timeout in seconds for each fetch attempt"`
	UserAgent    string `long:"user-agent" env:"USER_AGENT" description:"Browser-like user agent for feed requests"`

	PublishDay     string `long:"publish-day" env:"PUBLISH_DAY" default:"sunday" description:"Weekday on which the report is deployed (or 'always', 'never')"`
	DeployURL      string `long:"deploy-url" env:"DEPLOY_API_URL" default:"https://api.netlify.com/api/v1" description:"Static host deploy API base URL"`
	SiteID         string `long:"site-id" env:"NETLIFY_SITE_ID" description:"Static host site identifier"`
	Token          string `long:"token" env:"NETLIFY_TOKEN" description:"Static host bearer token"`
	PublishTimeout int    `long:"publish-timeout" env:"PUBLISH_TIMEOUT" default:"30" description:"Timeout in seconds for the deploy request"`

	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for the publish day decision (e.g., UTC, America/Jamaica)"`
	LogFormat string `long:"log-format" env:"LOG_FORMAT" default:"text" description:"Log output format: text or json"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load reads an optional .env file, then parses flags and environment.
// A nil config with a nil error means help was printed.
func Load() (*Cfg, error) {
	// .env is optional, the real environment always wins
	_ = godotenv.Load()

	return LoadArgs(os.Args[1:])
}

func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		SourcesFile:    raw.SourcesFile,
		DataDir:        raw.DataDir,
		LedgerFile:     resolve(raw.DataDir, raw.LedgerFile),
		DatasetDir:     resolve(raw.DataDir, raw.DatasetDir),
		ReportFile:     resolve(raw.DataDir, raw.ReportFile),
		JournalFile:    resolve(raw.DataDir, raw.JournalFile),
		LockFile:       resolve(raw.DataDir, raw.LockFile),
		LedgerLimit:    raw.LedgerLimit,
		MaxRows:        raw.MaxRows,
		FetchTimeout:   time.Duration(raw.FetchTimeout) * time.Second,
		UserAgent:      cmp.Or(raw.UserAgent, DefaultUserAgent),
		PublishDay:     strings.ToLower(strings.TrimSpace(raw.PublishDay)),
		DeployURL:      strings.TrimRight(raw.DeployURL, "/"),
		SiteID:         raw.SiteID,
		Token:          raw.Token,
		PublishTimeout: time.Duration(raw.PublishTimeout) * time.Second,
		Timezone:       raw.Timezone,
		LogFormat:      strings.ToLower(raw.LogFormat),
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Location resolves the configured timezone. Unknown names fall back to UTC
// together with the lookup error so the caller can warn about it.
func (c *Cfg) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC, err
	}
	return loc, nil
}

func (c *Cfg) validate() error {
	positiveFields := map[string]int{
		"ledger limit":    c.LedgerLimit,
		"max rows":        c.MaxRows,
		"fetch timeout":   int(c.FetchTimeout / time.Second),
		"publish timeout": int(c.PublishTimeout / time.Second),
	}

	for fieldName, fieldValue := range positiveFields {
		if fieldValue <= 0 {
			return fmt.Errorf("%s must be positive", fieldName)
		}
	}

	if c.PublishDay != "always" && c.PublishDay != "never" {
		if _, ok := ParseWeekday(c.PublishDay); !ok {
			return fmt.Errorf("unknown publish day: %s", c.PublishDay)
		}
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format: %s", c.LogFormat)
	}

	return nil
}

// ParseWeekday accepts full or three-letter English weekday names.
func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, true
		}
	}
	return time.Sunday, false
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
