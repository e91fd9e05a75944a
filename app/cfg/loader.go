package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Content and output
	ContentDir string `long:"content-dir" env:"CONTENT_DIR" default:"./src/content" description:"Directory containing content collections"`
	OutDir     string `long:"out-dir" env:"OUT_DIR" default:"./dist" description:"Directory the built artifacts are written to"`
	SiteFile   string `long:"site-file" env:"SITE_FILE" default:"./site.yml" description:"Site metadata file (.yml, .yaml or .toml)"`
	DBPath     string `long:"db-path" env:"DB_PATH" default:"./.cache/content.db" description:"SQLite content store path"`

	// Feed
	FeedPath        string   `long:"feed-path" env:"FEED_PATH" default:"rss.xml" description:"Feed location relative to the output directory and site URL"`
	FeedCollections []string `long:"feed-collection" env:"FEED_COLLECTIONS" env-delim:"," default:"blog" description:"Collection included in the feed (repeatable)"`
	FeedContent     bool     `long:"feed-content" env:"FEED_CONTENT" description:"Include rendered entry bodies in the feed"`
	FeedMaxItems    int      `long:"feed-max-items" env:"FEED_MAX_ITEMS" default:"0" description:"Maximum number of feed items (0 for unlimited)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Warsaw)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

type buildCommand struct{}

type serveCommand struct {
	Port              string `long:"port" env:"PORT" default:"4321" description:"Preview server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"5" description:"Content re-sync interval in seconds (0 disables)"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for /api endpoints (optional)"`
}

func Load() (*Cfg, error) {
	return Parse(os.Args[1:])
}

// Parse reads configuration from args and the environment. It returns nil
// and no error when help was requested.
func Parse(args []string) (*Cfg, error) {
	var raw rawCfg
	var build buildCommand
	var serve serveCommand

	parser := flags.NewParser(&raw, flags.Default)
	parser.Name = "sitefeed"

	if _, err := parser.AddCommand(CommandBuild, "Build the site artifacts",
		"Sync content into the store and write the RSS feed and sitemap.", &build); err != nil {
		return nil, fmt.Errorf("failed to register command: %w", err)
	}
	if _, err := parser.AddCommand(CommandServe, "Build and preview the site",
		"Build the site, serve the output directory and rebuild when content changes.", &serve); err != nil {
		return nil, fmt.Errorf("failed to register command: %w", err)
	}

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if parser.Active == nil {
		return nil, fmt.Errorf("no command given")
	}

	if raw.FeedMaxItems < 0 {
		return nil, fmt.Errorf("feed-max-items must not be negative, got %d", raw.FeedMaxItems)
	}

	cfg := &Cfg{
		Command:           parser.Active.Name,
		ContentDir:        raw.ContentDir,
		OutDir:            raw.OutDir,
		SiteFile:          raw.SiteFile,
		DBPath:            raw.DBPath,
		FeedPath:          raw.FeedPath,
		FeedCollections:   raw.FeedCollections,
		FeedContent:       raw.FeedContent,
		FeedMaxItems:      raw.FeedMaxItems,
		Port:              serve.Port,
		WorkerCount:       serve.WorkerCount,
		SchedulerInterval: serve.SchedulerInterval,
		APIAccessKey:      serve.APIAccessKey,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	time.Local = loc
	return nil
}
