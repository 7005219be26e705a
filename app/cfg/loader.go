package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./jobpush.db" description:"Path to the SQLite database file"`

	// Application configuration
	WatchConfig  string `long:"watch-config" env:"WATCH_CONFIG" default:"./watch.yml" description:"Path to the watch configuration file (feeds and keywords)"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP status server port"`
	PollInterval int    `long:"poll-interval" env:"POLL_INTERVAL" default:"120" description:"Delay between polling cycles in seconds"`
	SendDelay    int    `long:"send-delay" env:"SEND_DELAY" default:"2" description:"Delay between notification sends in seconds"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Pushover credentials
	PushoverToken string `long:"pushover-token" env:"PUSHOVER_TOKEN" required:"true" description:"Pushover application token (required)"`
	PushoverUser  string `long:"pushover-user" env:"PUSHOVER_USER" required:"true" description:"Pushover user key (required)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"JobPush/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:        raw.DBPath,
		WatchConfig:   raw.WatchConfig,
		Port:          raw.Port,
		PollInterval:  raw.PollInterval,
		SendDelay:     raw.SendDelay,
		APIAccessKey:  raw.APIAccessKey,
		PushoverToken: raw.PushoverToken,
		PushoverUser:  raw.PushoverUser,
		UserAgent:     raw.UserAgent,
		Timezone:      raw.Timezone,
		Debug:         raw.Debug,
		Version:       GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
