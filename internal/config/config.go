package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Default SNAP locations of the three input tables.
const (
	DefaultSICURL      = "https://www.snap.uaf.edu/webshared/Michael/data/seaice_noaa_indicators/sic_daily_vals.csv"
	DefaultFUBUMarkURL = "https://www.snap.uaf.edu/webshared/Michael/data/seaice_noaa_indicators/barrow_fubu_dates_mark_nosmooth_mledit.csv"
	DefaultFUBUMikeURL = "https://www.snap.uaf.edu/webshared/Michael/data/seaice_noaa_indicators/barrow_fubu_dates_michael_nosmooth.csv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Input tables. When DataDir is set the tables are read from it and the
	// URLs are ignored.
	SICURL       string
	FUBUMarkURL  string
	FUBUMikeURL  string
	DataDir      string
	FetchTimeout time.Duration

	MaxYear      int
	DefaultYear  int
	MarkSegments bool
	MikeSegments bool

	// Figure export.
	KafkaBrokers     []string
	KafkaFigureTopic string
	BatchSize        int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	maxYear, err := parseYear("MAX_YEAR", "2012")
	if err != nil {
		return nil, err
	}
	defaultYear, err := parseYear("DEFAULT_YEAR", "2007")
	if err != nil {
		return nil, err
	}

	markSegments, err := parseBool("MARK_SEGMENTS", "true")
	if err != nil {
		return nil, err
	}
	mikeSegments, err := parseBool("MIKE_SEGMENTS", "false")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SICURL:       sharedcfg.EnvOrDefault("SIC_URL", DefaultSICURL),
		FUBUMarkURL:  sharedcfg.EnvOrDefault("FUBU_MARK_URL", DefaultFUBUMarkURL),
		FUBUMikeURL:  sharedcfg.EnvOrDefault("FUBU_MIKE_URL", DefaultFUBUMikeURL),
		DataDir:      sharedcfg.EnvOrDefault("DATA_DIR", ""),
		FetchTimeout: fetchTimeout,

		MaxYear:      maxYear,
		DefaultYear:  defaultYear,
		MarkSegments: markSegments,
		MikeSegments: mikeSegments,

		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaFigureTopic: sharedcfg.EnvOrDefault("KAFKA_FIGURE_TOPIC", "seaice-fubu-figures"),
		BatchSize:        batchSize,
	}

	if cfg.DataDir == "" && (cfg.SICURL == "" || cfg.FUBUMarkURL == "" || cfg.FUBUMikeURL == "") {
		return nil, errors.New("SIC_URL, FUBU_MARK_URL and FUBU_MIKE_URL are required when DATA_DIR is unset")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaFigureTopic == "" {
		return nil, errors.New("KAFKA_FIGURE_TOPIC is required")
	}
	if cfg.MaxYear != 0 && cfg.DefaultYear > cfg.MaxYear {
		return nil, fmt.Errorf("DEFAULT_YEAR %d is after MAX_YEAR %d", cfg.DefaultYear, cfg.MaxYear)
	}

	return cfg, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parseYear accepts 0 (no clamp) or a four-digit year.
func parseYear(key, def string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil || n < 0 || n > 9999 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseBool(key, def string) (bool, error) {
	b, err := strconv.ParseBool(sharedcfg.EnvOrDefault(key, def))
	if err != nil {
		return false, fmt.Errorf("invalid %s", key)
	}
	return b, nil
}
