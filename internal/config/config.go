package config

import (
	"time"

	"github.com/RacoonMediaServer/rms-packages/pkg/configuration"
)

// Catalog is settings for connection to the movie catalog API
type Catalog struct {
	Scheme string
	Host   string
	Path   string

	// Token is a bearer credential of the catalog API
	Token string

	// ImageHost and ImageSize are used for building poster URLs
	ImageHost string `json:"image-host"`
	ImageSize string `json:"image-size"`

	// RequestsPerSecond limits outgoing requests, 0 means default
	RequestsPerSecond float64 `json:"requests-per-second"`
	Burst             int
}

type Collections struct {
	Counters  string
	Bookmarks string
}

type Http struct {
	Host string
	Port int
}

type Log struct {
	// File enables writing log to the rotated file
	File       string
	MaxSizeMB  int `json:"max-size-mb"`
	MaxBackups int `json:"max-backups"`
}

// Configuration represents entire service configuration
type Configuration struct {
	// MongoDB connection string
	Database string

	// DatabaseName is a name of MongoDB database
	DatabaseName string `json:"database-name"`

	Collections Collections

	Catalog Catalog

	Http Http

	// DebounceMs is a quiet period of search input in milliseconds
	DebounceMs int `json:"debounce-ms"`

	Log Log
}

const (
	DefaultDatabaseName      = "moviefinder"
	DefaultCountersName      = "search-counters"
	DefaultBookmarksName     = "bookmarks"
	DefaultDebounceMs        = 800
	DefaultRequestsPerSecond = 20
	DefaultBurst             = 10
)

var config = Default()

// Default returns configuration filled with default values
func Default() Configuration {
	return Configuration{
		Database:     "mongodb://localhost:27017",
		DatabaseName: DefaultDatabaseName,
		Collections: Collections{
			Counters:  DefaultCountersName,
			Bookmarks: DefaultBookmarksName,
		},
		Catalog: Catalog{
			Scheme:            "https",
			Host:              "api.themoviedb.org",
			Path:              "/3",
			ImageHost:         "https://image.tmdb.org/t/p",
			ImageSize:         "w500",
			RequestsPerSecond: DefaultRequestsPerSecond,
			Burst:             DefaultBurst,
		},
		Http: Http{
			Port: 8080,
		},
		DebounceMs: DefaultDebounceMs,
	}
}

// Load open and parses configuration file
func Load(configFilePath string) error {
	if err := configuration.Load(configFilePath, &config); err != nil {
		return err
	}
	config.fillDefaults()
	return nil
}

// Config returns loaded configuration
func Config() Configuration {
	return config
}

// Override replaces values set from the command line or the environment
func Override(fn func(cfg *Configuration)) {
	fn(&config)
	config.fillDefaults()
}

func (c *Configuration) fillDefaults() {
	def := Default()
	if c.DatabaseName == "" {
		c.DatabaseName = def.DatabaseName
	}
	if c.Collections.Counters == "" {
		c.Collections.Counters = def.Collections.Counters
	}
	if c.Collections.Bookmarks == "" {
		c.Collections.Bookmarks = def.Collections.Bookmarks
	}
	if c.DebounceMs <= 0 {
		c.DebounceMs = def.DebounceMs
	}
	if c.Catalog.RequestsPerSecond <= 0 {
		c.Catalog.RequestsPerSecond = def.Catalog.RequestsPerSecond
	}
	if c.Catalog.Burst <= 0 {
		c.Catalog.Burst = def.Catalog.Burst
	}
}

// DebounceInterval returns quiet period of the search input
func (c Configuration) DebounceInterval() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}
