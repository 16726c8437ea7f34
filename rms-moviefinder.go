package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/api"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/catalog"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/config"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/db"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/migration"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/service/bookmarks"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/service/trending"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/session"
	"github.com/urfave/cli/v2"
	"go-micro.dev/v4/logger"
	"go-micro.dev/v4/web"
	"gopkg.in/natefinch/lumberjack.v2"

	// Plugins
	_ "github.com/go-micro/plugins/v4/registry/etcd"
)

var Version = "v0.0.0"

const serviceName = "rms-moviefinder"

func serviceFlags(useDebug *bool) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "verbose",
			Aliases:     []string{"debug"},
			Usage:       "debug log level",
			Value:       false,
			Destination: useDebug,
		},
		&cli.StringFlag{
			Name:    "catalog-token",
			Usage:   "catalog API read access token",
			EnvVars: []string{"CATALOG_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "database",
			Usage:   "document store connection string",
			EnvVars: []string{"MOVIEFINDER_DATABASE"},
		},
	}
}

func loadConfiguration(ctx *cli.Context) {
	configFile := fmt.Sprintf("/etc/rms/%s.json", serviceName)
	if ctx.IsSet("config") {
		configFile = ctx.String("config")
	}
	if err := config.Load(configFile); err != nil {
		logger.Fatalf("Load configuration failed: %s", err)
	}
	overrideConfiguration(ctx)
}

// overrideConfiguration applies values given by flags or environment over the file ones
func overrideConfiguration(ctx *cli.Context) {
	config.Override(func(cfg *config.Configuration) {
		if ctx.IsSet("catalog-token") {
			cfg.Catalog.Token = ctx.String("catalog-token")
		}
		if ctx.IsSet("database") {
			cfg.Database = ctx.String("database")
		}
	})
}

func main() {
	logger.Infof("%s %s", serviceName, Version)
	defer logger.Info("DONE.")

	useDebug := false

	service := web.NewService(
		web.Name(serviceName),
		web.Version(Version),
		web.Flags(serviceFlags(&useDebug)...),
		web.Action(loadConfiguration),
	)

	if err := service.Init(); err != nil {
		logger.Fatalf("Init service failed: %s", err)
	}

	cfg := config.Config()

	logLevel := logger.InfoLevel
	if useDebug {
		logLevel = logger.DebugLevel
	}
	logOptions := []logger.Option{logger.WithLevel(logLevel)}
	if cfg.Log.File != "" {
		logOptions = append(logOptions, logger.WithOutput(&lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		}))
	}
	_ = logger.Init(logOptions...)

	database, err := db.Connect(cfg.Database, cfg.DatabaseName, db.Collections{
		Counters:  cfg.Collections.Counters,
		Bookmarks: cfg.Collections.Bookmarks,
	})
	if err != nil {
		logger.Fatalf("Connect to database failed: %s", err)
	}
	logger.Info("Connected to database")
	defer func() { _ = database.Disconnect() }()

	m := migration.Migrator{
		CurrentVersion:  Version,
		DatabaseVersion: db.Version,
		Database:        database,
	}
	if err = m.Run(context.Background()); err != nil {
		logger.Fatalf("Migration failed: %s", err)
	}

	images := model.Images{Host: cfg.Catalog.ImageHost, Size: cfg.Catalog.ImageSize}

	cat := catalog.New(catalog.Settings{
		Scheme:            cfg.Catalog.Scheme,
		Host:              cfg.Catalog.Host,
		Path:              cfg.Catalog.Path,
		Token:             cfg.Catalog.Token,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		Burst:             cfg.Catalog.Burst,
	})

	trendingService := trending.NewService(database, images)
	bookmarksService := bookmarks.NewService(database, images)

	sess := session.New(session.Settings{
		Catalog:          cat,
		Trending:         trendingService,
		Bookmarks:        bookmarksService,
		DebounceInterval: cfg.DebounceInterval(),
	})
	defer sess.Close()
	sess.Start()

	h := api.New(api.Settings{
		Session:   sess,
		Trending:  trendingService,
		Bookmarks: bookmarksService,
		Images:    images,
	})

	if err = service.Init(
		web.Address(net.JoinHostPort(cfg.Http.Host, strconv.Itoa(cfg.Http.Port))),
		web.Handler(h.Router()),
	); err != nil {
		logger.Fatalf("Init service failed: %s", err)
	}

	if err = service.Run(); err != nil {
		logger.Fatalf("Run service failed: %s", err)
	}
}
