package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"TickerSentry/internal/cache"
	"TickerSentry/internal/collector"
	"TickerSentry/internal/config"
	"TickerSentry/internal/model"
	"TickerSentry/internal/notifier"
	"TickerSentry/internal/recorder"
	"TickerSentry/internal/scanner"
	"TickerSentry/internal/scheduler"
	"TickerSentry/internal/scorer"
	"TickerSentry/internal/state"
	"TickerSentry/internal/trigger"
)

const cacheMaxAge = 7 * 24 * time.Hour

func main() {
	var (
		cfgPath     = flag.String("config", "configs/config.yaml", "path to config file")
		once        = flag.Bool("once", false, "run one scan and exit instead of starting the daemon")
		profileFlag = flag.String("profile", "all", "profile to scan in -once mode: portfolio, watchlist, or all")
	)
	flag.Parse()

	// .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(lvl)
	}
	log := logrus.WithField("component", "main")
	log.Info("TickerSentry starting")

	if v := os.Getenv("CONFIG_PATH"); v != "" && *cfgPath == "configs/config.yaml" {
		*cfgPath = v
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("config validation")
	}
	if err := scorer.ValidateAll(); err != nil {
		log.WithError(err).Fatal("weight table validation")
	}

	fetcher, err := buildFetcher(cfg)
	if err != nil {
		log.WithError(err).Fatal("init fetcher")
	}
	log.WithField("source", fetcher.Name()).Info("data source ready")

	store := state.NewStore(cfg.Scan.StateFile)
	archive := state.LoadArchive(cfg.Scan.Archive)

	rec := buildRecorder(cfg)
	defer rec.Close()

	var notify notifier.Notifier = notifier.LogNotifier{}
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		notify = tn
	}

	profiles, err := buildProfiles(cfg, *once, *profileFlag)
	if err != nil {
		log.WithError(err).Fatal("build profiles")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sc := scanner.New(fetcher, store, archive, rec, cfg.Scan.Workers, cfg.DataSource.LookbackDays)
	sched := scheduler.New(ctx, sc, profiles, store, archive, notify, fetcher, cfg.DataSource.LookbackDays)

	if *once {
		sched.RunAllScans()
		return
	}

	if err := sched.RegisterAll(cfg.Schedule.ScanCron, cfg.Schedule.ReminderCron); err != nil {
		log.WithError(err).Fatal("register cron jobs")
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, scanning now")
		go sched.RunAllScans()
	}

	log.Info("TickerSentry is running. Press Ctrl+C to stop.")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping")
	cancel()
	log.Info("TickerSentry stopped")
}

func buildFetcher(cfg *config.Config) (collector.Fetcher, error) {
	var inner collector.Fetcher
	switch cfg.DataSource.Provider {
	case "mock":
		inner = &collector.MockFetcher{Price: 100}
	default:
		inner = collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.RatePerSec)
	}

	c, err := cache.New(cfg.Scan.CacheDir)
	if err != nil {
		return nil, err
	}
	if removed, err := c.Prune(cacheMaxAge); err != nil {
		logrus.WithError(err).Warn("cache prune failed")
	} else if removed > 0 {
		logrus.WithField("removed", removed).Info("pruned stale cache files")
	}
	return collector.NewCachingFetcher(inner, c), nil
}

func buildRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		logrus.WithError(err).Warn("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

func buildProfiles(cfg *config.Config, once bool, only string) ([]scanner.Profile, error) {
	load := func(pc config.ProfileConfig, name string, builtin func() []model.TriggerDefinition) (scanner.Profile, error) {
		if _, err := scorer.Weights(pc.ScoreTable); err != nil {
			return scanner.Profile{}, fmt.Errorf("profile %s: %w", name, err)
		}
		defs := builtin()
		if pc.TriggersFile != "" {
			loaded, err := trigger.LoadTriggerFile(pc.TriggersFile)
			if err != nil {
				return scanner.Profile{}, err
			}
			defs = loaded
		}
		return scanner.Profile{
			Name:       name,
			Symbols:    pc.Symbols,
			ScoreTable: pc.ScoreTable,
			Triggers:   defs,
		}, nil
	}

	var profiles []scanner.Profile
	if !once || only == "all" || only == "portfolio" {
		p, err := load(cfg.Portfolio, "portfolio", trigger.PortfolioTriggers)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if !once || only == "all" || only == "watchlist" {
		p, err := load(cfg.Watchlist, "watchlist", trigger.WatchlistTriggers)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
