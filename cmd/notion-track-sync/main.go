// Command notion-track-sync fills in Last.fm metadata for tracks in a Notion database.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/justestif/go-notion-track-sync/internal/enrich"
	"github.com/justestif/go-notion-track-sync/internal/lastfm"
	"github.com/justestif/go-notion-track-sync/internal/notion"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Error("Sync failed")
		os.Exit(1)
	}
}

func run() error {
	// Values already in the environment win over .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	setLogLevel(os.Getenv("LOG_LEVEL"))

	// Validate configuration before any network call
	notionCfg, err := notion.LoadConfig()
	if err != nil {
		return err
	}
	lastfmCfg, err := lastfm.LoadConfig()
	if err != nil {
		return err
	}
	settings, err := enrich.LoadSettings()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logrus.WithField("run", uuid.NewString())
	lookup := lastfm.NewClient(lastfmCfg)

	svc := enrich.New(
		notion.NewClient(notionCfg),
		lookup,
		enrich.WithSchema(settings.Schema),
		enrich.WithConcurrency(settings.Concurrency),
		enrich.WithLogger(log),
	)

	log.WithField("concurrency", settings.Concurrency).Info("Starting sync")

	res, err := svc.Run(ctx)
	if err != nil {
		if body := lookup.LastResponse(); body != "" {
			log.WithField("body", body).Error("Last Last.fm response")
		}
		return err
	}

	log.WithFields(logrus.Fields{
		"loaded":   res.Loaded,
		"pending":  res.Pending,
		"enriched": res.Enriched,
		"duration": res.Duration.Round(time.Millisecond),
	}).Info("Sync complete")
	return nil
}

// setLogLevel configures logrus from LOG_LEVEL, defaulting to info.
func setLogLevel(level string) {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
