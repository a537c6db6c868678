// Package enrich fills in track metadata for rows of the Notion tracks
// database using Last.fm.
//
// A run loads every row, selects the ones with a title and artist search
// value that are not yet done, resolves each through a Last.fm search and
// track lookup, and writes the result back. The first error aborts the run;
// rows written before it stay written.
package enrich

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/justestif/go-notion-track-sync/internal/lastfm"
	"github.com/justestif/go-notion-track-sync/internal/notion"
)

// DefaultConcurrency processes records one at a time.
const DefaultConcurrency = 1

// Store is the database the pipeline reads from and writes to.
type Store interface {
	RecordSource
	UpdateFields(ctx context.Context, id string, fields map[string]notion.Field) error
	AppendImage(ctx context.Context, id, url string) error
}

// TrackLookup abstracts the Last.fm client for testing.
type TrackLookup interface {
	SearchTrack(ctx context.Context, query string) (lastfm.Match, error)
	GetTrackInfo(ctx context.Context, track, artist string) (*lastfm.TrackInfo, error)
}

// Service runs the enrichment pipeline.
type Service struct {
	store       Store
	lookup      TrackLookup
	schema      Schema
	concurrency int
	now         func() time.Time
	log         *logrus.Entry
}

// Option configures a Service.
type Option func(*Service)

// WithSchema sets the property names to read and write.
func WithSchema(schema Schema) Option {
	return func(s *Service) {
		s.schema = schema
	}
}

// WithConcurrency sets how many records are enriched at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithClock overrides the time source used for written dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a new enrichment service.
func New(store Store, lookup TrackLookup, opts ...Option) *Service {
	s := &Service{
		store:       store,
		lookup:      lookup,
		schema:      DefaultSchema(),
		concurrency: DefaultConcurrency,
		now:         time.Now,
		log:         logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result contains the outcome of a run.
type Result struct {
	Loaded   int
	Pending  int
	Enriched int
	Duration time.Duration
}

// Run loads, filters, enriches and writes back every pending record.
// The returned Result is non-nil even when err is not.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{}
	defer func() { res.Duration = time.Since(start) }()

	completion := NewCompletion()

	records, err := s.load(ctx, completion)
	if err != nil {
		return res, err
	}
	res.Loaded = len(records)

	pending, err := SelectPending(records, s.schema, completion)
	if err != nil {
		return res, fmt.Errorf("selecting records: %w", err)
	}
	res.Pending = len(pending)

	s.log.WithFields(logrus.Fields{
		"loaded":  res.Loaded,
		"pending": res.Pending,
	}).Info("Loaded records")

	var enriched atomic.Int64
	err = s.processAll(ctx, pending, completion, &enriched)
	res.Enriched = int(enriched.Load())
	return res, err
}

// load reads all records and seeds completion with their done flags.
func (s *Service) load(ctx context.Context, completion *Completion) ([]notion.Record, error) {
	records, err := LoadRecords(ctx, s.store)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		done, err := rec.Checkbox(s.schema.Done)
		if err != nil {
			return nil, fmt.Errorf("reading completion flag: %w", err)
		}
		completion.Set(rec.ID, done)
	}
	return records, nil
}

// processAll enriches records with at most s.concurrency in flight.
// With concurrency 1 records are handled strictly in order. The first
// error cancels the remaining work and is returned.
func (s *Service) processAll(ctx context.Context, records []notion.Record, completion *Completion, enriched *atomic.Int64) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, rec := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := s.processRecord(gctx, rec, completion); err != nil {
				return err
			}
			enriched.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// processRecord resolves and writes back a single record.
func (s *Service) processRecord(ctx context.Context, rec notion.Record, completion *Completion) error {
	title, _, err := rec.Text(s.schema.Title)
	if err != nil {
		return err
	}
	artist, _, err := rec.Text(s.schema.ArtistSearch)
	if err != nil {
		return err
	}

	info, err := s.fetchTrackInfo(ctx, title, artist)
	if err != nil {
		return fmt.Errorf("record %s (%q): %w", rec.ID, title, err)
	}

	if err := s.writeTrack(ctx, rec, info, completion); err != nil {
		return fmt.Errorf("record %s (%q): %w", rec.ID, title, err)
	}

	s.log.WithFields(logrus.Fields{
		"id":     rec.ID,
		"title":  info.Title,
		"artist": info.Artist,
		"album":  info.AlbumTitle,
	}).Info("Enriched track")
	return nil
}

// fetchTrackInfo resolves the canonical pair by search, then looks it up.
func (s *Service) fetchTrackInfo(ctx context.Context, title, artist string) (*lastfm.TrackInfo, error) {
	match, err := s.lookup.SearchTrack(ctx, title+" "+artist)
	if err != nil {
		return nil, err
	}

	info, err := s.lookup.GetTrackInfo(ctx, match.Name, match.Artist)
	if err != nil {
		return nil, err
	}
	return info, nil
}
