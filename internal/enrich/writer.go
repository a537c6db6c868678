package enrich

import (
	"context"
	"fmt"

	"github.com/justestif/go-notion-track-sync/internal/lastfm"
	"github.com/justestif/go-notion-track-sync/internal/notion"
)

// NoAlbum is written to the album property when Last.fm reports no album.
const NoAlbum = "No Album Searched"

// trackFields builds the property update for a resolved track.
func (s *Service) trackFields(info *lastfm.TrackInfo) (map[string]notion.Field, error) {
	now := s.now()

	release := now
	if info.ReleaseDate != "" {
		t, err := lastfm.ParsePublished(info.ReleaseDate)
		if err != nil {
			return nil, err
		}
		release = t
	}

	album := info.AlbumTitle
	if album == "" {
		album = NoAlbum
	}

	return map[string]notion.Field{
		s.schema.Title:       notion.TitleField(info.Title),
		s.schema.Artist:      notion.MultiSelectField(info.Artist),
		s.schema.Album:       notion.RichTextField(album),
		s.schema.Release:     notion.DateField(release),
		s.schema.ProcessedOn: notion.DateField(now),
		s.schema.Done:        notion.CheckboxField(true),
	}, nil
}

// writeTrack writes info back to rec and appends the album cover, if any.
// rec is marked done in completion only after every write succeeded.
func (s *Service) writeTrack(ctx context.Context, rec notion.Record, info *lastfm.TrackInfo, completion *Completion) error {
	fields, err := s.trackFields(info)
	if err != nil {
		return fmt.Errorf("building update: %w", err)
	}

	if err := s.store.UpdateFields(ctx, rec.ID, fields); err != nil {
		return err
	}

	if info.AlbumCoverURL != "" {
		if err := s.store.AppendImage(ctx, rec.ID, info.AlbumCoverURL); err != nil {
			return err
		}
	}

	completion.Set(rec.ID, true)
	return nil
}
