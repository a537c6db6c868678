package enrich

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Schema names the database properties the pipeline reads and writes.
type Schema struct {
	Title        string `envconfig:"SYNC_FIELD_TITLE" default:"제목"`
	ArtistSearch string `envconfig:"SYNC_FIELD_ARTIST_SEARCH" default:"Artist (검색용)"`
	Artist       string `envconfig:"SYNC_FIELD_ARTIST" default:"Artist"`
	Album        string `envconfig:"SYNC_FIELD_ALBUM" default:"Album"`
	Release      string `envconfig:"SYNC_FIELD_RELEASE" default:"Release"`
	ProcessedOn  string `envconfig:"SYNC_FIELD_PROCESSED_ON" default:"날짜"`
	Done         string `envconfig:"SYNC_FIELD_DONE" default:"완료!"`
}

// DefaultSchema returns the property names used by the tracks database template.
func DefaultSchema() Schema {
	return Schema{
		Title:        "제목",
		ArtistSearch: "Artist (검색용)",
		Artist:       "Artist",
		Album:        "Album",
		Release:      "Release",
		ProcessedOn:  "날짜",
		Done:         "완료!",
	}
}

// Settings holds pipeline configuration read from the environment.
type Settings struct {
	Schema
	Concurrency int `envconfig:"SYNC_CONCURRENCY" default:"1"`
}

// LoadSettings reads pipeline settings from SYNC_* environment variables.
// Unset property names fall back to DefaultSchema.
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("reading sync settings: %w", err)
	}

	def := DefaultSchema()
	for _, f := range []struct {
		value    *string
		fallback string
	}{
		{&s.Title, def.Title},
		{&s.ArtistSearch, def.ArtistSearch},
		{&s.Artist, def.Artist},
		{&s.Album, def.Album},
		{&s.Release, def.Release},
		{&s.ProcessedOn, def.ProcessedOn},
		{&s.Done, def.Done},
	} {
		if *f.value == "" {
			*f.value = f.fallback
		}
	}

	if s.Concurrency < 1 {
		s.Concurrency = 1
	}
	return &s, nil
}
