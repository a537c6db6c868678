package enrich

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/justestif/go-notion-track-sync/internal/lastfm"
	"github.com/justestif/go-notion-track-sync/internal/notion"
)

// fakeStore implements Store for testing. pages[i] is served for cursor
// "" (i == 0) or "page-i".
type fakeStore struct {
	mu sync.Mutex

	pages    [][]notion.Record
	queryErr error

	updateErr map[string]error
	appendErr map[string]error

	cursors []string
	updates map[string]map[string]notion.Field
	images  map[string][]string
	calls   []string
}

func newFakeStore(pages ...[]notion.Record) *fakeStore {
	return &fakeStore{
		pages:     pages,
		updateErr: make(map[string]error),
		appendErr: make(map[string]error),
		updates:   make(map[string]map[string]notion.Field),
		images:    make(map[string][]string),
	}
}

func (f *fakeStore) QueryRecords(_ context.Context, cursor string) ([]notion.Record, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cursors = append(f.cursors, cursor)
	if f.queryErr != nil {
		return nil, "", f.queryErr
	}
	if len(f.pages) == 0 {
		return nil, "", nil
	}

	idx := 0
	if cursor != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(cursor, "page-"))
		if err != nil || n >= len(f.pages) {
			return nil, "", fmt.Errorf("bad cursor %q", cursor)
		}
		idx = n
	}

	next := ""
	if idx+1 < len(f.pages) {
		next = fmt.Sprintf("page-%d", idx+1)
	}
	return f.pages[idx], next, nil
}

func (f *fakeStore) UpdateFields(_ context.Context, id string, fields map[string]notion.Field) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "update:"+id)
	if err := f.updateErr[id]; err != nil {
		return err
	}
	f.updates[id] = fields
	return nil
}

func (f *fakeStore) AppendImage(_ context.Context, id, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "append:"+id)
	if err := f.appendErr[id]; err != nil {
		return err
	}
	f.images[id] = append(f.images[id], url)
	return nil
}

// fakeLookup implements TrackLookup for testing.
type fakeLookup struct {
	mu sync.Mutex

	// matches maps search query to match
	matches map[string]lastfm.Match
	// infos maps "track|artist" to track info
	infos map[string]*lastfm.TrackInfo
	// searchErr maps search query to error
	searchErr map[string]error

	searches []string
	lookups  []string
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		matches:   make(map[string]lastfm.Match),
		infos:     make(map[string]*lastfm.TrackInfo),
		searchErr: make(map[string]error),
	}
}

func (f *fakeLookup) add(query string, info *lastfm.TrackInfo) {
	f.matches[query] = lastfm.Match{Name: info.Title, Artist: info.Artist}
	f.infos[info.Title+"|"+info.Artist] = info
}

func (f *fakeLookup) SearchTrack(_ context.Context, query string) (lastfm.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.searches = append(f.searches, query)
	if err, ok := f.searchErr[query]; ok {
		return lastfm.Match{}, err
	}
	m, ok := f.matches[query]
	if !ok {
		return lastfm.Match{}, fmt.Errorf("searching %q: %w", query, lastfm.ErrNoMatch)
	}
	return m, nil
}

func (f *fakeLookup) GetTrackInfo(_ context.Context, track, artist string) (*lastfm.TrackInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := track + "|" + artist
	f.lookups = append(f.lookups, key)
	info, ok := f.infos[key]
	if !ok {
		return nil, lastfm.ErrTrackNotFound
	}
	copied := *info
	return &copied, nil
}

func textRuns(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// trackRecord builds a record using DefaultSchema property names.
func trackRecord(id, title, artistSearch string, done bool) notion.Record {
	s := DefaultSchema()
	return notion.Record{
		ID: id,
		Fields: map[string]notion.Field{
			s.Title:        {Kind: notion.KindTitle, Runs: textRuns(title)},
			s.ArtistSearch: {Kind: notion.KindRichText, Runs: textRuns(artistSearch)},
			s.Artist:       {Kind: notion.KindMultiSelect},
			s.Album:        {Kind: notion.KindRichText},
			s.Release:      {Kind: notion.KindDate},
			s.ProcessedOn:  {Kind: notion.KindDate},
			s.Done:         notion.CheckboxField(done),
		},
	}
}
