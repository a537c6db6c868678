package lastfm

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// publishedLayout is the format Last.fm uses for wiki.published, e.g. "10 Aug 1965, 00:00".
const publishedLayout = "2 Jan 2006, 15:04"

// ParsePublished parses a wiki.published date string.
// Anything not in Last.fm's usual layout is handed to a lenient parser.
func ParsePublished(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(publishedLayout, s); err == nil {
		return t, nil
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing published date %q: %w", s, err)
	}
	return t, nil
}
