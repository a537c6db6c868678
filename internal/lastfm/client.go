package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "http://ws.audioscrobbler.com/2.0/"
	userAgent      = "notion-track-sync/1.0"
)

const (
	methodTrackSearch  = "track.search"
	methodTrackGetInfo = "track.getInfo"
)

// Last.fm API error codes.
const (
	errCodeInvalidParams = 6
	errCodeInvalidAPIKey = 10
	errCodeRateLimited   = 29
)

// Sentinel errors.
var (
	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidAPIKey is returned when the API key is invalid.
	ErrInvalidAPIKey = errors.New("invalid API key")

	// ErrTrackNotFound is returned when track.getInfo does not know the track.
	ErrTrackNotFound = errors.New("track not found")

	// ErrNoMatch is returned when a search yields no results.
	ErrNoMatch = errors.New("no search match")

	// ErrMalformedResponse is returned when a response lacks required data.
	ErrMalformedResponse = errors.New("malformed response")
)

// Client is a Last.fm API client.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	log        *logrus.Entry

	lastMu   sync.Mutex
	lastBody []byte
}

// NewClient creates a new Last.fm API client from the provided configuration.
func NewClient(cfg *Config) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	return &Client{
		apiKey: cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: endpoint,
		log:     logrus.WithField("component", "lastfm"),
	}
}

// SearchTrack runs a fuzzy track search and returns the first match.
// Returns ErrNoMatch if the search has no results.
func (c *Client) SearchTrack(ctx context.Context, query string) (Match, error) {
	params := url.Values{
		"method":  {methodTrackSearch},
		"track":   {query},
		"limit":   {"1"},
		"format":  {"json"},
		"api_key": {c.apiKey},
	}

	body, err := c.doRequest(ctx, params)
	if err != nil {
		return Match{}, fmt.Errorf("searching track: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Match{}, fmt.Errorf("parsing search response: %w", err)
	}

	matches := resp.Results.TrackMatches.Track
	if len(matches) == 0 {
		return Match{}, fmt.Errorf("searching %q: %w", query, ErrNoMatch)
	}
	return matches[0], nil
}

// GetTrackInfo fetches metadata for the canonical track and artist pair.
func (c *Client) GetTrackInfo(ctx context.Context, track, artist string) (*TrackInfo, error) {
	params := url.Values{
		"method":  {methodTrackGetInfo},
		"track":   {track},
		"artist":  {artist},
		"format":  {"json"},
		"api_key": {c.apiKey},
	}

	body, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetching track info: %w", err)
	}

	var resp trackInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing track info response: %w", err)
	}
	if resp.Track == nil {
		return nil, fmt.Errorf("track info for %q by %q has no track: %w", track, artist, ErrMalformedResponse)
	}

	raw := resp.Track
	info := &TrackInfo{
		Title:  raw.Name,
		Artist: raw.Artist.Name,
	}
	if raw.Album != nil {
		info.AlbumTitle = raw.Album.Title
		info.AlbumCoverURL = coverURL(raw.Album.Image)
	}
	if raw.Wiki != nil {
		info.ReleaseDate = raw.Wiki.Published
	}
	return info, nil
}

// LastResponse returns the most recent raw response body, for diagnostics.
func (c *Client) LastResponse() string {
	c.lastMu.Lock()
	defer c.lastMu.Unlock()
	return string(c.lastBody)
}

// coverURL picks the extralarge variant, falling back to the largest
// non-empty one when the list is shorter than expected.
func coverURL(images []image) string {
	if AlbumCoverIndex < len(images) && images[AlbumCoverIndex].URL != "" {
		return images[AlbumCoverIndex].URL
	}
	for i := len(images) - 1; i >= 0; i-- {
		if images[i].URL != "" {
			return images[i].URL
		}
	}
	return ""
}

// doRequest performs a single HTTP GET request and maps API errors.
func (c *Client) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	c.lastMu.Lock()
	c.lastBody = body
	c.lastMu.Unlock()

	if c.log != nil {
		c.log.WithFields(logrus.Fields{
			"method": params.Get("method"),
			"status": resp.StatusCode,
		}).Debugf("response: %s", body)
	}

	// Check for API error in response
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != 0 {
		switch apiErr.Error {
		case errCodeRateLimited:
			return nil, ErrRateLimited
		case errCodeInvalidAPIKey:
			return nil, ErrInvalidAPIKey
		case errCodeInvalidParams:
			return nil, fmt.Errorf("%s: %w", apiErr.Message, ErrTrackNotFound)
		default:
			return nil, fmt.Errorf("API error %d: %s", apiErr.Error, apiErr.Message)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return body, nil
}
