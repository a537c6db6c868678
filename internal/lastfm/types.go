package lastfm

// AlbumCoverIndex is the position of the "extralarge" variant in an album's
// image list. Last.fm does not document the list length, so callers must
// bounds-check it.
const AlbumCoverIndex = 3

// Match is a fuzzy search hit: the canonical track and artist names.
type Match struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

// TrackInfo is the metadata resolved for a track.
// Empty AlbumTitle, AlbumCoverURL or ReleaseDate means Last.fm did not report it.
type TrackInfo struct {
	Title         string
	Artist        string
	AlbumTitle    string
	AlbumCoverURL string
	ReleaseDate   string // wiki.published, loosely formatted
}

// searchResponse is the JSON response for track.search.
type searchResponse struct {
	Results struct {
		TrackMatches struct {
			Track []Match `json:"track"`
		} `json:"trackmatches"`
	} `json:"results"`
}

// trackInfoResponse is the JSON response for track.getInfo.
type trackInfoResponse struct {
	Track *struct {
		Name   string `json:"name"`
		Artist struct {
			Name string `json:"name"`
		} `json:"artist"`
		Album *struct {
			Title string  `json:"title"`
			Image []image `json:"image"`
		} `json:"album"` // absent for tracks without album data
		Wiki *struct {
			Published string `json:"published"`
		} `json:"wiki"` // absent for tracks without a wiki entry
	} `json:"track"`
}

// image is one size variant of an album cover.
type image struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

// apiError represents a Last.fm API error response.
type apiError struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}
