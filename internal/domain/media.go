package domain

import "strings"

type MediaKind string

func (k MediaKind) String() string {
	return string(k)
}

const (
	MediaKindMovie MediaKind = "movie"
	MediaKindTV    MediaKind = "tv"
	MediaKindAnime MediaKind = "anime"
)

var MediaKinds = []MediaKind{
	MediaKindMovie,
	MediaKindTV,
	MediaKindAnime,
}

func ParseMediaKind(s string) (MediaKind, bool) {
	switch MediaKind(strings.ToLower(strings.TrimSpace(s))) {
	case MediaKindMovie, "movies":
		return MediaKindMovie, true
	case MediaKindTV, "series", "shows":
		return MediaKindTV, true
	case MediaKindAnime:
		return MediaKindAnime, true
	default:
		return "", false
	}
}

func (k MediaKind) GetPageTitle() string {
	switch k {
	case MediaKindMovie:
		return "Movies"
	case MediaKindTV:
		return "TV Shows"
	case MediaKindAnime:
		return "Anime"
	default:
		return "Unknown"
	}
}

// MediaItem is a single title returned by the remote search.
type MediaItem struct {
	ID          string    `json:"id"`                     // Primary catalog id, e.g. "tt0111161"
	AlternateID string    `json:"alternate_id,omitempty"` // Used when ID is empty, e.g. "tmdb:278"
	Title       string    `json:"title"`
	Kind        MediaKind `json:"kind"`
	Year        int       `json:"year,omitempty"`
	Rating      float64   `json:"rating,omitempty"`
	PosterURL   string    `json:"poster_url,omitempty"`
	BackdropURL string    `json:"backdrop_url,omitempty"`
	Overview    string    `json:"overview,omitempty"`
	Cast        []string  `json:"cast,omitempty"`
}

// IdentityKey returns the key two items are compared by. Items with equal keys
// are the same title regardless of their other fields. An empty key means the
// item cannot be identified.
func (m MediaItem) IdentityKey() string {
	if m.ID != "" {
		return m.ID
	}
	return m.AlternateID
}
