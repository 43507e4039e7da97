package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"mediabrowse/discovery/internal/domain"

	log "github.com/sirupsen/logrus"
)

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	IMDbID   string       `json:"imdb_id"`
	TMDbID   flexString   `json:"tmdb_id"`
	Title    string       `json:"title"`
	Name     string       `json:"name"` // TV entries carry name instead of title
	Type     string       `json:"type"`
	Year     flexString   `json:"year"`
	Rating   flexString   `json:"rating"`
	Poster   string       `json:"poster"`
	Backdrop string       `json:"backdrop"`
	Overview string       `json:"overview"`
	Cast     flexNameList `json:"cast"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

// flexNameList accepts a list of names or one comma separated string.
type flexNameList []string

func (f *flexNameList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = nil
		return nil
	}
	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	*f = names
	return nil
}

type searchParser struct {
	imageBaseURL string
}

func newSearchParser(imageBaseURL string) *searchParser {
	return &searchParser{
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
	}
}

func (p *searchParser) ParseSearchResults(body []byte) ([]domain.MediaItem, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	items := make([]domain.MediaItem, 0, len(resp.Results))
	for _, result := range resp.Results {
		item, ok := p.toMediaItem(result)
		if !ok {
			log.Debugf("Skipping search result without identity: %q", result.Title)
			continue
		}
		items = append(items, item)
	}

	log.Debugf("Parsed %d of %d search results", len(items), len(resp.Results))
	return items, nil
}

func (p *searchParser) toMediaItem(r searchResult) (domain.MediaItem, bool) {
	item := domain.MediaItem{
		ID:          strings.TrimSpace(r.IMDbID),
		Title:       strings.TrimSpace(r.Title),
		Overview:    strings.TrimSpace(r.Overview),
		PosterURL:   p.absoluteImageURL(r.Poster),
		BackdropURL: p.absoluteImageURL(r.Backdrop),
		Cast:        r.Cast,
	}
	if r.TMDbID != "" && r.TMDbID != "0" {
		item.AlternateID = "tmdb:" + string(r.TMDbID)
	}
	if item.IdentityKey() == "" {
		return domain.MediaItem{}, false
	}

	if item.Title == "" {
		item.Title = strings.TrimSpace(r.Name)
	}
	if kind, ok := domain.ParseMediaKind(r.Type); ok {
		item.Kind = kind
	}

	// Years may come as full dates ("2024-03-01").
	if year := string(r.Year); len(year) >= 4 {
		if y, err := strconv.Atoi(year[:4]); err == nil {
			item.Year = y
		}
	}
	if rating, err := strconv.ParseFloat(string(r.Rating), 64); err == nil {
		item.Rating = rating
	}

	return item, true
}

func (p *searchParser) absoluteImageURL(path string) string {
	path = strings.TrimSpace(path)
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	case strings.HasPrefix(path, "//"):
		return "https:" + path
	case p.imageBaseURL == "":
		return path
	case strings.HasPrefix(path, "/"):
		return p.imageBaseURL + path
	default:
		return p.imageBaseURL + "/" + path
	}
}
