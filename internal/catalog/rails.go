package catalog

import (
	"slices"

	"mediabrowse/discovery/internal/domain"
)

const topCount = 10

// Rail is one horizontally scrolling row of the home page.
type Rail struct {
	Title string             `json:"title"`
	Items []domain.MediaItem `json:"items"`
}

// HomeRails groups a flat item list into the home page rows. Rails with no
// items are left out.
func HomeRails(items []domain.MediaItem) []Rail {
	var movies, series, anime []domain.MediaItem
	for _, item := range items {
		switch item.Kind {
		case domain.MediaKindMovie:
			movies = append(movies, item)
		case domain.MediaKindTV:
			series = append(series, item)
		case domain.MediaKindAnime:
			anime = append(anime, item)
		}
	}

	rails := []Rail{
		{Title: "Top 10", Items: items[:min(topCount, len(items))]},
		{Title: "Trending Today", Items: items},
		{Title: "Series on Netflix", Items: series},
		{Title: "Top Rated", Items: movies},
		{Title: "Genres", Items: anime},
	}

	return slices.DeleteFunc(rails, func(r Rail) bool {
		return len(r.Items) == 0
	})
}
