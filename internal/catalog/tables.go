package catalog

import (
	"mediabrowse/discovery/internal/domain"
)

const DefaultCategoryID = "popular"

var Movies = domain.CategoryTable{
	Kind:      domain.MediaKindMovie,
	DefaultID: DefaultCategoryID,
	Categories: []domain.Category{
		{ID: "popular", Label: "Most popular", QueryPhrase: "movie"},
		{ID: "rating", Label: "Most rating", QueryPhrase: "top rated movie"},
		{ID: "recent", Label: "Most recent", QueryPhrase: "movie"},
		{ID: "action", Label: "Action", QueryPhrase: "action movie"},
		{ID: "adventure", Label: "Adventure", QueryPhrase: "adventure movie"},
		{ID: "animation", Label: "Animation", QueryPhrase: "animation movie"},
		{ID: "comedy", Label: "Comedy", QueryPhrase: "comedy movie"},
		{ID: "crime", Label: "Crime", QueryPhrase: "crime movie"},
		{ID: "documentary", Label: "Documentary", QueryPhrase: "documentary"},
		{ID: "drama", Label: "Drama", QueryPhrase: "drama movie"},
		{ID: "family", Label: "Family", QueryPhrase: "family movie"},
		{ID: "fantasy", Label: "Fantasy", QueryPhrase: "fantasy movie"},
		{ID: "history", Label: "History", QueryPhrase: "history movie"},
		{ID: "horror", Label: "Horror", QueryPhrase: "horror movie"},
		{ID: "music", Label: "Music", QueryPhrase: "music movie"},
		{ID: "mystery", Label: "Mystery", QueryPhrase: "mystery movie"},
	},
}

var TV = domain.CategoryTable{
	Kind:      domain.MediaKindTV,
	DefaultID: DefaultCategoryID,
	Categories: []domain.Category{
		{ID: "popular", Label: "Popular Series", QueryPhrase: "series"},
		{ID: "action", Label: "Action", QueryPhrase: "action series"},
		{ID: "comedy", Label: "Comedy", QueryPhrase: "comedy series"},
		{ID: "crime", Label: "Crime", QueryPhrase: "crime series"},
		{ID: "drama", Label: "Drama", QueryPhrase: "drama series"},
		{ID: "family", Label: "Family", QueryPhrase: "family series"},
		{ID: "fantasy", Label: "Fantasy", QueryPhrase: "fantasy series"},
		{ID: "horror", Label: "Horror", QueryPhrase: "horror series"},
		{ID: "mystery", Label: "Mystery", QueryPhrase: "mystery series"},
		{ID: "sci-fi", Label: "Sci-Fi", QueryPhrase: "sci-fi series"},
		{ID: "thriller", Label: "Thriller", QueryPhrase: "thriller series"},
		{ID: "documentary", Label: "Documentary", QueryPhrase: "documentary series"},
	},
}

var Anime = domain.CategoryTable{
	Kind:      domain.MediaKindAnime,
	DefaultID: DefaultCategoryID,
	Categories: []domain.Category{
		{ID: "popular", Label: "Popular Anime", QueryPhrase: "anime"},
		{ID: "shonen", Label: "Shonen", QueryPhrase: "shonen anime"},
		{ID: "seinen", Label: "Seinen", QueryPhrase: "seinen anime"},
		{ID: "isekai", Label: "Isekai", QueryPhrase: "isekai anime"},
		{ID: "action", Label: "Action", QueryPhrase: "action anime"},
		{ID: "romance", Label: "Romance", QueryPhrase: "romance anime"},
		{ID: "fantasy", Label: "Fantasy", QueryPhrase: "fantasy anime"},
		{ID: "slice_of_life", Label: "Slice of Life", QueryPhrase: "slice of life anime"},
		{ID: "drama", Label: "Drama", QueryPhrase: "drama anime"},
		{ID: "sci-fi", Label: "Sci-Fi", QueryPhrase: "sci-fi anime"},
		{ID: "horror", Label: "Horror", QueryPhrase: "horror anime"},
		{ID: "movie", Label: "Movies", QueryPhrase: "anime movie"},
	},
}

// Table returns the category table of a page kind.
func Table(kind domain.MediaKind) (domain.CategoryTable, bool) {
	switch kind {
	case domain.MediaKindMovie:
		return Movies, true
	case domain.MediaKindTV:
		return TV, true
	case domain.MediaKindAnime:
		return Anime, true
	default:
		return domain.CategoryTable{}, false
	}
}
