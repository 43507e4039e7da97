package catalog

import (
	"testing"

	"mediabrowse/discovery/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTables_DefaultIsPopular(t *testing.T) {
	for _, kind := range domain.MediaKinds {
		table, ok := Table(kind)
		require.True(t, ok, kind)
		assert.Equal(t, kind, table.Kind)
		assert.Equal(t, DefaultCategoryID, table.Default().ID)
	}

	_, ok := Table("podcast")
	assert.False(t, ok)
}

func TestTables_UniqueIDs(t *testing.T) {
	for _, table := range []domain.CategoryTable{Movies, TV, Anime} {
		seen := map[string]bool{}
		for _, c := range table.Categories {
			assert.False(t, seen[c.ID], "duplicate %s in %s", c.ID, table.Kind)
			seen[c.ID] = true
			assert.NotEmpty(t, c.Label)
			assert.NotEmpty(t, c.QueryPhrase)
		}
	}
}

func TestHomeRails(t *testing.T) {
	items := []domain.MediaItem{
		{ID: "m1", Kind: domain.MediaKindMovie, Rating: 6.1},
		{ID: "s1", Kind: domain.MediaKindTV},
		{ID: "m2", Kind: domain.MediaKindMovie, Rating: 8.4},
	}

	rails := HomeRails(items)
	require.Len(t, rails, 4) // no anime rail

	assert.Equal(t, "Top 10", rails[0].Title)
	assert.Len(t, rails[0].Items, 3)
	assert.Equal(t, "Series on Netflix", rails[2].Title)
	assert.Equal(t, "s1", rails[2].Items[0].ID)

	// Top Rated keeps arrival order, like the other rails.
	assert.Equal(t, "Top Rated", rails[3].Title)
	assert.Equal(t, "m1", rails[3].Items[0].ID)
	assert.Equal(t, "m2", rails[3].Items[1].ID)

	anime := HomeRails([]domain.MediaItem{{ID: "a1", Kind: domain.MediaKindAnime}})
	require.Len(t, anime, 3)
	assert.Equal(t, "Genres", anime[2].Title)

	assert.Empty(t, HomeRails(nil))
}
