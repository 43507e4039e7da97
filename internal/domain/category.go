package domain

// Category is an immutable entry of a page's category selector.
type Category struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	QueryPhrase string `json:"query_phrase"` // Base phrase the year token is appended to
}

// CategoryTable is the static, ordered category list of one page kind.
type CategoryTable struct {
	Kind       MediaKind  `json:"kind"`
	DefaultID  string     `json:"default_id"`
	Categories []Category `json:"categories"`
}

func (t CategoryTable) Find(id string) (Category, bool) {
	for _, c := range t.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Default returns the category selected at mount time. It falls back to the
// first entry when DefaultID is not in the table.
func (t CategoryTable) Default() Category {
	if c, ok := t.Find(t.DefaultID); ok {
		return c
	}
	if len(t.Categories) > 0 {
		return t.Categories[0]
	}
	return Category{}
}
