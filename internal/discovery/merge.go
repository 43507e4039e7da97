package discovery

import (
	"mediabrowse/discovery/internal/domain"
)

// Merge returns existing followed by every incoming item whose identity key
// is not already in the result. The first occurrence of a key wins, including
// duplicates inside incoming. Items without an identity key are dropped since
// they cannot be told apart. Neither input is modified.
func Merge(existing, incoming []domain.MediaItem) []domain.MediaItem {
	merged := make([]domain.MediaItem, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, item := range existing {
		seen[item.IdentityKey()] = struct{}{}
	}

	for _, item := range incoming {
		key := item.IdentityKey()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, item)
	}

	return merged
}
