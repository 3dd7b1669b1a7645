package shelf

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mesh-intelligence/pocketshelf/pkg/types"
)

// DerivedView returns the items to display: sorted by prefs.Sort, then
// filtered by prefs.Filter, then by a case-insensitive search over title,
// author, and notes. Filtering never reorders. items is not modified.
//
// All sorts are stable, so ties keep collection order (newest added first
// for items created through AddItem).
func DerivedView(items []types.Item, prefs types.Preferences, search string) []types.Item {
	sorted := make([]types.Item, len(items))
	copy(sorted, items)

	switch prefs.Sort {
	case types.SortRecent:
		slices.SortStableFunc(sorted, func(a, b types.Item) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case types.SortAlpha:
		col := collate.New(language.Und)
		slices.SortStableFunc(sorted, func(a, b types.Item) int {
			return col.CompareString(a.Title, b.Title)
		})
	case types.SortFavorite:
		slices.SortStableFunc(sorted, func(a, b types.Item) int {
			return favoriteRank(a) - favoriteRank(b)
		})
	}

	term := strings.ToLower(strings.TrimSpace(search))
	filter := prefs.Filter
	if filter == "" {
		filter = types.FilterAll
	}

	out := sorted[:0]
	for _, it := range sorted {
		if !filter.Keep(it.Status) {
			continue
		}
		if !it.Matches(term) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// favoriteRank orders favorites before the rest.
func favoriteRank(it types.Item) int {
	if it.Favorite {
		return 0
	}
	return 1
}
