package search

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"Souq/internal/core/posts"
)

// SortOrder selects how a refined result set is ordered.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortOldest    SortOrder = "oldest"
	SortTitleAsc  SortOrder = "titleAsc"
	SortTitleDesc SortOrder = "titleDesc"
)

// Refinement narrows and orders an already-fetched result set. Applying a
// refinement is synchronous and pure: it never triggers a fetch, so category
// or sort changes cost nothing beyond an in-memory pass.
type Refinement struct {
	// Category filters to posts with exactly this category key; empty
	// means no filter.
	Category string

	// Sort defaults to SortNewest when empty.
	Sort SortOrder

	// Locale drives collation for the title sort orders.
	Locale language.Tag

	// PreferSecondary sorts on the secondary-locale title when a post has
	// one, matching what the active locale displays.
	PreferSecondary bool
}

// Apply returns a refined copy of in; the input slice is left untouched.
func (r Refinement) Apply(in []*posts.Post) []*posts.Post {
	out := make([]*posts.Post, 0, len(in))
	for _, p := range in {
		if r.Category != "" && p.Category != r.Category {
			continue
		}
		out = append(out, p)
	}

	switch r.Sort {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	case SortTitleAsc:
		cmp := r.titleComparator()
		sort.SliceStable(out, func(i, j int) bool {
			return cmp(out[i], out[j]) < 0
		})
	case SortTitleDesc:
		cmp := r.titleComparator()
		sort.SliceStable(out, func(i, j int) bool {
			return cmp(out[i], out[j]) > 0
		})
	case SortNewest, "":
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}

	return out
}

// titleComparator builds a locale-aware comparison over display titles.
func (r Refinement) titleComparator() func(a, b *posts.Post) int {
	tag := r.Locale
	if tag == (language.Tag{}) {
		tag = language.Und
	}
	col := collate.New(tag, collate.IgnoreCase)
	return func(a, b *posts.Post) int {
		return col.CompareString(
			a.DisplayTitle(r.PreferSecondary),
			b.DisplayTitle(r.PreferSecondary),
		)
	}
}
