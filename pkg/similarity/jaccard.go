// Package similarity provides set-similarity helpers for the
// collaborative scorer.
package similarity

// Jaccard calculates the Jaccard similarity between two product-ID
// sets: |intersection| / |union|. Returns a value between 0 (no
// overlap) and 1 (identical). A user with no purchase history has no
// basis for similarity, so an empty set on either side yields 0.
func Jaccard(set1, set2 map[int64]bool) float64 {
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for id := range set1 {
		if set2[id] {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

// ToSet converts a slice of product IDs into a set, deduplicating as
// it goes.
func ToSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
