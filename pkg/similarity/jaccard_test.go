package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaccard_KnownOverlap(t *testing.T) {
	// {1,2,3} vs {2,3,4}: intersection 2, union 4
	a := ToSet([]int64{1, 2, 3})
	b := ToSet([]int64{2, 3, 4})

	assert.InDelta(t, 0.5, Jaccard(a, b), 1e-9)
}

func TestJaccard_Symmetric(t *testing.T) {
	cases := []struct {
		name string
		a, b []int64
	}{
		{"partial overlap", []int64{1, 2, 3}, []int64{2, 3, 4}},
		{"disjoint", []int64{1, 2}, []int64{3, 4}},
		{"identical", []int64{5, 6, 7}, []int64{5, 6, 7}},
		{"subset", []int64{1}, []int64{1, 2, 3, 4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sa, sb := ToSet(tc.a), ToSet(tc.b)
			ab := Jaccard(sa, sb)
			ba := Jaccard(sb, sa)
			assert.Equal(t, ab, ba, "similarity must be symmetric")
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.LessOrEqual(t, ab, 1.0)
		})
	}
}

func TestJaccard_EmptyHistory(t *testing.T) {
	// No purchase history on either side means no similarity, not 1.0.
	empty := ToSet(nil)
	full := ToSet([]int64{1, 2, 3})

	assert.Equal(t, 0.0, Jaccard(empty, full))
	assert.Equal(t, 0.0, Jaccard(full, empty))
	assert.Equal(t, 0.0, Jaccard(empty, empty))
}

func TestJaccard_Identical(t *testing.T) {
	a := ToSet([]int64{1, 2, 3})
	assert.Equal(t, 1.0, Jaccard(a, a))
}

func TestToSet_Deduplicates(t *testing.T) {
	set := ToSet([]int64{1, 1, 2, 2, 2, 3})
	assert.Len(t, set, 3)
}
