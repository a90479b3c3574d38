package signature

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcapi/internal/model"
)

func TestSortForReindex(t *testing.T) {
	els := []Orderable{
		{ID: 4, Index: "", Name: "delta"},
		{ID: 2, Index: "b", Name: "beta"},
		{ID: 1, Index: "a", Name: "alpha"},
		{ID: 3, Index: "", Name: "gamma"},
	}
	SortForReindex(model.IndexSmallChar, els)

	ids := make([]int64, len(els))
	for i, el := range els {
		ids[i] = el.ID
	}
	// Indexed elements first in index order, unindexed after by name.
	assert.Equal(t, []int64{1, 2, 4, 3}, ids)
}

func TestSortForReindexTiesFallToID(t *testing.T) {
	els := []Orderable{
		{ID: 9, Index: "a", Name: "same"},
		{ID: 3, Index: "a", Name: "same"},
	}
	SortForReindex(model.IndexSmallChar, els)
	assert.Equal(t, int64(3), els[0].ID)
}

func TestSortForReindexRanksByOrdinal(t *testing.T) {
	t.Run("dec sorts 10 after 2", func(t *testing.T) {
		els := []Orderable{
			{ID: 1, Index: "10", Name: "j"},
			{ID: 2, Index: "2", Name: "b"},
			{ID: 3, Index: "1", Name: "a"},
		}
		SortForReindex(model.IndexDec, els)
		assert.Equal(t, []int64{3, 2, 1}, []int64{els[0].ID, els[1].ID, els[2].ID})
	})

	t.Run("roman sorts IX after V", func(t *testing.T) {
		els := []Orderable{
			{ID: 1, Index: "IX", Name: "nine"},
			{ID: 2, Index: "V", Name: "five"},
		}
		SortForReindex(model.IndexRoman, els)
		assert.Equal(t, int64(2), els[0].ID)
	})

	t.Run("small_char sorts aa after z", func(t *testing.T) {
		els := []Orderable{
			{ID: 1, Index: "aa", Name: "twentyseven"},
			{ID: 2, Index: "z", Name: "twentysix"},
		}
		SortForReindex(model.IndexSmallChar, els)
		assert.Equal(t, int64(2), els[0].ID)
	})

	t.Run("unparseable indices rank after parseable ones", func(t *testing.T) {
		els := []Orderable{
			{ID: 1, Index: "old-3", Name: "legacy"},
			{ID: 2, Index: "2", Name: "b"},
		}
		SortForReindex(model.IndexDec, els)
		assert.Equal(t, int64(2), els[0].ID)
	})
}

// reindexPass mirrors a full re-index: order, then assign each element the
// rendered index of its new position.
func reindexPass(t *testing.T, scheme model.IndexType, els []Orderable) map[int64]string {
	t.Helper()
	SortForReindex(scheme, els)
	out := make(map[int64]string, len(els))
	for i := range els {
		idx, err := FormatIndex(scheme, i+1)
		require.NoError(t, err)
		els[i].Index = idx
		out[els[i].ID] = idx
	}
	return out
}

func TestSortForReindexIdempotent(t *testing.T) {
	cases := []struct {
		scheme model.IndexType
		count  int
	}{
		{model.IndexDec, 12},       // "10".."12" sort after "2".."9"
		{model.IndexRoman, 9},      // "IX" sorts after "V"
		{model.IndexSmallChar, 28}, // "aa", "ab" sort after "z"
	}
	for _, tc := range cases {
		t.Run(string(tc.scheme), func(t *testing.T) {
			els := make([]Orderable, tc.count)
			for i := range els {
				els[i] = Orderable{ID: int64(i + 1), Name: fmt.Sprintf("element %02d", i+1)}
			}

			first := reindexPass(t, tc.scheme, els)
			second := reindexPass(t, tc.scheme, els)
			require.Equal(t, first, second)
		})
	}
}
