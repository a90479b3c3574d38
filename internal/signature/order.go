package signature

import (
	"sort"

	"arcapi/internal/model"
)

// Orderable is the slice view the re-index ordering needs from an element.
type Orderable struct {
	ID    int64
	Index string // current index, empty when unassigned
	Name  string
}

// SortForReindex orders elements deterministically before new indices are
// assigned: existing index first (unassigned last), then name, then ID.
// Indices are ranked by the ordinal they encode under the component's
// scheme, so "10" sorts after "2" and "IX" after "V"; indices that do not
// parse under the scheme rank after parseable ones, by plain string
// compare. The sort is pure, so re-indexing an unchanged set is
// idempotent.
func SortForReindex(t model.IndexType, els []Orderable) {
	ordinal := make(map[int64]int, len(els))
	for _, el := range els {
		if n, ok := ParseIndex(t, el.Index); ok {
			ordinal[el.ID] = n
		}
	}
	sort.SliceStable(els, func(i, j int) bool {
		a, b := els[i], els[j]
		if (a.Index == "") != (b.Index == "") {
			return a.Index != ""
		}
		na, aok := ordinal[a.ID]
		nb, bok := ordinal[b.ID]
		switch {
		case aok && bok:
			if na != nb {
				return na < nb
			}
		case aok != bok:
			return aok
		default:
			if a.Index != b.Index {
				return a.Index < b.Index
			}
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}
