package signature

import "context"

// ParentLookup returns the direct parent IDs of each of the given
// elements, keyed by element ID. Implemented by the repository layer.
type ParentLookup func(ctx context.Context, ids []int64) (map[int64][]int64, error)

// FindCycle walks the ancestors of the candidate parents and reports the
// first candidate through which elementID would become its own ancestor.
// The walk is iterative and visited-guarded, so deep or diamond-shaped
// graphs cannot blow the stack or loop.
//
// Returns (offendingParentID, true) when a cycle would form.
func FindCycle(ctx context.Context, elementID int64, parentIDs []int64, lookup ParentLookup) (int64, bool, error) {
	for _, pid := range parentIDs {
		if pid == elementID {
			return pid, true, nil
		}
		visited := map[int64]bool{pid: true}
		frontier := []int64{pid}
		for len(frontier) > 0 {
			parents, err := lookup(ctx, frontier)
			if err != nil {
				return 0, false, err
			}
			var next []int64
			for _, ancestors := range parents {
				for _, a := range ancestors {
					if a == elementID {
						return pid, true, nil
					}
					if !visited[a] {
						visited[a] = true
						next = append(next, a)
					}
				}
			}
			frontier = next
		}
	}
	return 0, false, nil
}
