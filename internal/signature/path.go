package signature

import (
	"fmt"
	"strings"
)

// PathSeparator joins the hops of a resolved signature path.
const PathSeparator = " / "

// PathElement is one hop of a resolved path. Missing marks an ID that no
// longer exists; stored paths are denormalized snapshots and may outlive
// the elements they reference.
type PathElement struct {
	ID      int64
	Index   string
	Name    string
	Missing bool
}

// FormatHop renders a single hop as "[index] name", "name" when the
// element carries no index, or the "[ID:<n>?]" placeholder when missing.
func FormatHop(el PathElement) string {
	if el.Missing {
		return fmt.Sprintf("[ID:%d?]", el.ID)
	}
	if el.Index != "" {
		return fmt.Sprintf("[%s] %s", el.Index, el.Name)
	}
	return el.Name
}

// FormatPath renders a full path. Resolution never fails on dangling
// references; missing hops render as placeholders.
func FormatPath(els []PathElement) string {
	parts := make([]string, len(els))
	for i, el := range els {
		parts[i] = FormatHop(el)
	}
	return strings.Join(parts, PathSeparator)
}
