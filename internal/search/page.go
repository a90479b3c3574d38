package search

// Page is the uniform search response envelope. Page reflects the
// effective page actually served after clamping, so an out-of-range
// request answers with the nearest valid page rather than an empty set.
type Page[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalSize  int `json:"totalSize"`
	TotalPages int `json:"totalPages"`
}

// TotalPages computes ceil(totalSize/pageSize), never less than 1.
func TotalPages(totalSize, pageSize int) int {
	if totalSize <= 0 || pageSize <= 0 {
		return 1
	}
	n := (totalSize + pageSize - 1) / pageSize
	if n < 1 {
		return 1
	}
	return n
}

// ClampPage forces page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// NewPage assembles the envelope around an executed page of rows.
func NewPage[T any](data []T, page, pageSize, totalSize int) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalSize:  totalSize,
		TotalPages: TotalPages(totalSize, pageSize),
	}
}
