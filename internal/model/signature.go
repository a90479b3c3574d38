package model

import "time"

// IndexType selects how element indices inside a component are rendered.
type IndexType string

const (
	IndexDec         IndexType = "dec"         // 1, 2, 3, ...
	IndexRoman       IndexType = "roman"       // I, II, III, ...
	IndexSmallChar   IndexType = "small_char"  // a ... z, aa, ab, ...
	IndexCapitalChar IndexType = "capital_char" // A ... Z, AA, AB, ...
)

// Valid reports whether t is a known index scheme.
func (t IndexType) Valid() bool {
	switch t {
	case IndexDec, IndexRoman, IndexSmallChar, IndexCapitalChar:
		return true
	}
	return false
}

// SignatureComponent is a named classification axis. IndexCount caches the
// number of elements for display and is maintained on writes and re-index.
type SignatureComponent struct {
	SignatureComponentID int64     `json:"signatureComponentId"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	IndexType            IndexType `json:"index_type"`
	IndexCount           int       `json:"index_count"`
	CreatedOn            time.Time `json:"createdOn"`
	ModifiedOn           time.Time `json:"modifiedOn"`
}

// SignatureElement is a node in the cross-component parent DAG. ParentIDs
// and Component are populated on request, not on every read.
type SignatureElement struct {
	SignatureElementID   int64               `json:"signatureElementId"`
	SignatureComponentID int64               `json:"signatureComponentId"`
	Name                 string              `json:"name"`
	Description          string              `json:"description,omitempty"`
	Index                *string             `json:"index"`
	ParentIDs            []int64             `json:"parentIds,omitempty"`
	Parents              []SignatureElement  `json:"parents,omitempty"`
	Component            *SignatureComponent `json:"component,omitempty"`
	CreatedOn            time.Time           `json:"createdOn"`
	ModifiedOn           time.Time           `json:"modifiedOn"`
}

// SignatureElementSearchResult decorates an element with the resolved
// display paths of its parents for list views.
type SignatureElementSearchResult struct {
	SignatureElement
	ResolvedParentPaths []string `json:"resolvedParentPaths"`
}
