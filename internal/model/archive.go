package model

import "time"

// ArchiveDocumentType distinguishes leaf documents from unit containers.
// Only units may parent other documents.
type ArchiveDocumentType string

const (
	DocTypeDocument ArchiveDocumentType = "document"
	DocTypeUnit     ArchiveDocumentType = "unit"
)

// Valid reports whether t is a known document type.
func (t ArchiveDocumentType) Valid() bool {
	return t == DocTypeDocument || t == DocTypeUnit
}

// SignaturePath is one denormalized route through the signature DAG,
// stored as an ordered sequence of element IDs.
type SignaturePath []int64

// ArchiveDocument is the central archival record. Deleting disables it
// (Active=false); rows are never removed.
type ArchiveDocument struct {
	ArchiveDocumentID           int64               `json:"archiveDocumentId"`
	Type                        ArchiveDocumentType `json:"type"`
	ParentUnitArchiveDocumentID *int64              `json:"parentUnitArchiveDocumentId"`
	Title                       string              `json:"title"`
	Creator                     string              `json:"creator"`
	CreationDate                string              `json:"creationDate"`
	NumberOfPages               *int                `json:"numberOfPages,omitempty"`
	DocumentType                string              `json:"documentType,omitempty"`
	Dimensions                  string              `json:"dimensions,omitempty"`
	Binding                     string              `json:"binding,omitempty"`
	Condition                   string              `json:"condition,omitempty"`
	DocumentLanguage            string              `json:"documentLanguage,omitempty"`
	ContentDescription          string              `json:"contentDescription,omitempty"`
	Remarks                     string              `json:"remarks,omitempty"`
	AccessLevel                 string              `json:"accessLevel,omitempty"`
	AccessConditions            string              `json:"accessConditions,omitempty"`
	AdditionalInformation       string              `json:"additionalInformation,omitempty"`
	RelatedDocumentsReferences  string              `json:"relatedDocumentsReferences,omitempty"`
	IsDigitized                 bool                `json:"isDigitized"`
	DigitizedVersionLink        string              `json:"digitizedVersionLink,omitempty"`
	Active                      bool                `json:"active"`
	OwnerUserID                 int64               `json:"ownerUserId"`
	OwnerLogin                  string              `json:"ownerLogin,omitempty"`
	Tags                        []Tag               `json:"tags"`
	TopographicSignatures       []SignaturePath     `json:"topographicSignatureElementIds"`
	DescriptiveSignatures       []SignaturePath     `json:"descriptiveSignatureElementIds"`
	CreatedOn                   time.Time           `json:"createdOn"`
	ModifiedOn                  time.Time           `json:"modifiedOn"`
}

// ArchiveDocumentSearchResult decorates a document with its resolved
// signature path strings for list views.
type ArchiveDocumentSearchResult struct {
	ArchiveDocument
	ResolvedTopographicSignatures []string `json:"resolvedTopographicSignatures"`
	ResolvedDescriptiveSignatures []string `json:"resolvedDescriptiveSignatures"`
}
