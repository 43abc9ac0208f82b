// Package document implements the Statement of Architecture Work document
// model: the section data store, the ordering and emptiness rules every
// renderer shares, and the lifecycle/signing state machine.
package document

import (
	"errors"
	"strings"
	"time"
)

// CustomIDPrefix namespaces author-created sections in the flat wire-level
// sections map so they are distinguishable from template ids. Storage keeps
// custom sections in their own table; the prefix is a wire contract only.
const CustomIDPrefix = "custom_"

func IsCustomID(id string) bool {
	return strings.HasPrefix(id, CustomIDPrefix)
}

// TableData holds the body of a table section. Every row has the same
// length as Columns.
type TableData struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// SectionData is the per-section content record. Exactly one of Content,
// Table or Togaf is meaningful, matching the owning section's type.
// Title, InsertAfter and Position are side fields that ride along on
// custom entries in the flat wire-level sections map.
type SectionData struct {
	Content     string            `json:"content,omitempty"`
	Hidden      bool              `json:"hidden,omitempty"`
	Table       *TableData        `json:"tableData,omitempty"`
	Togaf       map[string]string `json:"togafData,omitempty"`
	Title       string            `json:"title,omitempty"`
	InsertAfter string            `json:"insertAfter,omitempty"`
	Position    int               `json:"position,omitempty"`
}

// CustomSection is an author-added section with a chosen insertion point.
// InsertAfter names a template section id; empty means end of document.
type CustomSection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	InsertAfter string `json:"insertAfter"`
}

type Status string

const (
	StatusDraft    Status = "draft"
	StatusInReview Status = "in_review"
	StatusApproved Status = "approved"
	StatusSigned   Status = "signed"
)

var ErrUnknownStatus = errors.New("unknown document status")

func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusDraft, StatusInReview, StatusApproved, StatusSigned:
		return Status(value), nil
	}
	return "", ErrUnknownStatus
}

type SignatoryStatus string

const (
	SignatoryPending SignatoryStatus = "pending"
	SignatorySigned  SignatoryStatus = "signed"
)

type Signatory struct {
	UserID      string          `json:"userId"`
	DisplayName string          `json:"displayName"`
	Email       string          `json:"email"`
	Status      SignatoryStatus `json:"status"`
	SignedAt    *time.Time      `json:"signedAt,omitempty"`
}

// Info is the document-information block rendered as a two-column table.
type Info struct {
	PreparedBy string `json:"preparedBy"`
	ReviewedBy string `json:"reviewedBy"`
	ReviewDate string `json:"reviewDate"`
}

// VersionEntry is one free-form audit row of the version-history table.
// Entries are author-maintained, not system-enforced.
type VersionEntry struct {
	Version     string `json:"version"`
	Date        string `json:"date"`
	RevisedBy   string `json:"revisedBy"`
	Description string `json:"description"`
}

// Document is the aggregate root. It owns Sections, Customs, Signatories
// and VersionHistory; InitiativeID is a non-owning reference into the
// fact-sheet subsystem.
type Document struct {
	ID             string
	Name           string
	InitiativeID   string
	Status         Status
	Info           Info
	VersionHistory []VersionEntry
	Sections       map[string]SectionData
	Customs        []CustomSection
	Signatories    []Signatory
	SignedAt       *time.Time
	RevisionNumber int
	RevisedFrom    string
	UpdatedBy      string
	UpdatedAt      time.Time
}
