package store

import "time"

type User struct {
	ID          string
	DisplayName string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DocumentRow is the flat documents table row. Section content, custom
// sections, signatories and version history live in child tables.
type DocumentRow struct {
	ID             string
	Name           string
	InitiativeID   string
	Status         string
	PreparedBy     string
	ReviewedBy     string
	ReviewDate     string
	SignedAt       *time.Time
	RevisionNumber int
	RevisedFrom    string
	UpdatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SectionRow stores one template section's content. TableData and TogafData
// are raw JSONB payloads; the caller owns their shape.
type SectionRow struct {
	SectionID string
	Content   string
	Hidden    bool
	TableData []byte
	TogafData []byte
}

type CustomSectionRow struct {
	ID          string
	Title       string
	Content     string
	InsertAfter string
	Position    int
}

type SignatoryRow struct {
	UserID      string
	DisplayName string
	Email       string
	Status      string
	SignedAt    *time.Time
	Position    int
}

type VersionEntryRow struct {
	Position    int
	Version     string
	Date        string
	RevisedBy   string
	Description string
}
