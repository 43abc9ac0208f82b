// Package export renders an assembled document into its portable output
// formats. All formats share one HTML body builder so a section that is
// visible in one output is visible in every output.
package export

import (
	"errors"
	"time"

	"soaw/api/internal/document"
)

// Format represents the export output format
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// ParseFormat validates a format string from the wire.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatHTML, FormatPDF, FormatDOCX:
		return Format(value), nil
	}
	return "", ErrUnsupportedFormat
}

// Meta carries the document-level fields that frame the section content:
// the title block, the document-information table, the version history and
// the signature block.
type Meta struct {
	Name           string
	Status         document.Status
	RevisionNumber int
	Info           document.Info
	VersionHistory []document.VersionEntry
	Signatories    []document.Signatory
	SignedAt       *time.Time
	GeneratedAt    time.Time
}

// Result contains the export output
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

var (
	// ErrUnsupportedFormat indicates an unknown export format was requested.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrPDFDependencyMissing indicates PDF export runtime dependencies are unavailable.
	ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
	// ErrDOCXDependencyMissing indicates DOCX export runtime dependencies are unavailable.
	ErrDOCXDependencyMissing = errors.New("export docx dependency missing")
)
