package document

import (
	"errors"
	"time"
)

var (
	// ErrDocumentSigned rejects content mutations on a signed document.
	ErrDocumentSigned = errors.New("document is signed and read-only")
	// ErrNotSigned rejects revise on a document that is not signed yet.
	ErrNotSigned = errors.New("document is not signed")
	// ErrNoSignatories rejects sign when no signatures were requested.
	ErrNoSignatories = errors.New("document has no signatories")
	// ErrNotPendingSignatory rejects sign by a user without a pending record.
	ErrNotPendingSignatory = errors.New("user is not a pending signatory")
	// ErrInvalidTransition rejects a status change the state machine forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Editors may move a document freely between the pre-signature states.
// StatusSigned is reachable only through Sign and is terminal.
var transitions = map[Status]map[Status]bool{
	StatusDraft:    {StatusDraft: true, StatusInReview: true, StatusApproved: true},
	StatusInReview: {StatusDraft: true, StatusInReview: true, StatusApproved: true},
	StatusApproved: {StatusDraft: true, StatusInReview: true, StatusApproved: true},
	StatusSigned:   {StatusSigned: true},
}

// CanTransition reports whether an editor-initiated status change from s
// to target is allowed.
func (s Status) CanTransition(target Status) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	return allowed[target]
}

// Terminal reports whether the status freezes the document.
func (s Status) Terminal() bool {
	return s == StatusSigned
}

// EnsureMutable returns ErrDocumentSigned once the document has been
// signed. Every content mutation path must call this before persisting.
func (d *Document) EnsureMutable() error {
	if d.Status.Terminal() || d.SignedAt != nil {
		return ErrDocumentSigned
	}
	return nil
}

// RequestSignatures replaces the signatory list with one pending record
// per entry. Valid at any point before signature.
func (d *Document) RequestSignatures(entries []Signatory) error {
	if err := d.EnsureMutable(); err != nil {
		return err
	}
	signatories := make([]Signatory, 0, len(entries))
	for _, entry := range entries {
		entry.Status = SignatoryPending
		entry.SignedAt = nil
		signatories = append(signatories, entry)
	}
	d.Signatories = signatories
	return nil
}

// Sign marks the caller's pending signatory record signed. When the last
// pending record signs, the document becomes signed and signed_at is
// stamped; completed reports whether this call closed the document.
func (d *Document) Sign(userID string, now time.Time) (completed bool, err error) {
	if d.Status.Terminal() {
		return false, ErrDocumentSigned
	}
	if len(d.Signatories) == 0 {
		return false, ErrNoSignatories
	}

	found := false
	pending := 0
	for i := range d.Signatories {
		if d.Signatories[i].UserID == userID && d.Signatories[i].Status == SignatoryPending {
			signedAt := now
			d.Signatories[i].Status = SignatorySigned
			d.Signatories[i].SignedAt = &signedAt
			found = true
			continue
		}
		if d.Signatories[i].Status == SignatoryPending {
			pending++
		}
	}
	if !found {
		return false, ErrNotPendingSignatory
	}
	if pending == 0 {
		signedAt := now
		d.Status = StatusSigned
		d.SignedAt = &signedAt
		return true, nil
	}
	return false, nil
}

// Revise derives the next revision from a signed document: same content,
// draft status, empty signatories, revision number incremented. The signed
// original is not touched and keeps its revision number.
func (d *Document) Revise(newID string, now time.Time) (Document, error) {
	if !d.Status.Terminal() {
		return Document{}, ErrNotSigned
	}

	next := Document{
		ID:             newID,
		Name:           d.Name,
		InitiativeID:   d.InitiativeID,
		Status:         StatusDraft,
		Info:           d.Info,
		VersionHistory: append([]VersionEntry(nil), d.VersionHistory...),
		Sections:       make(map[string]SectionData, len(d.Sections)),
		Customs:        make([]CustomSection, len(d.Customs)),
		RevisionNumber: d.RevisionNumber + 1,
		RevisedFrom:    d.ID,
		UpdatedAt:      now,
	}
	for id, data := range d.Sections {
		next.Sections[id] = cloneSection(data)
	}
	copy(next.Customs, d.Customs)
	return next, nil
}

func cloneSection(data SectionData) SectionData {
	out := data
	if data.Table != nil {
		table := &TableData{
			Columns: append([]string(nil), data.Table.Columns...),
			Rows:    make([][]string, len(data.Table.Rows)),
		}
		for i, row := range data.Table.Rows {
			table.Rows[i] = append([]string(nil), row...)
		}
		out.Table = table
	}
	if data.Togaf != nil {
		togaf := make(map[string]string, len(data.Togaf))
		for key, value := range data.Togaf {
			togaf[key] = value
		}
		out.Togaf = togaf
	}
	return out
}
