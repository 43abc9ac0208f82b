package document

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func signedDocument() Document {
	signedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return Document{
		ID:           "doc_1",
		Name:         "Payments Platform SoAW",
		InitiativeID: "init_42",
		Status:       StatusSigned,
		Info:         Info{PreparedBy: "Dana", ReviewedBy: "Priya", ReviewDate: "2026-03-01"},
		VersionHistory: []VersionEntry{
			{Version: "1.0", Date: "2026-02-20", RevisedBy: "Dana", Description: "Initial draft"},
		},
		Sections: map[string]SectionData{
			"1.1": {Content: "<p>Background text</p>"},
			"2.1": {Table: &TableData{Columns: []string{"Business Objective", "Notes"}, Rows: [][]string{{"Grow revenue", "Q1 target"}}}},
		},
		Customs: []CustomSection{
			{ID: "custom_1", Title: "Budget Note", Content: "<p>$50k</p>", InsertAfter: "2.1"},
		},
		Signatories: []Signatory{
			{UserID: "usr_1", DisplayName: "Dana", Status: SignatorySigned, SignedAt: &signedAt},
		},
		SignedAt:       &signedAt,
		RevisionNumber: 2,
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusInReview, true},
		{StatusDraft, StatusApproved, true},
		{StatusApproved, StatusDraft, true},
		{StatusInReview, StatusApproved, true},
		{StatusDraft, StatusSigned, false},
		{StatusApproved, StatusSigned, false},
		{StatusSigned, StatusDraft, false},
		{StatusSigned, StatusApproved, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("in_review"); err != nil {
		t.Errorf("ParseStatus(in_review) error = %v", err)
	}
	if _, err := ParseStatus("archived"); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("ParseStatus(archived) error = %v, want ErrUnknownStatus", err)
	}
}

func TestRequestSignaturesReplacesList(t *testing.T) {
	doc := Document{ID: "doc_1", Status: StatusDraft, Signatories: []Signatory{
		{UserID: "usr_old", Status: SignatorySigned},
	}}
	err := doc.RequestSignatures([]Signatory{
		{UserID: "usr_1", DisplayName: "Dana"},
		{UserID: "usr_2", DisplayName: "Priya"},
	})
	if err != nil {
		t.Fatalf("RequestSignatures() error = %v", err)
	}
	if len(doc.Signatories) != 2 {
		t.Fatalf("expected 2 signatories, got %d", len(doc.Signatories))
	}
	for _, s := range doc.Signatories {
		if s.Status != SignatoryPending || s.SignedAt != nil {
			t.Errorf("new signatory should be pending: %+v", s)
		}
	}
}

func TestRequestSignaturesRejectedWhenSigned(t *testing.T) {
	doc := signedDocument()
	err := doc.RequestSignatures([]Signatory{{UserID: "usr_9"}})
	if !errors.Is(err, ErrDocumentSigned) {
		t.Errorf("error = %v, want ErrDocumentSigned", err)
	}
}

func TestSignMarksSignatoryAndCompletesOnLast(t *testing.T) {
	doc := Document{ID: "doc_1", Status: StatusInReview, Signatories: []Signatory{
		{UserID: "usr_1", Status: SignatoryPending},
		{UserID: "usr_2", Status: SignatoryPending},
	}}
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	completed, err := doc.Sign("usr_1", now)
	if err != nil {
		t.Fatalf("first Sign() error = %v", err)
	}
	if completed {
		t.Error("first signature should not complete the document")
	}
	if doc.Status == StatusSigned || doc.SignedAt != nil {
		t.Error("document must stay unsigned while signatories are pending")
	}
	if doc.Signatories[0].Status != SignatorySigned || doc.Signatories[0].SignedAt == nil {
		t.Errorf("signatory not marked: %+v", doc.Signatories[0])
	}

	completed, err = doc.Sign("usr_2", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("second Sign() error = %v", err)
	}
	if !completed {
		t.Error("last signature should complete the document")
	}
	if doc.Status != StatusSigned || doc.SignedAt == nil {
		t.Errorf("document should be signed: status=%s signedAt=%v", doc.Status, doc.SignedAt)
	}
}

func TestSignPreconditions(t *testing.T) {
	now := time.Now()

	empty := Document{ID: "doc_1", Status: StatusDraft}
	if _, err := empty.Sign("usr_1", now); !errors.Is(err, ErrNoSignatories) {
		t.Errorf("error = %v, want ErrNoSignatories", err)
	}

	doc := Document{ID: "doc_1", Status: StatusDraft, Signatories: []Signatory{
		{UserID: "usr_1", Status: SignatoryPending},
	}}
	if _, err := doc.Sign("usr_2", now); !errors.Is(err, ErrNotPendingSignatory) {
		t.Errorf("error = %v, want ErrNotPendingSignatory", err)
	}

	signed := signedDocument()
	if _, err := signed.Sign("usr_1", now); !errors.Is(err, ErrDocumentSigned) {
		t.Errorf("error = %v, want ErrDocumentSigned", err)
	}
}

func TestSignedDocumentIsImmutable(t *testing.T) {
	doc := signedDocument()
	if err := doc.EnsureMutable(); !errors.Is(err, ErrDocumentSigned) {
		t.Errorf("EnsureMutable() = %v, want ErrDocumentSigned", err)
	}
}

func TestReviseChainsRevision(t *testing.T) {
	original := signedDocument()
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	next, err := original.Revise("doc_2", now)
	if err != nil {
		t.Fatalf("Revise() error = %v", err)
	}

	if next.Status != StatusDraft {
		t.Errorf("revision status = %s, want draft", next.Status)
	}
	if next.RevisionNumber != 3 {
		t.Errorf("revision number = %d, want 3", next.RevisionNumber)
	}
	if len(next.Signatories) != 0 || next.SignedAt != nil {
		t.Error("revision must start with no signatories and no signed_at")
	}
	if next.RevisedFrom != original.ID {
		t.Errorf("revisedFrom = %q, want %q", next.RevisedFrom, original.ID)
	}
	if !reflect.DeepEqual(next.Sections, original.Sections) {
		t.Error("revision sections should deep-equal the source content")
	}
	if !reflect.DeepEqual(next.Customs, original.Customs) {
		t.Error("revision customs should deep-equal the source content")
	}

	// The copy must be deep: mutating the revision leaves the original alone.
	next.Sections["1.1"] = SectionData{Content: "<p>Changed</p>"}
	next.Customs[0].Title = "Changed"
	if original.Sections["1.1"].Content != "<p>Background text</p>" {
		t.Error("mutating the revision changed the signed original's sections")
	}
	if original.Customs[0].Title != "Budget Note" {
		t.Error("mutating the revision changed the signed original's customs")
	}

	// The signed original keeps its revision number and signed state.
	if original.RevisionNumber != 2 || original.Status != StatusSigned {
		t.Error("revise mutated the signed original")
	}
}

func TestReviseRequiresSignedStatus(t *testing.T) {
	doc := Document{ID: "doc_1", Status: StatusApproved, RevisionNumber: 1}
	if _, err := doc.Revise("doc_2", time.Now()); !errors.Is(err, ErrNotSigned) {
		t.Errorf("error = %v, want ErrNotSigned", err)
	}
}
