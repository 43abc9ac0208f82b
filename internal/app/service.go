// Package app wires the document engine to its HTTP surface: sessions,
// document CRUD, the signing lifecycle, exports and archive history.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"soaw/api/internal/archive"
	"soaw/api/internal/auth"
	"soaw/api/internal/config"
	"soaw/api/internal/document"
	"soaw/api/internal/export"
	"soaw/api/internal/registry"
	"soaw/api/internal/store"
	"soaw/api/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	UserName     string
	Email        string
	JTI          string
	ExpiresAt    time.Time
}

// SaveDocumentInput is the full editor payload of a PUT. Sections is the
// flat wire map: template ids plus custom_ entries with side fields.
type SaveDocumentInput struct {
	Name           string                          `json:"name"`
	InitiativeID   string                          `json:"initiativeId"`
	Status         string                          `json:"status"`
	Info           document.Info                   `json:"info"`
	VersionHistory []document.VersionEntry         `json:"versionHistory"`
	Sections       map[string]document.SectionData `json:"sections"`
}

type dataStore interface {
	EnsureUserByName(context.Context, string) (store.User, error)
	GetUserByID(context.Context, string) (store.User, error)
	SaveRefreshSession(context.Context, string, string, time.Time) error
	LookupRefreshSession(context.Context, string) (store.User, error)
	RevokeRefreshSession(context.Context, string) error
	RevokeAccessToken(context.Context, string, time.Time) error
	IsAccessTokenRevoked(context.Context, string) (bool, error)
	ListDocuments(context.Context) ([]store.DocumentRow, error)
	GetDocument(context.Context, string) (store.DocumentRow, error)
	InsertDocument(context.Context, store.DocumentRow) error
	UpdateDocument(context.Context, store.DocumentRow) error
	ListSections(context.Context, string) ([]store.SectionRow, error)
	ReplaceSections(context.Context, string, []store.SectionRow) error
	ListCustomSections(context.Context, string) ([]store.CustomSectionRow, error)
	ReplaceCustomSections(context.Context, string, []store.CustomSectionRow) error
	ListSignatories(context.Context, string) ([]store.SignatoryRow, error)
	ReplaceSignatories(context.Context, string, []store.SignatoryRow) error
	ListVersionHistory(context.Context, string) ([]store.VersionEntryRow, error)
	ReplaceVersionHistory(context.Context, string, []store.VersionEntryRow) error
	Ping(ctx context.Context) error
}

// refreshStore holds refresh sessions. The Postgres store implements it;
// a Redis store can replace it without touching the rest of the service.
type refreshStore interface {
	SaveRefreshSession(context.Context, string, string, time.Time) error
	LookupRefreshSession(context.Context, string) (store.User, error)
	RevokeRefreshSession(context.Context, string) error
}

type archiveService interface {
	Commit(documentID string, snapshot []byte, author, message string) (archive.CommitInfo, error)
	History(documentID string, limit int) ([]archive.CommitInfo, error)
	TagRevision(documentID string, revision int) error
}

type Service struct {
	cfg      config.Config
	store    dataStore
	sessions refreshStore
	archive  archiveService

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func New(cfg config.Config, dataStore *store.PostgresStore, archiveService *archive.Service) *Service {
	return &Service{
		cfg:      cfg,
		store:    dataStore,
		sessions: dataStore,
		archive:  archiveService,
		locks:    make(map[string]*sync.Mutex),
	}
}

// UseSessionStore swaps the refresh-session backend, e.g. for Redis.
func (s *Service) UseSessionStore(sessions refreshStore) {
	s.sessions = sessions
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// PingSessions probes the session backend when it is a separate system.
// The Postgres fallback shares the database check, so checked is false.
func (s *Service) PingSessions(ctx context.Context) (checked bool, err error) {
	if s.sessions == s.store {
		return false, nil
	}
	pinger, ok := s.sessions.(interface{ Ping(context.Context) error })
	if !ok {
		return false, nil
	}
	return true, pinger.Ping(ctx)
}

// Saves of the same document are serialized; saves of different documents
// are not.
func (s *Service) documentLock(documentID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.locks[documentID]
	if ok {
		return lock
	}
	lock = &sync.Mutex{}
	s.locks[documentID] = lock
	return lock
}

// ---- Sessions ----

func (s *Service) Login(ctx context.Context, name string) (Session, error) {
	userName := strings.TrimSpace(name)
	if userName == "" {
		userName = "User"
	}

	user, err := s.store.EnsureUserByName(ctx, userName)
	if err != nil {
		return Session{}, err
	}

	return s.issueSession(ctx, user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	user, err := s.sessions.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		return Session{}, err
	}
	if err := s.sessions.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	// The session backend may only persist the user id.
	if full, err := s.store.GetUserByID(ctx, user.ID); err == nil {
		user = full
	}
	return s.issueSession(ctx, user)
}

func (s *Service) issueSession(ctx context.Context, user store.User) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID("jti")

	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), auth.Claims{
		Sub:  user.ID,
		Name: user.DisplayName,
		JTI:  jti,
		Exp:  expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewID("rft") + util.NewID("")
	refreshExpires := now.Add(s.cfg.RefreshTTL)
	if err := s.sessions.SaveRefreshSession(ctx, auth.HashToken(refresh), user.ID, refreshExpires); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		UserName:     user.DisplayName,
		Email:        user.Email,
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return Session{}, err
	}
	revoked, err := s.store.IsAccessTokenRevoked(ctx, claims.JTI)
	if err != nil {
		return Session{}, err
	}
	if revoked {
		return Session{}, auth.ErrInvalidToken
	}

	user, err := s.store.GetUserByID(ctx, claims.Sub)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:     token,
		UserID:    user.ID,
		UserName:  user.DisplayName,
		Email:     user.Email,
		JTI:       claims.JTI,
		ExpiresAt: time.Unix(claims.Exp, 0),
	}, nil
}

func (s *Service) Logout(ctx context.Context, session Session, refreshToken string) error {
	if session.JTI != "" {
		_ = s.store.RevokeAccessToken(ctx, session.JTI, session.ExpiresAt)
	}
	if refreshToken != "" {
		_ = s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
	}
	return nil
}

// ---- Registry ----

// RegistryPayload exposes the fixed template catalog to editors.
func (s *Service) RegistryPayload() map[string]any {
	sections := make([]map[string]any, 0)
	for _, def := range registry.Sections() {
		item := map[string]any{
			"id":    def.ID,
			"title": def.Title,
			"type":  string(def.Type),
			"part":  string(def.Part),
			"level": def.Level,
		}
		if def.Hint != "" {
			item["hint"] = def.Hint
		}
		if def.Preamble != "" {
			item["preamble"] = def.Preamble
		}
		if len(def.Columns) > 0 {
			item["columns"] = def.Columns
		}
		sections = append(sections, item)
	}

	phases := make([]map[string]any, 0)
	for _, phase := range registry.Phases() {
		phases = append(phases, map[string]any{"key": phase.Key, "label": phase.Label})
	}

	return map[string]any{
		"sections": sections,
		"phases":   phases,
		"parts": map[string]any{
			"I":  registry.PartTitle(registry.PartI),
			"II": registry.PartTitle(registry.PartII),
		},
	}
}

// ---- Documents ----

func (s *Service) ListDocuments(ctx context.Context) ([]map[string]any, error) {
	rows, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		items = append(items, map[string]any{
			"id":             row.ID,
			"name":           row.Name,
			"initiativeId":   row.InitiativeID,
			"status":         row.Status,
			"revisionNumber": row.RevisionNumber,
			"signedAt":       row.SignedAt,
			"updatedBy":      row.UpdatedBy,
			"updatedAt":      row.UpdatedAt,
		})
	}
	return items, nil
}

func (s *Service) CreateDocument(ctx context.Context, name, initiativeID, userName string) (map[string]any, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required", nil)
	}

	doc := document.Document{
		ID:             util.NewID("doc"),
		Name:           name,
		InitiativeID:   strings.TrimSpace(initiativeID),
		Status:         document.StatusDraft,
		Sections:       document.DefaultSections(registry.Sections()),
		RevisionNumber: 1,
		UpdatedBy:      userName,
		UpdatedAt:      time.Now(),
	}

	if err := s.store.InsertDocument(ctx, documentToRow(doc)); err != nil {
		return nil, err
	}
	if err := s.persistContent(ctx, doc); err != nil {
		return nil, err
	}
	s.archiveCommit(doc, userName, "Create document")

	return s.workspacePayload(doc), nil
}

func (s *Service) GetWorkspace(ctx context.Context, documentID string) (map[string]any, error) {
	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return s.workspacePayload(doc), nil
}

func (s *Service) SaveDocument(ctx context.Context, documentID string, input SaveDocumentInput, userName string) (map[string]any, error) {
	lock := s.documentLock(documentID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := doc.EnsureMutable(); err != nil {
		return nil, domainError(http.StatusConflict, "DOCUMENT_SIGNED", "Document is signed and read-only", nil)
	}

	if input.Status != "" {
		status, err := document.ParseStatus(input.Status)
		if err != nil {
			return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown status", nil)
		}
		if !doc.Status.CanTransition(status) {
			return nil, domainError(http.StatusConflict, "INVALID_TRANSITION",
				fmt.Sprintf("cannot move document from %s to %s", doc.Status, status), nil)
		}
		doc.Status = status
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		doc.Name = name
	}
	doc.InitiativeID = strings.TrimSpace(input.InitiativeID)
	doc.Info = input.Info
	doc.VersionHistory = input.VersionHistory
	doc.Sections, doc.Customs = document.MergeSections(registry.Sections(), input.Sections, doc.Customs)
	doc.UpdatedBy = userName
	doc.UpdatedAt = time.Now()

	if err := s.store.UpdateDocument(ctx, documentToRow(doc)); err != nil {
		return nil, err
	}
	if err := s.persistContent(ctx, doc); err != nil {
		return nil, err
	}
	s.archiveCommit(doc, userName, "Save document")

	return s.workspacePayload(doc), nil
}

// ---- Lifecycle ----

func (s *Service) RequestSignatures(ctx context.Context, documentID string, userIDs []string, userName string) (map[string]any, error) {
	lock := s.documentLock(documentID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "userIds is required", nil)
	}

	entries := make([]document.Signatory, 0, len(userIDs))
	for _, userID := range userIDs {
		entry := document.Signatory{UserID: userID}
		// Display fields are a convenience; a missing user record still
		// gets a pending signature slot.
		if user, err := s.store.GetUserByID(ctx, userID); err == nil {
			entry.DisplayName = user.DisplayName
			entry.Email = user.Email
		}
		entries = append(entries, entry)
	}

	if err := doc.RequestSignatures(entries); err != nil {
		return nil, mapLifecycleError(err)
	}
	if err := s.store.ReplaceSignatories(ctx, doc.ID, signatoriesToRows(doc.Signatories)); err != nil {
		return nil, err
	}

	return map[string]any{"signatories": signatoriesPayload(doc.Signatories)}, nil
}

func (s *Service) Sign(ctx context.Context, documentID string, session Session) (map[string]any, error) {
	lock := s.documentLock(documentID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	completed, err := doc.Sign(session.UserID, time.Now())
	if err != nil {
		return nil, mapLifecycleError(err)
	}

	// The signatory rows go first: once the document row flips to signed
	// the database freezes every child table.
	if err := s.store.ReplaceSignatories(ctx, doc.ID, signatoriesToRows(doc.Signatories)); err != nil {
		return nil, err
	}
	if completed {
		if err := s.store.UpdateDocument(ctx, documentToRow(doc)); err != nil {
			return nil, err
		}
		s.archiveCommit(doc, session.UserName, fmt.Sprintf("Sign revision %d", doc.RevisionNumber))
		_ = s.archive.TagRevision(doc.ID, doc.RevisionNumber)
	}

	return map[string]any{
		"completed":   completed,
		"status":      string(doc.Status),
		"signedAt":    doc.SignedAt,
		"signatories": signatoriesPayload(doc.Signatories),
	}, nil
}

func (s *Service) Revise(ctx context.Context, documentID string, userName string) (map[string]any, error) {
	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	next, err := doc.Revise(util.NewID("doc"), time.Now())
	if err != nil {
		return nil, mapLifecycleError(err)
	}
	next.UpdatedBy = userName

	if err := s.store.InsertDocument(ctx, documentToRow(next)); err != nil {
		return nil, err
	}
	if err := s.persistContent(ctx, next); err != nil {
		return nil, err
	}
	s.archiveCommit(next, userName, fmt.Sprintf("Open revision %d of %s", next.RevisionNumber, doc.ID))

	return s.workspacePayload(next), nil
}

// ---- Export ----

func (s *Service) Export(ctx context.Context, documentID, formatValue string) (*export.Result, error) {
	format, err := export.ParseFormat(formatValue)
	if err != nil {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "format must be 'html', 'pdf' or 'docx'", nil)
	}

	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	units := document.Filter(document.Order(registry.Sections(), doc.Sections, doc.Customs))
	result, err := export.Render(format, export.Meta{
		Name:           doc.Name,
		Status:         doc.Status,
		RevisionNumber: doc.RevisionNumber,
		Info:           doc.Info,
		VersionHistory: doc.VersionHistory,
		Signatories:    doc.Signatories,
		SignedAt:       doc.SignedAt,
		GeneratedAt:    time.Now(),
	}, units)
	if err != nil {
		if errors.Is(err, export.ErrPDFDependencyMissing) || errors.Is(err, export.ErrDOCXDependencyMissing) {
			return nil, domainError(http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "Export dependency not installed", nil)
		}
		return nil, err
	}
	return result, nil
}

// ---- History ----

func (s *Service) History(ctx context.Context, documentID string) (map[string]any, error) {
	if _, err := s.loadDocument(ctx, documentID); err != nil {
		return nil, err
	}
	commits, err := s.archive.History(documentID, 50)
	if err != nil {
		if errors.Is(err, archive.ErrNoArchive) {
			return map[string]any{"commits": []archive.CommitInfo{}}, nil
		}
		return nil, err
	}
	return map[string]any{"commits": commits}, nil
}

// ---- Bootstrap ----

// Bootstrap seeds a starter document on an empty database.
func (s *Service) Bootstrap(ctx context.Context) error {
	documents, err := s.store.ListDocuments(ctx)
	if err != nil {
		return err
	}
	if len(documents) > 0 {
		return nil
	}

	owner, err := s.store.EnsureUserByName(ctx, "Avery")
	if err != nil {
		return err
	}

	sections := document.DefaultSections(registry.Sections())
	sections["1.1"] = document.SectionData{
		Content: "<p>The enterprise architecture board requested a Statement of Architecture Work for the payments platform modernization initiative.</p>",
	}
	sections["3.1"] = document.SectionData{
		Content: "<p>Consolidate three regional payment stacks onto a single event-driven platform within 18 months.</p>",
	}

	doc := document.Document{
		ID:           util.NewID("doc"),
		Name:         "Payments Platform Modernization",
		InitiativeID: "init_payments",
		Status:       document.StatusDraft,
		Info:         document.Info{PreparedBy: owner.DisplayName},
		VersionHistory: []document.VersionEntry{
			{Version: "0.1", Date: time.Now().Format("2006-01-02"), RevisedBy: owner.DisplayName, Description: "Initial draft"},
		},
		Sections:       sections,
		RevisionNumber: 1,
		UpdatedBy:      owner.DisplayName,
		UpdatedAt:      time.Now(),
	}

	if err := s.store.InsertDocument(ctx, documentToRow(doc)); err != nil {
		return err
	}
	if err := s.persistContent(ctx, doc); err != nil {
		return err
	}
	s.archiveCommit(doc, owner.DisplayName, "Create document")
	return nil
}

// ---- Assembly helpers ----

func (s *Service) loadDocument(ctx context.Context, documentID string) (document.Document, error) {
	row, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return document.Document{}, err
	}

	sectionRows, err := s.store.ListSections(ctx, documentID)
	if err != nil {
		return document.Document{}, err
	}
	customRows, err := s.store.ListCustomSections(ctx, documentID)
	if err != nil {
		return document.Document{}, err
	}
	signatoryRows, err := s.store.ListSignatories(ctx, documentID)
	if err != nil {
		return document.Document{}, err
	}
	historyRows, err := s.store.ListVersionHistory(ctx, documentID)
	if err != nil {
		return document.Document{}, err
	}

	doc := rowToDocument(row)
	doc.Sections = make(map[string]document.SectionData, len(sectionRows))
	for _, section := range sectionRows {
		data, err := sectionDataFromRow(section)
		if err != nil {
			return document.Document{}, fmt.Errorf("decode section %s: %w", section.SectionID, err)
		}
		doc.Sections[section.SectionID] = data
	}
	// Persisted content predating catalog growth heals to defaults here.
	doc.Sections, _ = document.MergeSections(registry.Sections(), doc.Sections, nil)

	doc.Customs = make([]document.CustomSection, 0, len(customRows))
	for _, custom := range customRows {
		doc.Customs = append(doc.Customs, document.CustomSection{
			ID:          custom.ID,
			Title:       custom.Title,
			Content:     custom.Content,
			InsertAfter: custom.InsertAfter,
		})
	}

	doc.Signatories = make([]document.Signatory, 0, len(signatoryRows))
	for _, row := range signatoryRows {
		doc.Signatories = append(doc.Signatories, document.Signatory{
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
			Email:       row.Email,
			Status:      document.SignatoryStatus(row.Status),
			SignedAt:    row.SignedAt,
		})
	}

	doc.VersionHistory = make([]document.VersionEntry, 0, len(historyRows))
	for _, entry := range historyRows {
		doc.VersionHistory = append(doc.VersionHistory, document.VersionEntry{
			Version:     entry.Version,
			Date:        entry.Date,
			RevisedBy:   entry.RevisedBy,
			Description: entry.Description,
		})
	}

	return doc, nil
}

func (s *Service) persistContent(ctx context.Context, doc document.Document) error {
	sectionRows, err := sectionsToRows(doc.Sections)
	if err != nil {
		return err
	}
	if err := s.store.ReplaceSections(ctx, doc.ID, sectionRows); err != nil {
		return err
	}
	if err := s.store.ReplaceCustomSections(ctx, doc.ID, customsToRows(doc.Customs)); err != nil {
		return err
	}
	if err := s.store.ReplaceSignatories(ctx, doc.ID, signatoriesToRows(doc.Signatories)); err != nil {
		return err
	}
	if err := s.store.ReplaceVersionHistory(ctx, doc.ID, historyToRows(doc.VersionHistory)); err != nil {
		return err
	}
	return nil
}

// archiveCommit is best effort: a broken archive never fails a save.
func (s *Service) archiveCommit(doc document.Document, author, message string) {
	snapshot, err := json.MarshalIndent(map[string]any{
		"id":             doc.ID,
		"name":           doc.Name,
		"initiativeId":   doc.InitiativeID,
		"status":         string(doc.Status),
		"info":           doc.Info,
		"versionHistory": doc.VersionHistory,
		"sections":       document.FlattenSections(doc.Sections, doc.Customs),
		"signatories":    doc.Signatories,
		"revisionNumber": doc.RevisionNumber,
		"revisedFrom":    doc.RevisedFrom,
	}, "", "  ")
	if err != nil {
		return
	}
	_, _ = s.archive.Commit(doc.ID, snapshot, author, message)
}

func (s *Service) workspacePayload(doc document.Document) map[string]any {
	units := document.Order(registry.Sections(), doc.Sections, doc.Customs)
	kept := make(map[string]bool)
	for _, unit := range document.Filter(units) {
		kept[unitKey(unit)] = true
	}

	unitPayloads := make([]map[string]any, 0, len(units))
	for _, unit := range units {
		unitPayloads = append(unitPayloads, unitPayload(unit, kept[unitKey(unit)]))
	}

	return map[string]any{
		"document": documentSummary(doc),
		"sections": document.FlattenSections(doc.Sections, doc.Customs),
		"units":    unitPayloads,
	}
}

func unitKey(unit document.Unit) string {
	switch unit.Kind {
	case document.UnitPartHeader:
		return "part:" + string(unit.Part)
	case document.UnitCustom:
		return "custom:" + unit.Custom.ID
	default:
		return "template:" + unit.Def.ID
	}
}

func unitPayload(unit document.Unit, renderable bool) map[string]any {
	switch unit.Kind {
	case document.UnitPartHeader:
		return map[string]any{
			"kind":       "part_header",
			"part":       string(unit.Part),
			"title":      registry.PartTitle(unit.Part),
			"renderable": renderable,
		}
	case document.UnitCustom:
		return map[string]any{
			"kind":        "custom",
			"id":          unit.Custom.ID,
			"title":       unit.Custom.Title,
			"content":     unit.Custom.Content,
			"insertAfter": unit.Custom.InsertAfter,
			"renderable":  renderable,
		}
	default:
		return map[string]any{
			"kind":       "template",
			"id":         unit.Def.ID,
			"title":      unit.Def.Title,
			"type":       string(unit.Def.Type),
			"part":       string(unit.Def.Part),
			"level":      unit.Def.Level,
			"data":       unit.Data,
			"renderable": renderable,
		}
	}
}

func documentSummary(doc document.Document) map[string]any {
	return map[string]any{
		"id":             doc.ID,
		"name":           doc.Name,
		"initiativeId":   doc.InitiativeID,
		"status":         string(doc.Status),
		"info":           doc.Info,
		"versionHistory": doc.VersionHistory,
		"signatories":    signatoriesPayload(doc.Signatories),
		"signedAt":       doc.SignedAt,
		"revisionNumber": doc.RevisionNumber,
		"revisedFrom":    doc.RevisedFrom,
		"updatedBy":      doc.UpdatedBy,
		"updatedAt":      doc.UpdatedAt,
	}
}

func signatoriesPayload(signatories []document.Signatory) []map[string]any {
	items := make([]map[string]any, 0, len(signatories))
	for _, signatory := range signatories {
		items = append(items, map[string]any{
			"userId":      signatory.UserID,
			"displayName": signatory.DisplayName,
			"email":       signatory.Email,
			"status":      string(signatory.Status),
			"signedAt":    signatory.SignedAt,
		})
	}
	return items
}

func mapLifecycleError(err error) error {
	switch {
	case errors.Is(err, document.ErrDocumentSigned):
		return domainError(http.StatusConflict, "DOCUMENT_SIGNED", "Document is signed and read-only", nil)
	case errors.Is(err, document.ErrNotSigned):
		return domainError(http.StatusConflict, "NOT_SIGNED", "Document is not signed", nil)
	case errors.Is(err, document.ErrNoSignatories):
		return domainError(http.StatusConflict, "NO_SIGNATORIES", "No signatures have been requested", nil)
	case errors.Is(err, document.ErrNotPendingSignatory):
		return domainError(http.StatusForbidden, "NOT_SIGNATORY", "You have no pending signature on this document", nil)
	default:
		return err
	}
}

// ---- Row conversions ----

func rowToDocument(row store.DocumentRow) document.Document {
	return document.Document{
		ID:             row.ID,
		Name:           row.Name,
		InitiativeID:   row.InitiativeID,
		Status:         document.Status(row.Status),
		Info:           document.Info{PreparedBy: row.PreparedBy, ReviewedBy: row.ReviewedBy, ReviewDate: row.ReviewDate},
		SignedAt:       row.SignedAt,
		RevisionNumber: row.RevisionNumber,
		RevisedFrom:    row.RevisedFrom,
		UpdatedBy:      row.UpdatedBy,
		UpdatedAt:      row.UpdatedAt,
	}
}

func documentToRow(doc document.Document) store.DocumentRow {
	return store.DocumentRow{
		ID:             doc.ID,
		Name:           doc.Name,
		InitiativeID:   doc.InitiativeID,
		Status:         string(doc.Status),
		PreparedBy:     doc.Info.PreparedBy,
		ReviewedBy:     doc.Info.ReviewedBy,
		ReviewDate:     doc.Info.ReviewDate,
		SignedAt:       doc.SignedAt,
		RevisionNumber: doc.RevisionNumber,
		RevisedFrom:    doc.RevisedFrom,
		UpdatedBy:      doc.UpdatedBy,
		UpdatedAt:      doc.UpdatedAt,
	}
}

func sectionDataFromRow(row store.SectionRow) (document.SectionData, error) {
	data := document.SectionData{Content: row.Content, Hidden: row.Hidden}
	if len(row.TableData) > 0 {
		var table document.TableData
		if err := json.Unmarshal(row.TableData, &table); err != nil {
			return document.SectionData{}, fmt.Errorf("table data: %w", err)
		}
		data.Table = &table
	}
	if len(row.TogafData) > 0 {
		togaf := make(map[string]string)
		if err := json.Unmarshal(row.TogafData, &togaf); err != nil {
			return document.SectionData{}, fmt.Errorf("togaf data: %w", err)
		}
		data.Togaf = togaf
	}
	return data, nil
}

func sectionsToRows(sections map[string]document.SectionData) ([]store.SectionRow, error) {
	rows := make([]store.SectionRow, 0, len(sections))
	for id, data := range sections {
		row := store.SectionRow{SectionID: id, Content: data.Content, Hidden: data.Hidden}
		if data.Table != nil {
			payload, err := json.Marshal(data.Table)
			if err != nil {
				return nil, fmt.Errorf("encode table data %s: %w", id, err)
			}
			row.TableData = payload
		}
		if data.Togaf != nil {
			payload, err := json.Marshal(data.Togaf)
			if err != nil {
				return nil, fmt.Errorf("encode togaf data %s: %w", id, err)
			}
			row.TogafData = payload
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func customsToRows(customs []document.CustomSection) []store.CustomSectionRow {
	rows := make([]store.CustomSectionRow, 0, len(customs))
	for i, custom := range customs {
		rows = append(rows, store.CustomSectionRow{
			ID:          custom.ID,
			Title:       custom.Title,
			Content:     custom.Content,
			InsertAfter: custom.InsertAfter,
			Position:    i + 1,
		})
	}
	return rows
}

func signatoriesToRows(signatories []document.Signatory) []store.SignatoryRow {
	rows := make([]store.SignatoryRow, 0, len(signatories))
	for i, signatory := range signatories {
		rows = append(rows, store.SignatoryRow{
			UserID:      signatory.UserID,
			DisplayName: signatory.DisplayName,
			Email:       signatory.Email,
			Status:      string(signatory.Status),
			SignedAt:    signatory.SignedAt,
			Position:    i + 1,
		})
	}
	return rows
}

func historyToRows(entries []document.VersionEntry) []store.VersionEntryRow {
	rows := make([]store.VersionEntryRow, 0, len(entries))
	for i, entry := range entries {
		rows = append(rows, store.VersionEntryRow{
			Position:    i + 1,
			Version:     entry.Version,
			Date:        entry.Date,
			RevisedBy:   entry.RevisedBy,
			Description: entry.Description,
		})
	}
	return rows
}
