package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"soaw/api/internal/util"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) EnsureUserByName(ctx context.Context, name string) (User, error) {
	const findUser = `SELECT id, display_name, email FROM users WHERE display_name = $1`
	var user User
	err := s.db.QueryRowContext(ctx, findUser, name).Scan(&user.ID, &user.DisplayName, &user.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("lookup user: %w", err)
	}

	const insertUser = `
		INSERT INTO users (id, display_name, email)
		VALUES ($1, $2, CONCAT(LOWER(REPLACE($2, ' ', '.')), '@local.soaw.dev'))
		RETURNING id, display_name, email
	`
	if err := s.db.QueryRowContext(ctx, insertUser, util.NewID("usr"), name).Scan(&user.ID, &user.DisplayName, &user.Email); err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, userID string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `SELECT id, display_name, email FROM users WHERE id=$1`, userID).
		Scan(&user.ID, &user.DisplayName, &user.Email)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO UPDATE SET user_id=EXCLUDED.user_id, expires_at=EXCLUDED.expires_at, revoked_at=NULL
	`, tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE refresh_sessions SET revoked_at=NOW() WHERE token_hash=$1`, tokenHash)
	if err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) LookupRefreshSession(ctx context.Context, tokenHash string) (User, error) {
	const query = `
		SELECT u.id, u.display_name, u.email
		FROM refresh_sessions rs
		JOIN users u ON u.id = rs.user_id
		WHERE rs.token_hash = $1
			AND rs.revoked_at IS NULL
			AND rs.expires_at > NOW()
	`
	var user User
	err := s.db.QueryRowContext(ctx, query, tokenHash).Scan(&user.ID, &user.DisplayName, &user.Email)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) RevokeAccessToken(ctx context.Context, jti string, exp time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revoked_access_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING
	`, jti, exp)
	if err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM revoked_access_tokens WHERE jti=$1)`, jti).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}

const documentColumns = `
	id, name, initiative_id, status,
	prepared_by, reviewed_by, review_date,
	signed_at, revision_number, revised_from,
	updated_by, created_at, updated_at
`

func scanDocument(scan func(dest ...any) error) (DocumentRow, error) {
	var row DocumentRow
	err := scan(
		&row.ID, &row.Name, &row.InitiativeID, &row.Status,
		&row.PreparedBy, &row.ReviewedBy, &row.ReviewDate,
		&row.SignedAt, &row.RevisionNumber, &row.RevisedFrom,
		&row.UpdatedBy, &row.CreatedAt, &row.UpdatedAt,
	)
	return row, err
}

func (s *PostgresStore) ListDocuments(ctx context.Context) ([]DocumentRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	items := make([]DocumentRow, 0)
	for rows.Next() {
		item, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetDocument(ctx context.Context, documentID string) (DocumentRow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE id=$1
	`, documentID)
	return scanDocument(row.Scan)
}

func (s *PostgresStore) InsertDocument(ctx context.Context, item DocumentRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, name, initiative_id, status,
			prepared_by, reviewed_by, review_date,
			signed_at, revision_number, revised_from, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, item.ID, item.Name, item.InitiativeID, item.Status,
		item.PreparedBy, item.ReviewedBy, item.ReviewDate,
		item.SignedAt, item.RevisionNumber, item.RevisedFrom, item.UpdatedBy)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateDocument(ctx context.Context, item DocumentRow) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET name=$2, initiative_id=$3, status=$4,
			prepared_by=$5, reviewed_by=$6, review_date=$7,
			signed_at=$8, updated_by=$9, updated_at=NOW()
		WHERE id=$1
	`, item.ID, item.Name, item.InitiativeID, item.Status,
		item.PreparedBy, item.ReviewedBy, item.ReviewDate,
		item.SignedAt, item.UpdatedBy)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListSections(ctx context.Context, documentID string) ([]SectionRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT section_id, content, hidden, table_data, togaf_data
		FROM sections
		WHERE document_id=$1
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	items := make([]SectionRow, 0)
	for rows.Next() {
		var item SectionRow
		if err := rows.Scan(&item.SectionID, &item.Content, &item.Hidden, &item.TableData, &item.TogafData); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sections: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) ReplaceSections(ctx context.Context, documentID string, sections []SectionRow) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE document_id=$1`, documentID); err != nil {
			return fmt.Errorf("clear sections: %w", err)
		}
		for _, section := range sections {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO sections (document_id, section_id, content, hidden, table_data, togaf_data)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, documentID, section.SectionID, section.Content, section.Hidden, section.TableData, section.TogafData)
			if err != nil {
				return fmt.Errorf("insert section %s: %w", section.SectionID, err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) ListCustomSections(ctx context.Context, documentID string) ([]CustomSectionRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, insert_after, position
		FROM custom_sections
		WHERE document_id=$1
		ORDER BY position ASC, id ASC
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list custom sections: %w", err)
	}
	defer rows.Close()

	items := make([]CustomSectionRow, 0)
	for rows.Next() {
		var item CustomSectionRow
		if err := rows.Scan(&item.ID, &item.Title, &item.Content, &item.InsertAfter, &item.Position); err != nil {
			return nil, fmt.Errorf("scan custom section: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate custom sections: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) ReplaceCustomSections(ctx context.Context, documentID string, customs []CustomSectionRow) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM custom_sections WHERE document_id=$1`, documentID); err != nil {
			return fmt.Errorf("clear custom sections: %w", err)
		}
		for _, custom := range customs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO custom_sections (id, document_id, title, content, insert_after, position)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, custom.ID, documentID, custom.Title, custom.Content, custom.InsertAfter, custom.Position)
			if err != nil {
				return fmt.Errorf("insert custom section %s: %w", custom.ID, err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) ListSignatories(ctx context.Context, documentID string) ([]SignatoryRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, display_name, email, status, signed_at, position
		FROM signatories
		WHERE document_id=$1
		ORDER BY position ASC
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list signatories: %w", err)
	}
	defer rows.Close()

	items := make([]SignatoryRow, 0)
	for rows.Next() {
		var item SignatoryRow
		if err := rows.Scan(&item.UserID, &item.DisplayName, &item.Email, &item.Status, &item.SignedAt, &item.Position); err != nil {
			return nil, fmt.Errorf("scan signatory: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signatories: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) ReplaceSignatories(ctx context.Context, documentID string, signatories []SignatoryRow) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM signatories WHERE document_id=$1`, documentID); err != nil {
			return fmt.Errorf("clear signatories: %w", err)
		}
		for _, signatory := range signatories {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO signatories (document_id, user_id, display_name, email, status, signed_at, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, documentID, signatory.UserID, signatory.DisplayName, signatory.Email,
				signatory.Status, signatory.SignedAt, signatory.Position)
			if err != nil {
				return fmt.Errorf("insert signatory %s: %w", signatory.UserID, err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) ListVersionHistory(ctx context.Context, documentID string) ([]VersionEntryRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, version, date, revised_by, description
		FROM version_history
		WHERE document_id=$1
		ORDER BY position ASC
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list version history: %w", err)
	}
	defer rows.Close()

	items := make([]VersionEntryRow, 0)
	for rows.Next() {
		var item VersionEntryRow
		if err := rows.Scan(&item.Position, &item.Version, &item.Date, &item.RevisedBy, &item.Description); err != nil {
			return nil, fmt.Errorf("scan version entry: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate version history: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) ReplaceVersionHistory(ctx context.Context, documentID string, entries []VersionEntryRow) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM version_history WHERE document_id=$1`, documentID); err != nil {
			return fmt.Errorf("clear version history: %w", err)
		}
		for _, entry := range entries {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO version_history (document_id, position, version, date, revised_by, description)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, documentID, entry.Position, entry.Version, entry.Date, entry.RevisedBy, entry.Description)
			if err != nil {
				return fmt.Errorf("insert version entry %d: %w", entry.Position, err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
