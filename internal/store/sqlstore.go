package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"linkmcp/pkg/logging"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// SQLStore persists one Credential row per user in Postgres. It implements
// the multi-record mode of Store for deployments with concurrent users.
type SQLStore struct {
	db *sql.DB
}

// OpenSQLStore opens a Postgres connection with the pgx driver and ensures
// the credential table exists.
func OpenSQLStore(ctx context.Context, databaseURL string) (*SQLStore, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an existing database handle. The caller is responsible
// for having run the schema, e.g. via OpenSQLStore.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS user_credentials (
			user_id                  TEXT PRIMARY KEY,
			access_token             TEXT NOT NULL,
			refresh_token            TEXT,
			expires_at               TIMESTAMPTZ,
			refresh_token_expires_at TIMESTAMPTZ,
			scope                    TEXT,
			created_at               TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create user_credentials table: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Save upserts the record for cred.UserID as a whole-row replace.
func (s *SQLStore) Save(ctx context.Context, cred *Credential) error {
	createdAt := cred.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_credentials
			(user_id, access_token, refresh_token, expires_at, refresh_token_expires_at, scope, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			access_token             = EXCLUDED.access_token,
			refresh_token            = EXCLUDED.refresh_token,
			expires_at               = EXCLUDED.expires_at,
			refresh_token_expires_at = EXCLUDED.refresh_token_expires_at,
			scope                    = EXCLUDED.scope,
			created_at               = EXCLUDED.created_at
	`, cred.UserID, cred.AccessToken, nullString(cred.RefreshToken),
		nullTime(cred.ExpiresAt), nullTime(cred.RefreshTokenExpiresAt),
		nullString(cred.Scope), createdAt)
	if err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}

	logging.Debug("Store", "Saved credential for user=%s", cred.UserID)
	return nil
}

// Load returns the record for the given user, or (nil, nil) when absent.
// Scan failures against a damaged row read as no record.
func (s *SQLStore) Load(ctx context.Context, userID string) (*Credential, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, access_token, refresh_token, expires_at, refresh_token_expires_at, scope, created_at
		FROM user_credentials
		WHERE user_id = $1
	`, userID)
	return scanCredential(row)
}

// LoadMostRecent returns the newest record by created_at. With identical
// timestamps the winner is arbitrary.
func (s *SQLStore) LoadMostRecent(ctx context.Context) (*Credential, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, access_token, refresh_token, expires_at, refresh_token_expires_at, scope, created_at
		FROM user_credentials
		ORDER BY created_at DESC
		LIMIT 1
	`)
	return scanCredential(row)
}

// Delete removes the record for the given user; idempotent.
func (s *SQLStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_credentials WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a record with an access token exists.
func (s *SQLStore) IsAuthenticated(ctx context.Context, userID string) bool {
	cred, _ := s.Load(ctx, userID)
	return cred != nil && cred.AccessToken != ""
}

// rowScanner abstracts *sql.Row so credential decoding is testable
// without a live database.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredential(row rowScanner) (*Credential, error) {
	var cred Credential
	var refreshToken, scope sql.NullString
	var expiresAt, refreshExpiresAt sql.NullTime

	err := row.Scan(&cred.UserID, &cred.AccessToken, &refreshToken,
		&expiresAt, &refreshExpiresAt, &scope, &cred.CreatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logging.Warn("Store", "Failed to read credential row, treating as empty: %v", err)
		}
		return nil, nil
	}

	cred.RefreshToken = refreshToken.String
	cred.Scope = scope.String
	if expiresAt.Valid {
		value := expiresAt.Time.UTC()
		cred.ExpiresAt = &value
	}
	if refreshExpiresAt.Valid {
		value := refreshExpiresAt.Time.UTC()
		cred.RefreshTokenExpiresAt = &value
	}
	if cred.AccessToken == "" {
		return nil, nil
	}
	return &cred, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
