// Package sqlite persists software authenticator credentials in a SQLite
// file, so a dev-loop token keeps its resident keys across restarts.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/passkey-bridge/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/passkey-bridge/internal/softtoken/store"
	"github.com/louisbranch/passkey-bridge/internal/softtoken/store/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store implements credential persistence over SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a credential store and applies bundled migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	st := &Store{sqlDB: sqlDB}

	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return st, nil
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutCredential stores or replaces a credential record.
func (s *Store) PutCredential(ctx context.Context, credential store.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(credential.ID) == "" {
		return fmt.Errorf("credential id is required")
	}
	if strings.TrimSpace(credential.RPID) == "" {
		return fmt.Errorf("rp id is required")
	}
	if len(credential.KeyDER) == 0 {
		return fmt.Errorf("key material is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO softtoken_credentials (id, rp_id, user_id, user_name, key_der, sign_count, large_blob, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    rp_id = excluded.rp_id,
    user_id = excluded.user_id,
    user_name = excluded.user_name,
    key_der = excluded.key_der,
    sign_count = excluded.sign_count,
    large_blob = excluded.large_blob,
    updated_at = excluded.updated_at
`,
		credential.ID,
		credential.RPID,
		credential.UserID,
		credential.UserName,
		credential.KeyDER,
		credential.SignCount,
		credential.LargeBlob,
		toMillis(credential.CreatedAt),
		toMillis(credential.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put credential: %w", err)
	}
	return nil
}

// GetCredential fetches a credential by ID.
func (s *Store) GetCredential(ctx context.Context, credentialID string) (store.Credential, error) {
	if err := ctx.Err(); err != nil {
		return store.Credential{}, err
	}
	if s == nil || s.sqlDB == nil {
		return store.Credential{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(credentialID) == "" {
		return store.Credential{}, fmt.Errorf("credential id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, rp_id, user_id, user_name, key_der, sign_count, large_blob, created_at, updated_at
FROM softtoken_credentials
WHERE id = ?
`, credentialID)

	credential, err := scanCredential(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Credential{}, store.ErrNotFound
		}
		return store.Credential{}, fmt.Errorf("get credential: %w", err)
	}
	return credential, nil
}

// ListCredentialsByRP returns every credential registered for a relying
// party, ordered by creation time.
func (s *Store) ListCredentialsByRP(ctx context.Context, rpID string) ([]store.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(rpID) == "" {
		return nil, fmt.Errorf("rp id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, rp_id, user_id, user_name, key_der, sign_count, large_blob, created_at, updated_at
FROM softtoken_credentials
WHERE rp_id = ?
ORDER BY created_at ASC, id ASC
`, rpID)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var credentials []store.Credential
	for rows.Next() {
		credential, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		credentials = append(credentials, credential)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return credentials, nil
}

// UpdateSignCount persists a new signature counter value.
func (s *Store) UpdateSignCount(ctx context.Context, credentialID string, signCount uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(credentialID) == "" {
		return fmt.Errorf("credential id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE softtoken_credentials
SET sign_count = ?, updated_at = ?
WHERE id = ?
`, signCount, toMillis(time.Now()), credentialID)
	if err != nil {
		return fmt.Errorf("update sign count: %w", err)
	}
	return requireRowUpdated(result)
}

// UpdateLargeBlob persists a credential's large blob payload.
func (s *Store) UpdateLargeBlob(ctx context.Context, credentialID string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(credentialID) == "" {
		return fmt.Errorf("credential id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE softtoken_credentials
SET large_blob = ?, updated_at = ?
WHERE id = ?
`, blob, toMillis(time.Now()), credentialID)
	if err != nil {
		return fmt.Errorf("update large blob: %w", err)
	}
	return requireRowUpdated(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredential(row rowScanner) (store.Credential, error) {
	var credential store.Credential
	var createdAt int64
	var updatedAt int64
	if err := row.Scan(
		&credential.ID,
		&credential.RPID,
		&credential.UserID,
		&credential.UserName,
		&credential.KeyDER,
		&credential.SignCount,
		&credential.LargeBlob,
		&createdAt,
		&updatedAt,
	); err != nil {
		return store.Credential{}, err
	}
	credential.CreatedAt = fromMillis(createdAt)
	credential.UpdatedAt = fromMillis(updatedAt)
	return credential, nil
}

func requireRowUpdated(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check affected rows: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
