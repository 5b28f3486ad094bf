package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/quillchat/keyvault/internal/events"
	"github.com/quillchat/keyvault/internal/models"
)

// SQLiteStore backs the persistent scope with a SQLite database. Only
// ciphertext, nonce and salt are stored; the decryption key is derived
// from the user's passphrase on every read and never touches disk.
type SQLiteStore struct {
	db     *sql.DB
	logger *events.Logger
}

// NewSQLiteStore opens (and if needed initializes) the credential
// database.
func NewSQLiteStore(dbPath string, logger *events.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{
		db:     db,
		logger: logger.WithField("component", "sqlite_store"),
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
    CREATE TABLE IF NOT EXISTS credentials (
        provider TEXT PRIMARY KEY,
        ciphertext BLOB NOT NULL,
        nonce BLOB NOT NULL,
        salt BLOB NOT NULL,
        updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
    );
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// Scope returns the persistent scope.
func (s *SQLiteStore) Scope() models.Scope { return models.ScopePersistent }

// Get reads the provider's blob row.
func (s *SQLiteStore) Get(ctx context.Context, provider models.ProviderID) (*models.EncryptedBlob, error) {
	var blob models.EncryptedBlob

	err := s.db.QueryRowContext(ctx, `
        SELECT ciphertext, nonce, salt
        FROM credentials
        WHERE provider = ?
    `, string(provider)).Scan(&blob.Ciphertext, &blob.Nonce, &blob.Salt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query credential: %w", err)
	}

	return &blob, nil
}

// Set upserts the provider's row in a single statement, which SQLite
// applies atomically.
func (s *SQLiteStore) Set(ctx context.Context, provider models.ProviderID, blob *models.EncryptedBlob) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO credentials (provider, ciphertext, nonce, salt, updated_at)
        VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(provider) DO UPDATE SET
            ciphertext = excluded.ciphertext,
            nonce = excluded.nonce,
            salt = excluded.salt,
            updated_at = excluded.updated_at
    `, string(provider), blob.Ciphertext, blob.Nonce, blob.Salt)

	if err != nil {
		if isFull(err) {
			return fmt.Errorf("%w: %v", models.ErrStorageQuota, err)
		}
		return fmt.Errorf("write credential: %w", err)
	}

	return nil
}

// Remove deletes the provider's row.
func (s *SQLiteStore) Remove(ctx context.Context, provider models.ProviderID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM credentials WHERE provider = ?`, string(provider))
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// Clear deletes every row.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials`)
	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func isFull(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.Code == sqlite3.ErrFull
}
