package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jwtkit/jwtkit/internal/models"
	"github.com/lib/pq"
)

// PostgresKeyRepository implements KeyRepository using PostgreSQL.
type PostgresKeyRepository struct {
	db *sql.DB
}

// NewPostgresKeyRepository creates a new PostgresKeyRepository backed by the given *sql.DB.
func NewPostgresKeyRepository(db *sql.DB) *PostgresKeyRepository {
	return &PostgresKeyRepository{db: db}
}

func (r *PostgresKeyRepository) ListKeysFromDB() ([]*models.Key, error) {
	const query = `
		SELECT name, key_id, algorithm, private_key, version, created_at, rotated_at
		FROM signing_keys
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying signing keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.Key
	for rows.Next() {
		key, err := scanKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating signing keys: %w", err)
	}

	if keys == nil {
		keys = []*models.Key{}
	}
	return keys, nil
}

func (r *PostgresKeyRepository) GetKeyFromDB(name string) (*models.Key, error) {
	const query = `
		SELECT name, key_id, algorithm, private_key, version, created_at, rotated_at
		FROM signing_keys
		WHERE name = $1`

	row := r.db.QueryRow(query, name)

	var key models.Key
	var rotatedAt sql.NullTime

	err := row.Scan(
		&key.Name, &key.KeyID, &key.Algorithm,
		&key.PrivateKeyPEM, &key.Version,
		&key.CreatedAt, &rotatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning signing key: %w", err)
	}

	if rotatedAt.Valid {
		key.RotatedAt = &rotatedAt.Time
	}
	return &key, nil
}

func (r *PostgresKeyRepository) AddKeyInDB(ctx context.Context, key *models.Key) error {
	const query = `
		INSERT INTO signing_keys (name, key_id, algorithm, private_key, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		key.Name, key.KeyID, string(key.Algorithm),
		key.PrivateKeyPEM, key.Version, key.CreatedAt,
	)
	if err != nil {
		// Check for unique-violation (PG error code 23505)
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("inserting signing key: %w", err)
	}
	return nil
}

func (r *PostgresKeyRepository) RotateKeyInDB(key *models.Key) error {
	const query = `
		UPDATE signing_keys
		SET key_id = $1, private_key = $2, version = $3, rotated_at = $4
		WHERE name = $5`

	result, err := r.db.Exec(query,
		key.KeyID, key.PrivateKeyPEM, key.Version, key.RotatedAt,
		key.Name,
	)
	if err != nil {
		return fmt.Errorf("rotating signing key: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresKeyRepository) DeleteKeyFromDB(name string) error {
	const query = `DELETE FROM signing_keys WHERE name = $1`

	result, err := r.db.Exec(query, name)
	if err != nil {
		// A profile still references this key (PG error code 23503)
		if isForeignKeyViolation(err) {
			return ErrKeyInUse
		}
		return fmt.Errorf("deleting signing key: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// scanKey scans a single row from the signing_keys table into a Key.
func scanKey(rows *sql.Rows) (*models.Key, error) {
	var key models.Key
	var rotatedAt sql.NullTime

	err := rows.Scan(
		&key.Name, &key.KeyID, &key.Algorithm,
		&key.PrivateKeyPEM, &key.Version,
		&key.CreatedAt, &rotatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning signing key row: %w", err)
	}

	if rotatedAt.Valid {
		key.RotatedAt = &rotatedAt.Time
	}
	return &key, nil
}

// isUniqueViolation checks if a PostgreSQL error is a unique constraint violation (23505).
func isUniqueViolation(err error) bool {
	var pge *pq.Error
	if errors.As(err, &pge) {
		return pge.Code == "23505"
	}
	return false
}

// isForeignKeyViolation checks if a PostgreSQL error is a foreign key violation (23503).
func isForeignKeyViolation(err error) bool {
	var pge *pq.Error
	if errors.As(err, &pge) {
		return pge.Code == "23503"
	}
	return false
}
