package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jwtkit/jwtkit/internal/models"
	"github.com/lib/pq"
)

// PostgresProfileRepository implements ProfileRepository using PostgreSQL.
type PostgresProfileRepository struct {
	db *sql.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository backed by the given *sql.DB.
func NewPostgresProfileRepository(db *sql.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) ListProfilesFromDB() ([]*models.Profile, error) {
	const query = `
		SELECT name, key_name, ttl_seconds, audiences, claims, created_at, updated_at
		FROM token_profiles
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying token profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating token profiles: %w", err)
	}

	if profiles == nil {
		profiles = []*models.Profile{}
	}
	return profiles, nil
}

func (r *PostgresProfileRepository) GetProfileFromDB(name string) (*models.Profile, error) {
	const query = `
		SELECT name, key_name, ttl_seconds, audiences, claims, created_at, updated_at
		FROM token_profiles
		WHERE name = $1`

	row := r.db.QueryRow(query, name)

	var profile models.Profile
	var rawClaims []byte

	err := row.Scan(
		&profile.Name, &profile.KeyName, &profile.TTLSeconds,
		pq.Array(&profile.Audiences), &rawClaims,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning token profile: %w", err)
	}

	if err := unmarshalClaims(&profile, rawClaims); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *PostgresProfileRepository) AddProfileInDB(ctx context.Context, profile *models.Profile) error {
	claimsJSON, err := marshalClaims(profile)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO token_profiles (name, key_name, ttl_seconds, audiences, claims, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		profile.Name, profile.KeyName, profile.TTLSeconds,
		pq.Array(profile.Audiences), claimsJSON,
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		// Check for unique-violation (PG error code 23505)
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		// The referenced signing key does not exist (PG error code 23503)
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("inserting token profile: %w", err)
	}
	return nil
}

func (r *PostgresProfileRepository) UpdateProfileInDB(profile *models.Profile) error {
	claimsJSON, err := marshalClaims(profile)
	if err != nil {
		return err
	}

	const query = `
		UPDATE token_profiles
		SET key_name = $1, ttl_seconds = $2, audiences = $3, claims = $4, updated_at = $5
		WHERE name = $6`

	result, err := r.db.Exec(query,
		profile.KeyName, profile.TTLSeconds,
		pq.Array(profile.Audiences), claimsJSON, profile.UpdatedAt,
		profile.Name,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("updating token profile: %w", err)
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

func (r *PostgresProfileRepository) DeleteProfileFromDB(name string) error {
	const query = `DELETE FROM token_profiles WHERE name = $1`

	result, err := r.db.Exec(query, name)
	if err != nil {
		return fmt.Errorf("deleting token profile: %w", err)
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

// scanProfile scans a single row from the token_profiles table into a Profile.
func scanProfile(rows *sql.Rows) (*models.Profile, error) {
	var profile models.Profile
	var rawClaims []byte

	err := rows.Scan(
		&profile.Name, &profile.KeyName, &profile.TTLSeconds,
		pq.Array(&profile.Audiences), &rawClaims,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning token profile row: %w", err)
	}

	if err := unmarshalClaims(&profile, rawClaims); err != nil {
		return nil, err
	}
	return &profile, nil
}

// marshalClaims serialises the static claims map for the JSONB column.
// A nil map is stored as SQL NULL.
func marshalClaims(profile *models.Profile) ([]byte, error) {
	if profile.Claims == nil {
		return nil, nil
	}
	claimsJSON, err := json.Marshal(profile.Claims)
	if err != nil {
		return nil, fmt.Errorf("marshalling profile claims: %w", err)
	}
	return claimsJSON, nil
}

// unmarshalClaims deserialises JSONB data into the profile claims map.
func unmarshalClaims(profile *models.Profile, data []byte) error {
	if data == nil {
		return nil
	}
	if err := json.Unmarshal(data, &profile.Claims); err != nil {
		return fmt.Errorf("unmarshalling profile claims: %w", err)
	}
	return nil
}
