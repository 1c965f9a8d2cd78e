package database

import (
	"context"
	"errors"

	"github.com/jwtkit/jwtkit/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrKeyInUse      = errors.New("signing key is referenced by a token profile")
)

// KeyRepository defines the interface for managing signing key storage.
type KeyRepository interface {
	ListKeysFromDB() ([]*models.Key, error)
	GetKeyFromDB(name string) (*models.Key, error)
	AddKeyInDB(ctx context.Context, key *models.Key) error
	RotateKeyInDB(key *models.Key) error
	DeleteKeyFromDB(name string) error
}
