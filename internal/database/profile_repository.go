package database

import (
	"context"

	"github.com/jwtkit/jwtkit/internal/models"
)

// ProfileRepository defines the interface for managing token profile storage.
type ProfileRepository interface {
	ListProfilesFromDB() ([]*models.Profile, error)
	GetProfileFromDB(name string) (*models.Profile, error)
	AddProfileInDB(ctx context.Context, profile *models.Profile) error
	UpdateProfileInDB(profile *models.Profile) error
	DeleteProfileFromDB(name string) error
}
