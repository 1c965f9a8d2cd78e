package database

import (
	"context"
	"sync"

	"github.com/jwtkit/jwtkit/internal/models"
)

// MockKeyRepository is a simple in-memory KeyRepository intended for unit tests only.
type MockKeyRepository struct {
	mu   sync.RWMutex
	keys map[string]*models.Key
}

// NewMockKeyRepository returns a MockKeyRepository for testing.
func NewMockKeyRepository() *MockKeyRepository {
	return &MockKeyRepository{
		keys: make(map[string]*models.Key),
	}
}

func (r *MockKeyRepository) ListKeysFromDB() ([]*models.Key, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Key, 0, len(r.keys))
	for _, key := range r.keys {
		result = append(result, key)
	}
	return result, nil
}

func (r *MockKeyRepository) GetKeyFromDB(name string) (*models.Key, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, exists := r.keys[name]
	if !exists {
		return nil, ErrNotFound
	}
	return key, nil
}

func (r *MockKeyRepository) AddKeyInDB(_ context.Context, key *models.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.keys[key.Name]; exists {
		return ErrAlreadyExists
	}
	r.keys[key.Name] = key
	return nil
}

func (r *MockKeyRepository) RotateKeyInDB(key *models.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.keys[key.Name]; !exists {
		return ErrNotFound
	}
	r.keys[key.Name] = key
	return nil
}

func (r *MockKeyRepository) DeleteKeyFromDB(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.keys[name]; !exists {
		return ErrNotFound
	}
	delete(r.keys, name)
	return nil
}

// MockProfileRepository is a simple in-memory ProfileRepository intended for unit tests only.
type MockProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*models.Profile
}

// NewMockProfileRepository returns a MockProfileRepository for testing.
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		profiles: make(map[string]*models.Profile),
	}
}

func (r *MockProfileRepository) ListProfilesFromDB() ([]*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Profile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		result = append(result, profile)
	}
	return result, nil
}

func (r *MockProfileRepository) GetProfileFromDB(name string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, exists := r.profiles[name]
	if !exists {
		return nil, ErrNotFound
	}
	return profile, nil
}

func (r *MockProfileRepository) AddProfileInDB(_ context.Context, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[profile.Name]; exists {
		return ErrAlreadyExists
	}
	r.profiles[profile.Name] = profile
	return nil
}

func (r *MockProfileRepository) UpdateProfileInDB(profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[profile.Name]; !exists {
		return ErrNotFound
	}
	r.profiles[profile.Name] = profile
	return nil
}

func (r *MockProfileRepository) DeleteProfileFromDB(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[name]; !exists {
		return ErrNotFound
	}
	delete(r.profiles, name)
	return nil
}
