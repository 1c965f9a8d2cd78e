package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jwtkit/jwtkit/internal/database"
	"github.com/jwtkit/jwtkit/internal/issuer"
	"github.com/jwtkit/jwtkit/internal/jwk"
	"github.com/jwtkit/jwtkit/internal/keyutil"
	"github.com/jwtkit/jwtkit/internal/logging"
	"github.com/jwtkit/jwtkit/internal/metric"
	"github.com/jwtkit/jwtkit/internal/models"
	"github.com/jwtkit/jwtkit/internal/token"
)

// AddKeyRequest is the payload for creating a signing key.
type AddKeyRequest struct {
	Name      string `json:"name"`
	Algorithm string `json:"algorithm"`
	KeySize   int    `json:"key_size"`
}

// TokenRequest is the payload for minting a token against a profile.
type TokenRequest struct {
	Subject string         `json:"subject"`
	Claims  map[string]any `json:"claims"`
}

// InspectRequest is the payload for decoding a token.
type InspectRequest struct {
	Token string `json:"token"`
}

// KeyDetail pairs a key's metadata with its public half. The private
// key never appears in responses.
type KeyDetail struct {
	*models.Key
	PublicKeyPEM string `json:"public_key_pem"`
}

// InspectResult is the decoded view of a token produced by InspectToken.
type InspectResult struct {
	Header    json.RawMessage `json:"header"`
	Payload   json.RawMessage `json:"payload"`
	Signature string          `json:"signature"`
	Rendered  string          `json:"rendered"`
}

// --- Signing keys ---

func ListKeys(repo database.KeyRepository) ([]*models.Key, error) {
	return repo.ListKeysFromDB()
}

func GetKey(repo database.KeyRepository, name string) (*KeyDetail, error) {
	key, err := repo.GetKeyFromDB(name)
	if err != nil {
		return nil, err
	}
	return keyDetail(key)
}

func AddKey(ctx context.Context, repo database.KeyRepository, name, algorithm string, keySize int) (*KeyDetail, error) {
	if algorithm == "" {
		algorithm = string(models.AlgorithmRS256)
	}
	if keySize == 0 {
		keySize = models.DefaultKeySize
	}
	if err := validateKeyRequest(name, algorithm, keySize); err != nil {
		return nil, err
	}

	priv, err := keyutil.GenerateKey(keySize)
	if err != nil {
		return nil, err
	}

	key := &models.Key{
		Name:          name,
		KeyID:         models.NextKeyID(name, 1),
		Algorithm:     models.Algorithm(algorithm),
		PrivateKeyPEM: keyutil.EncodePrivateKeyPEM(priv),
		Version:       1,
		CreatedAt:     time.Now(),
	}

	if err := repo.AddKeyInDB(ctx, key); err != nil {
		return nil, err
	}

	logging.Log(ctx).
		Layer("handlers").
		Op("AddKey").
		Key(name).
		Str("algorithm", algorithm).
		Int("key_size", keySize).
		Info("signing key created")

	return keyDetail(key)
}

// RotateKey replaces a key's material in place. The new version keeps
// the key's name and algorithm, gets a fresh key ID, and reuses the
// previous modulus size.
func RotateKey(ctx context.Context, repo database.KeyRepository, name string) (*KeyDetail, error) {
	key, err := repo.GetKeyFromDB(name)
	if err != nil {
		return nil, err
	}

	oldPriv, err := keyutil.ParsePrivateKeyPEM(key.PrivateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("loading key %q for rotation: %w", name, err)
	}

	priv, err := keyutil.GenerateKey(oldPriv.N.BitLen())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	key.Version++
	key.KeyID = models.NextKeyID(name, key.Version)
	key.PrivateKeyPEM = keyutil.EncodePrivateKeyPEM(priv)
	key.RotatedAt = &now

	if err := repo.RotateKeyInDB(key); err != nil {
		return nil, err
	}

	metric.KeyRotations.WithLabelValues(name).Inc()
	logging.Log(ctx).
		Layer("handlers").
		Op("RotateKey").
		Key(name).
		Int("version", key.Version).
		Info("signing key rotated")

	return keyDetail(key)
}

func DeleteKey(repo database.KeyRepository, name string) error {
	return repo.DeleteKeyFromDB(name)
}

// BuildJWKS assembles the public JWKS document from every stored key.
func BuildJWKS(repo database.KeyRepository) (*jwk.Set, error) {
	keys, err := repo.ListKeysFromDB()
	if err != nil {
		return nil, err
	}

	entries := make([]jwk.JWK, 0, len(keys))
	for _, key := range keys {
		priv, err := keyutil.ParsePrivateKeyPEM(key.PrivateKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("loading key %q: %w", key.Name, err)
		}
		entries = append(entries, jwk.FromRSAPublicKey(key.KeyID, string(key.Algorithm), &priv.PublicKey))
	}

	set := jwk.NewSet(entries...)
	return &set, nil
}

// --- Token profiles ---

func ListProfiles(repo database.ProfileRepository) ([]*models.Profile, error) {
	return repo.ListProfilesFromDB()
}

func GetProfile(repo database.ProfileRepository, name string) (*models.Profile, error) {
	return repo.GetProfileFromDB(name)
}

func AddProfile(ctx context.Context, profiles database.ProfileRepository, keys database.KeyRepository, profile *models.Profile) (*models.Profile, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	if err := checkKeyExists(keys, profile.KeyName); err != nil {
		return nil, err
	}

	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt

	if err := profiles.AddProfileInDB(ctx, profile); err != nil {
		return nil, err
	}

	logging.Log(ctx).
		Layer("handlers").
		Op("AddProfile").
		Profile(profile.Name).
		Key(profile.KeyName).
		Info("token profile created")

	return profile, nil
}

func UpdateProfile(profiles database.ProfileRepository, keys database.KeyRepository, name string, incoming *models.Profile) (*models.Profile, error) {
	incoming.Name = name
	if err := validateProfile(incoming); err != nil {
		return nil, err
	}
	if err := checkKeyExists(keys, incoming.KeyName); err != nil {
		return nil, err
	}

	existing, err := profiles.GetProfileFromDB(name)
	if err != nil {
		return nil, err
	}

	existing.KeyName = incoming.KeyName
	existing.TTLSeconds = incoming.TTLSeconds
	existing.Audiences = incoming.Audiences
	existing.Claims = incoming.Claims
	existing.UpdatedAt = time.Now()

	if err := profiles.UpdateProfileInDB(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func DeleteProfile(repo database.ProfileRepository, name string) error {
	return repo.DeleteProfileFromDB(name)
}

// --- Tokens ---

// IssueToken mints a token for the named profile. Request claims are
// validated against the reserved set before the issuer is invoked.
func IssueToken(ctx context.Context, keys database.KeyRepository, profiles database.ProfileRepository, iss *issuer.Issuer, profileName, subject string, claims map[string]any) (*issuer.IssuedToken, error) {
	if err := validateTokenRequest(subject, claims); err != nil {
		return nil, err
	}

	profile, err := profiles.GetProfileFromDB(profileName)
	if err != nil {
		return nil, err
	}

	key, err := keys.GetKeyFromDB(profile.KeyName)
	if err != nil {
		// The FK constraint makes this unreachable short of manual
		// table edits, so treat it as an internal fault, not a 404.
		return nil, fmt.Errorf("signing key %q missing for profile %q", profile.KeyName, profileName)
	}

	issued, err := iss.Issue(key, profile, subject, claims)
	if err != nil {
		return nil, err
	}

	metric.TokensIssued.WithLabelValues(profileName).Inc()
	logging.Log(ctx).
		Layer("handlers").
		Op("IssueToken").
		Profile(profileName).
		Subject(subject).
		Str("jti", issued.TokenID).
		Info("token issued")

	return issued, nil
}

// InspectToken decodes a compact JWT without verifying its signature
// and returns the parsed segments plus the plain-text rendering.
func InspectToken(ctx context.Context, raw string) (*InspectResult, error) {
	if err := validate(func() string { return requireNonEmpty("token", raw) }); err != nil {
		return nil, err
	}

	tok, err := token.Parse(raw)
	if err != nil {
		metric.TokenInspections.WithLabelValues(inspectOutcome(err)).Inc()
		return nil, err
	}

	var rendered bytes.Buffer
	if err := tok.Render(&rendered); err != nil {
		return nil, err
	}

	metric.TokenInspections.WithLabelValues("ok").Inc()
	logging.Log(ctx).
		Layer("handlers").
		Op("InspectToken").
		Debug("token inspected")

	return &InspectResult{
		Header:    tok.Header,
		Payload:   tok.Payload,
		Signature: tok.Signature,
		Rendered:  rendered.String(),
	}, nil
}

// keyDetail derives the public PEM for API responses.
func keyDetail(key *models.Key) (*KeyDetail, error) {
	priv, err := keyutil.ParsePrivateKeyPEM(key.PrivateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("loading key %q: %w", key.Name, err)
	}
	return &KeyDetail{
		Key:          key,
		PublicKeyPEM: keyutil.EncodePublicKeyPEM(&priv.PublicKey),
	}, nil
}

// checkKeyExists turns an unknown key reference into a field-level
// validation error rather than a bare not-found.
func checkKeyExists(keys database.KeyRepository, name string) error {
	_, err := keys.GetKeyFromDB(name)
	if errors.Is(err, database.ErrNotFound) {
		return &ValidationError{Errors: []string{
			fmt.Sprintf("key_name references unknown signing key %q", name),
		}}
	}
	return err
}

func inspectOutcome(err error) string {
	if errors.Is(err, token.ErrMalformed) {
		return "malformed"
	}
	return "bad_segment"
}
