package services

import (
	"context"
	"regexp"
	"strings"

	"mitra/backend/models"
	"mitra/backend/storage"

	"golang.org/x/crypto/bcrypt"
)

// PasskeyMessage is shown when a passkey is not numeric.
const PasskeyMessage = "Please enter a numeric passkey provided by your institution."

var passkeyPattern = regexp.MustCompile(`^\d+$`)

// ValidatePasskey accepts any non-empty run of digits. The gate is a demo
// and checks nothing else.
func ValidatePasskey(passkey string) error {
	if !passkeyPattern.MatchString(strings.TrimSpace(passkey)) {
		return invalid("passkey", PasskeyMessage)
	}
	return nil
}

// InstitutionStore holds the institution access pair.
type InstitutionStore struct {
	kv storage.KV
}

func NewInstitutionStore(kv storage.KV) *InstitutionStore {
	return &InstitutionStore{kv: kv}
}

// Grant stores the selection. The passkey is kept only as a bcrypt hash.
func (s *InstitutionStore) Grant(ctx context.Context, institution, passkey string) (models.InstitutionAccess, error) {
	institution = strings.TrimSpace(institution)
	if institution == "" {
		return models.InstitutionAccess{}, invalid("institution", "please select your institution")
	}
	if err := ValidatePasskey(passkey); err != nil {
		return models.InstitutionAccess{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(passkey)), bcrypt.DefaultCost)
	if err != nil {
		return models.InstitutionAccess{}, err
	}
	if err := s.kv.Set(ctx, storage.KeyInstitution, institution); err != nil {
		return models.InstitutionAccess{}, err
	}
	if err := s.kv.Set(ctx, storage.KeyPasskey, string(hash)); err != nil {
		return models.InstitutionAccess{}, err
	}
	return models.InstitutionAccess{HasAccess: true, Institution: institution}, nil
}

// Access reports whether both halves of the pair are stored.
func (s *InstitutionStore) Access(ctx context.Context) (models.InstitutionAccess, error) {
	institution, hasInstitution, err := s.kv.Get(ctx, storage.KeyInstitution)
	if err != nil {
		return models.InstitutionAccess{}, err
	}
	_, hasPasskey, err := s.kv.Get(ctx, storage.KeyPasskey)
	if err != nil {
		return models.InstitutionAccess{}, err
	}
	if !hasInstitution || !hasPasskey || institution == "" {
		return models.InstitutionAccess{}, nil
	}
	return models.InstitutionAccess{HasAccess: true, Institution: institution}, nil
}

// Verify compares passkey with the stored hash.
func (s *InstitutionStore) Verify(ctx context.Context, passkey string) (bool, error) {
	hash, found, err := s.kv.Get(ctx, storage.KeyPasskey)
	if err != nil || !found {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.TrimSpace(passkey))) == nil, nil
}

func (s *InstitutionStore) Revoke(ctx context.Context) error {
	if err := s.kv.Remove(ctx, storage.KeyInstitution); err != nil {
		return err
	}
	return s.kv.Remove(ctx, storage.KeyPasskey)
}
