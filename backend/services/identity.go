package services

import (
	"context"
	"strings"

	"mitra/backend/models"
	"mitra/backend/storage"
	"mitra/backend/utils"
)

// signInUserID is the id every sign-in produces.
const signInUserID = "1"

// IdentityStore is a demo identity provider. It performs no credential
// verification: sign-in and sign-up always succeed for a well-formed email.
// The current user is stored in the user's own namespace.
type IdentityStore struct {
	root storage.KV
	ids  *utils.IDGenerator
}

func NewIdentityStore(root storage.KV, ids *utils.IDGenerator) *IdentityStore {
	return &IdentityStore{root: root, ids: ids}
}

// LocalPart returns the part of email before the first "@".
func LocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

func validateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", invalid("email", "email is required")
	}
	if i := strings.IndexByte(email, '@'); i <= 0 || i == len(email)-1 {
		return "", invalid("email", "email is not valid")
	}
	return email, nil
}

// SignIn ignores password.
func (s *IdentityStore) SignIn(ctx context.Context, email, _ string) (models.User, error) {
	email, err := validateEmail(email)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{ID: signInUserID, Name: LocalPart(email), Email: email}
	return user, s.save(ctx, user)
}

// SignUp ignores password. The id is the creation time in milliseconds.
func (s *IdentityStore) SignUp(ctx context.Context, name, email, _ string) (models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, invalid("name", "name is required")
	}
	email, err := validateEmail(email)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{ID: s.ids.NextString(), Name: name, Email: email}
	return user, s.save(ctx, user)
}

func (s *IdentityStore) SignOut(ctx context.Context, userID string) error {
	return s.scoped(userID).Remove(ctx, storage.KeyCurrentUser)
}

// CurrentUser returns nil when userID is signed out.
func (s *IdentityStore) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	found, err := storage.LoadJSON(ctx, s.scoped(userID), storage.KeyCurrentUser, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (s *IdentityStore) save(ctx context.Context, user models.User) error {
	return storage.SaveJSON(ctx, s.scoped(user.ID), storage.KeyCurrentUser, user)
}

func (s *IdentityStore) scoped(userID string) storage.KV {
	return storage.NewScoped(s.root, userID)
}
