package services

import (
	"context"
	"testing"

	"mitra/backend/models"
	"mitra/backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInSynthesizesUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	identity := env.reg.Identity()

	user, err := identity.SignIn(ctx, "asha.k@college.edu", "anything")
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: "1", Name: "asha.k", Email: "asha.k@college.edu"}, user)

	current, err := identity.CurrentUser(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, user, *current)

	other, err := identity.SignIn(ctx, "ravi@college.edu", "")
	require.NoError(t, err)
	assert.Equal(t, "1", other.ID, "every sign-in shares one profile")

	require.NoError(t, identity.SignOut(ctx, "1"))
	current, err = identity.CurrentUser(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestSignUpUsesTimestampID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.reg.Identity().SignUp(ctx, "Asha", "asha@college.edu", "pw")
	require.NoError(t, err)
	assert.Equal(t, "1709634600000", user.ID)
	assert.Equal(t, "Asha", user.Name)

	_, found, err := env.kv.Get(ctx, storage.ProfilePrefix(user.ID)+storage.KeyCurrentUser)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestIdentityValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	identity := env.reg.Identity()

	for _, email := range []string{"", "   ", "no-at-sign", "@college.edu", "asha@"} {
		_, err := identity.SignIn(ctx, email, "")
		verr, ok := AsValidation(err)
		require.True(t, ok, email)
		assert.Equal(t, "email", verr.Field)
	}

	_, err := identity.SignUp(ctx, " ", "asha@college.edu", "")
	verr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "name", verr.Field)
}

func TestLocalPart(t *testing.T) {
	assert.Equal(t, "a.b", LocalPart("a.b@c@d"))
	assert.Equal(t, "plain", LocalPart("plain"))
}

func TestInstitutionAccess(t *testing.T) {
	env := newTestEnv(t)
	env.profile(t, func(ctx context.Context, p *Profile) {
		access, err := p.Institution.Access(ctx)
		require.NoError(t, err)
		assert.False(t, access.HasAccess)

		_, err = p.Institution.Grant(ctx, "iit-bombay", "abc12")
		verr, ok := AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, PasskeyMessage, verr.Message)

		_, err = p.Institution.Grant(ctx, "", "12345")
		_, ok = AsValidation(err)
		assert.True(t, ok)

		access, err = p.Institution.Grant(ctx, "iit-bombay", "12345")
		require.NoError(t, err)
		assert.Equal(t, models.InstitutionAccess{HasAccess: true, Institution: "iit-bombay"}, access)

		stored, _, err := p.kv.Get(ctx, storage.KeyPasskey)
		require.NoError(t, err)
		assert.NotEqual(t, "12345", stored, "passkey is stored hashed")

		ok, err = p.Institution.Verify(ctx, "12345")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = p.Institution.Verify(ctx, "54321")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, p.Institution.Revoke(ctx))
		access, err = p.Institution.Access(ctx)
		require.NoError(t, err)
		assert.False(t, access.HasAccess)

		_, err = p.Tasks(ctx, "dashboard")
		assert.ErrorIs(t, err, ErrInstitutionRequired)
	})
}

func TestValidatePasskey(t *testing.T) {
	assert.NoError(t, ValidatePasskey("0"))
	assert.NoError(t, ValidatePasskey(" 9876 "))
	assert.Error(t, ValidatePasskey(""))
	assert.Error(t, ValidatePasskey("12 34"))
	assert.Error(t, ValidatePasskey("-1"))
}

func TestVolunteerApply(t *testing.T) {
	env := newTestEnv(t)
	env.profile(t, func(ctx context.Context, p *Profile) {
		_, err := p.Volunteers.Apply(ctx, models.VolunteerApplication{Motivation: "help"})
		verr, ok := AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "name", verr.Field)

		_, err = p.Volunteers.Apply(ctx, models.VolunteerApplication{Name: "Asha"})
		verr, ok = AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "motivation", verr.Field)

		app, err := p.Volunteers.Apply(ctx, models.VolunteerApplication{
			Name:           " Asha ",
			Course:         "B.Tech",
			Year:           "2",
			Specialization: "Peer listening",
			Motivation:     "I want to help friends through exam season",
		})
		require.NoError(t, err)
		assert.Equal(t, "Asha", app.Name)
		assert.Equal(t, "2024-03-05T10:30:00Z", app.AppliedAt)
		assert.NotEmpty(t, app.ID)

		apps, err := p.Volunteers.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.VolunteerApplication{app}, apps)
	})
}

func TestPreferences(t *testing.T) {
	env := newTestEnv(t)
	env.profile(t, func(ctx context.Context, p *Profile) {
		prefs, err := p.Preferences.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.Preferences{Theme: models.ThemeLight}, prefs)

		require.NoError(t, p.kv.Set(ctx, storage.KeyThemeLegacy, "dark"))
		prefs, err = p.Preferences.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.ThemeDark, prefs.Theme)

		light := models.ThemeLight
		on := true
		prefs, err = p.Preferences.Update(ctx, &light, &on)
		require.NoError(t, err)
		assert.Equal(t, models.Preferences{Theme: models.ThemeLight, AccessibilityMode: true}, prefs)

		neon := models.Theme("neon")
		_, err = p.Preferences.Update(ctx, &neon, nil)
		verr, ok := AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "theme", verr.Field)

		prefs, err = p.Preferences.Update(ctx, nil, nil)
		require.NoError(t, err)
		assert.True(t, prefs.AccessibilityMode)
	})
}
