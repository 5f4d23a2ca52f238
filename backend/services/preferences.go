package services

import (
	"context"
	"strconv"

	"mitra/backend/models"
	"mitra/backend/storage"
)

// PreferenceStore keeps theme and accessibility mode as plain strings. The
// theme survives the first-run reset.
type PreferenceStore struct {
	kv storage.KV
}

func NewPreferenceStore(kv storage.KV) *PreferenceStore {
	return &PreferenceStore{kv: kv}
}

func (s *PreferenceStore) Get(ctx context.Context) (models.Preferences, error) {
	prefs := models.Preferences{Theme: models.ThemeLight}

	theme, found, err := s.kv.Get(ctx, storage.KeyTheme)
	if err != nil {
		return prefs, err
	}
	if !found {
		theme, found, err = s.kv.Get(ctx, storage.KeyThemeLegacy)
		if err != nil {
			return prefs, err
		}
	}
	if found && models.Theme(theme) == models.ThemeDark {
		prefs.Theme = models.ThemeDark
	}

	raw, found, err := s.kv.Get(ctx, storage.KeyAccessibilityMode)
	if err != nil {
		return prefs, err
	}
	if found {
		prefs.AccessibilityMode, _ = strconv.ParseBool(raw)
	}
	return prefs, nil
}

// Update applies the non-nil fields.
func (s *PreferenceStore) Update(ctx context.Context, theme *models.Theme, accessibility *bool) (models.Preferences, error) {
	if theme != nil {
		if *theme != models.ThemeLight && *theme != models.ThemeDark {
			return models.Preferences{}, invalid("theme", "theme must be light or dark")
		}
		if err := s.kv.Set(ctx, storage.KeyTheme, string(*theme)); err != nil {
			return models.Preferences{}, err
		}
	}
	if accessibility != nil {
		if err := s.kv.Set(ctx, storage.KeyAccessibilityMode, strconv.FormatBool(*accessibility)); err != nil {
			return models.Preferences{}, err
		}
	}
	return s.Get(ctx)
}
