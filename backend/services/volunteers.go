package services

import (
	"context"
	"strings"
	"time"

	"mitra/backend/models"
	"mitra/backend/storage"
	"mitra/backend/utils"
)

type VolunteerStore struct {
	kv    storage.KV
	clock Clock
	ids   *utils.IDGenerator
}

func NewVolunteerStore(kv storage.KV, clock Clock, ids *utils.IDGenerator) *VolunteerStore {
	return &VolunteerStore{kv: kv, clock: clock, ids: ids}
}

// Apply appends a peer counsellor application.
func (s *VolunteerStore) Apply(ctx context.Context, in models.VolunteerApplication) (models.VolunteerApplication, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Motivation = strings.TrimSpace(in.Motivation)
	if in.Name == "" {
		return models.VolunteerApplication{}, invalid("name", "name is required")
	}
	if in.Motivation == "" {
		return models.VolunteerApplication{}, invalid("motivation", "motivation is required")
	}

	apps, err := s.List(ctx)
	if err != nil {
		return models.VolunteerApplication{}, err
	}

	in.ID = s.ids.NextString()
	in.Course = strings.TrimSpace(in.Course)
	in.Year = strings.TrimSpace(in.Year)
	in.Specialization = strings.TrimSpace(in.Specialization)
	in.AppliedAt = s.clock.Now().UTC().Format(time.RFC3339)

	apps = append(apps, in)
	if err := storage.SaveJSON(ctx, s.kv, storage.KeyVolunteerApps, apps); err != nil {
		return models.VolunteerApplication{}, err
	}
	return in, nil
}

func (s *VolunteerStore) List(ctx context.Context) ([]models.VolunteerApplication, error) {
	apps := []models.VolunteerApplication{}
	if _, err := storage.LoadJSON(ctx, s.kv, storage.KeyVolunteerApps, &apps); err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []models.VolunteerApplication{}
	}
	return apps, nil
}
