package services

import (
	"context"
	"strings"

	"mitra/backend/models"
	"mitra/backend/storage"
	"mitra/backend/utils"
)

const untitledEntry = "Untitled Entry"

// JournalConfig replaces the per-screen differences of the journal.
type JournalConfig struct {
	XPPerEntry int
}

var DefaultJournalConfig = JournalConfig{XPPerEntry: 15}

// ParseTags splits comma separated input into trimmed, unique tags in input order.
func ParseTags(raw string) []string {
	tags := []string{}
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// JournalStore keeps entries newest first.
type JournalStore struct {
	kv     storage.KV
	clock  Clock
	ids    *utils.IDGenerator
	ledger *ProgressLedger
	cfg    JournalConfig
}

func NewJournalStore(kv storage.KV, clock Clock, ids *utils.IDGenerator, ledger *ProgressLedger, cfg JournalConfig) *JournalStore {
	return &JournalStore{kv: kv, clock: clock, ids: ids, ledger: ledger, cfg: cfg}
}

// AddEntry stores a new entry in front of the list. Blank content is
// ignored: nothing is written and the entry is nil.
func (j *JournalStore) AddEntry(ctx context.Context, title, content, tags string) (*models.JournalEntry, *models.Reward, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil, nil
	}

	entries, err := j.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = untitledEntry
	}
	now := j.clock.Now()
	entry := models.JournalEntry{
		ID:      j.ids.NextString(),
		Title:   title,
		Content: content,
		Tags:    ParseTags(tags),
		Date:    now.Format(DayLayout),
		Time:    now.Format("03:04 PM"),
	}

	entries = append([]models.JournalEntry{entry}, entries...)
	if err := storage.SaveJSON(ctx, j.kv, storage.KeyJournalEntries, entries); err != nil {
		return nil, nil, err
	}

	if j.cfg.XPPerEntry <= 0 {
		return &entry, nil, nil
	}
	reward, err := j.ledger.AddXP(ctx, j.cfg.XPPerEntry, models.ActivityJournalEntry)
	if err != nil {
		return &entry, nil, err
	}
	return &entry, &reward, nil
}

// ListEntries returns entries newest first. A non-empty tag keeps only
// entries carrying it, compared case-insensitively.
func (j *JournalStore) ListEntries(ctx context.Context, tag string) ([]models.JournalEntry, error) {
	entries, err := j.load(ctx)
	if err != nil {
		return nil, err
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return entries, nil
	}

	filtered := make([]models.JournalEntry, 0, len(entries))
	for _, e := range entries {
		for _, t := range e.Tags {
			if strings.EqualFold(t, tag) {
				filtered = append(filtered, e)
				break
			}
		}
	}
	return filtered, nil
}

func (j *JournalStore) load(ctx context.Context) ([]models.JournalEntry, error) {
	entries := []models.JournalEntry{}
	if _, err := storage.LoadJSON(ctx, j.kv, storage.KeyJournalEntries, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	return entries, nil
}
