package services

import (
	"context"
	"sync"
	"time"

	"mitra/backend/config"
	"mitra/backend/content"
	"mitra/backend/models"
	"mitra/backend/storage"
	"mitra/backend/utils"

	"go.uber.org/zap"
)

// Options are the tunables of every profile.
type Options struct {
	Now             func() time.Time
	Location        *time.Location
	MoodXP          int
	Journal         JournalConfig
	RetractAwardsXP bool
	TypingDelay     time.Duration
}

// OptionsFromConfig maps the service configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Location:        cfg.Location(),
		MoodXP:          cfg.MoodXP,
		Journal:         DefaultJournalConfig,
		RetractAwardsXP: cfg.CommunityRetractAwardsXP,
		TypingDelay:     cfg.ChatTypingDelay,
	}
}

type profileSlot struct {
	mu    sync.Mutex
	board BoardState
}

// Registry hands out per-user profiles. Work on one profile is serialized,
// so every read-modify-write of the ledger runs alone.
type Registry struct {
	kv       storage.KV
	catalog  *content.Catalog
	ids      *utils.IDGenerator
	clock    Clock
	opts     Options
	log      *zap.SugaredLogger
	identity *IdentityStore

	mu    sync.Mutex
	slots map[string]*profileSlot
}

func NewRegistry(kv storage.KV, catalog *content.Catalog, opts Options, log *zap.SugaredLogger) *Registry {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	clock := NewClock(opts.Now, opts.Location)
	ids := utils.NewIDGenerator(opts.Now)
	return &Registry{
		kv:       kv,
		catalog:  catalog,
		ids:      ids,
		clock:    clock,
		opts:     opts,
		log:      log,
		identity: NewIdentityStore(kv, ids),
		slots:    make(map[string]*profileSlot),
	}
}

func (r *Registry) Identity() *IdentityStore { return r.identity }

func (r *Registry) Catalog() *content.Catalog { return r.catalog }

func (r *Registry) Options() Options { return r.opts }

// Degraded reports whether storage fell back to memory.
func (r *Registry) Degraded() bool { return storage.IsDegraded(r.kv) }

func (r *Registry) slot(userID string) *profileSlot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[userID]
	if !ok {
		s = &profileSlot{}
		r.slots[userID] = s
	}
	return s
}

// With runs fn with exclusive access to the profile of userID.
func (r *Registry) With(ctx context.Context, userID string, fn func(*Profile) error) error {
	s := r.slot(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(r.profile(userID, s))
}

// Profile is every store of one user over that user's namespace.
type Profile struct {
	UserID      string
	Ledger      *ProgressLedger
	Streak      *StreakTracker
	Mood        *MoodStore
	Journal     *JournalStore
	Community   *CommunityBoard
	Institution *InstitutionStore
	Volunteers  *VolunteerStore
	Preferences *PreferenceStore

	kv      storage.KV
	clock   Clock
	ids     *utils.IDGenerator
	catalog *content.Catalog
}

func (r *Registry) profile(userID string, s *profileSlot) *Profile {
	kv := storage.NewScoped(r.kv, userID)
	log := r.log.With("user", userID)

	streak := NewStreakTracker(kv, r.clock)
	ledger := NewProgressLedger(kv, r.clock, streak, r.catalog.Badges, log)

	return &Profile{
		UserID:      userID,
		Ledger:      ledger,
		Streak:      streak,
		Mood:        NewMoodStore(kv, r.clock, streak, ledger, r.opts.MoodXP),
		Journal:     NewJournalStore(kv, r.clock, r.ids, ledger, r.opts.Journal),
		Community:   NewCommunityBoard(&s.board, r.catalog, r.ids, ledger, r.opts.RetractAwardsXP),
		Institution: NewInstitutionStore(kv),
		Volunteers:  NewVolunteerStore(kv, r.clock, r.ids),
		Preferences: NewPreferenceStore(kv),
		kv:          kv,
		clock:       r.clock,
		ids:         r.ids,
		catalog:     r.catalog,
	}
}

// Tasks returns the task store for a variant. Gated variants need
// institution access.
func (p *Profile) Tasks(ctx context.Context, variant string) (*TaskStore, error) {
	cfg, err := TaskVariant(variant)
	if err != nil {
		return nil, err
	}
	if cfg.RequiresInstitution {
		access, err := p.Institution.Access(ctx)
		if err != nil {
			return nil, err
		}
		if !access.HasAccess {
			return nil, ErrInstitutionRequired
		}
	}
	return NewTaskStore(p.kv, p.clock, p.ids, p.Ledger, cfg), nil
}

// Chat returns the transcript store of persona. Mentor actions create
// planner tasks.
func (p *Profile) Chat(persona models.Persona) (*ChatStore, error) {
	var tasks *TaskStore
	if persona == models.PersonaMentor {
		tasks = NewTaskStore(p.kv, p.clock, p.ids, p.Ledger, PlannerTasks)
	}
	return NewChatStore(p.kv, persona, p.catalog, p.clock, p.ids, tasks)
}
