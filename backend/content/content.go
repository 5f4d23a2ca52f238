// Package content holds the static tables shipped with the binary: badge
// definitions, assistant scripts, community seed data and the institution
// directory.
package content

import (
	"embed"
	"fmt"
	"sync"

	"mitra/backend/models"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var files embed.FS

type BadgeDefinition struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Color       string `yaml:"color"`
	Requirement int    `yaml:"requirement"`
}

// Badge returns a fresh, locked badge for the definition.
func (d BadgeDefinition) Badge() models.Badge {
	return models.Badge{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Icon:        d.Icon,
		Color:       d.Color,
		Requirement: d.Requirement,
	}
}

type Rule struct {
	ID       string   `yaml:"id"`
	Keywords []string `yaml:"keywords"`
	Reply    string   `yaml:"reply"`
	Action   string   `yaml:"action"`
}

type Action struct {
	ID           string   `yaml:"id"`
	Label        string   `yaml:"label"`
	Tasks        []string `yaml:"tasks"`
	Confirmation string   `yaml:"confirmation"`
}

// Script drives one assistant persona.
type Script struct {
	Greeting string `yaml:"greeting"`
	// Fallback is the reply when no rule matches. FallbackRule names a rule
	// to use instead.
	Fallback     string   `yaml:"fallback"`
	FallbackRule string   `yaml:"fallback_rule"`
	Rules        []Rule   `yaml:"rules"`
	Actions      []Action `yaml:"actions"`
}

// Rule looks up a rule by id.
func (s Script) Rule(id string) (Rule, bool) {
	for _, r := range s.Rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Action looks up an action by id.
func (s Script) Action(id string) (Action, bool) {
	for _, a := range s.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// Catalog is the parsed content of data/.
type Catalog struct {
	Badges       []BadgeDefinition         `yaml:"badges"`
	Categories   []models.Category         `yaml:"categories"`
	Posts        []models.CommunityPost    `yaml:"posts"`
	Institutions []models.Institution      `yaml:"institutions"`
	Assistants   map[models.Persona]Script `yaml:"assistants"`
}

// Category reports whether id is a known community category.
func (c *Catalog) Category(id string) (models.Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return models.Category{}, false
}

// SeedPosts returns a copy of the seeded community posts.
func (c *Catalog) SeedPosts() []models.CommunityPost {
	out := make([]models.CommunityPost, len(c.Posts))
	for i, p := range c.Posts {
		p.Tags = append([]string(nil), p.Tags...)
		out[i] = p
	}
	return out
}

var (
	loadOnce sync.Once
	catalog  *Catalog
	loadErr  error
)

// Load parses the embedded tables once.
func Load() (*Catalog, error) {
	loadOnce.Do(func() {
		catalog, loadErr = parse()
	})
	return catalog, loadErr
}

// MustLoad panics if the embedded tables are broken.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func parse() (*Catalog, error) {
	entries, err := files.ReadDir("data")
	if err != nil {
		return nil, err
	}

	cat := &Catalog{}
	for _, e := range entries {
		data, err := files.ReadFile("data/" + e.Name())
		if err != nil {
			return nil, err
		}
		// each file fills its own top-level fields
		if err := yaml.Unmarshal(data, cat); err != nil {
			return nil, fmt.Errorf("content %s: %w", e.Name(), err)
		}
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Catalog) validate() error {
	if len(c.Badges) == 0 {
		return fmt.Errorf("content: no badges defined")
	}
	for _, p := range c.Posts {
		if _, ok := c.Category(p.Category); !ok {
			return fmt.Errorf("content: post %s has unknown category %q", p.ID, p.Category)
		}
	}
	for persona, s := range c.Assistants {
		if s.Greeting == "" {
			return fmt.Errorf("content: assistant %s has no greeting", persona)
		}
		if s.Fallback == "" && s.FallbackRule == "" {
			return fmt.Errorf("content: assistant %s has no fallback", persona)
		}
		if s.FallbackRule != "" {
			if _, ok := s.Rule(s.FallbackRule); !ok {
				return fmt.Errorf("content: assistant %s fallback rule %q missing", persona, s.FallbackRule)
			}
		}
		for _, r := range s.Rules {
			if r.Action == "" {
				continue
			}
			if _, ok := s.Action(r.Action); !ok {
				return fmt.Errorf("content: assistant %s rule %s references unknown action %q", persona, r.ID, r.Action)
			}
		}
	}
	return nil
}
