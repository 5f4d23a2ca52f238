package content

import (
	"testing"

	"mitra/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	ids := make([]string, 0, len(c.Badges))
	for _, b := range c.Badges {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"first_mood", "streak_7", "journal_master", "academic_achiever", "community_helper"}, ids)

	assert.Len(t, c.Categories, 4)
	assert.Len(t, c.Posts, 5)
	assert.Len(t, c.Institutions, 6)

	first := c.Posts[0]
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, 34, first.Upvotes)
	assert.Equal(t, []string{"breathing", "anxiety", "finals"}, first.Tags)
}

func TestAssistantScripts(t *testing.T) {
	c := MustLoad()

	personality := c.Assistants[models.PersonaPersonality]
	assert.Contains(t, personality.Greeting, "Personality AI companion")
	assert.NotEmpty(t, personality.Fallback)
	require.Len(t, personality.Rules, 6)
	assert.Equal(t, "stress", personality.Rules[0].ID)
	assert.Contains(t, personality.Rules[0].Reply, "\n\n• Try the 4-7-8 breathing")

	mentor := c.Assistants[models.PersonaMentor]
	assert.Equal(t, "doubt", mentor.FallbackRule)
	action, ok := mentor.Action("study-plan-tasks")
	require.True(t, ok)
	assert.Len(t, action.Tasks, 3)
}

func TestSeedPostsAreCopies(t *testing.T) {
	c := MustLoad()

	posts := c.SeedPosts()
	posts[0].Tags[0] = "changed"
	posts[0].Upvotes = 0

	again := c.SeedPosts()
	assert.Equal(t, "breathing", again[0].Tags[0])
	assert.Equal(t, 34, again[0].Upvotes)
}

func TestCategoryLookup(t *testing.T) {
	c := MustLoad()

	cat, ok := c.Category("relaxation")
	assert.True(t, ok)
	assert.Equal(t, "Relaxation & Wellness", cat.Label)

	_, ok = c.Category("all")
	assert.False(t, ok)
}
