package services

import (
	"context"
	"testing"

	"mitra/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardSeeds(t *testing.T) {
	env := newTestEnv(t)
	env.profile(t, func(ctx context.Context, p *Profile) {
		posts, err := p.Community.Posts("all")
		require.NoError(t, err)
		require.Len(t, posts, 5)
		assert.Equal(t, "1", posts[0].ID)
		assert.Equal(t, 32, posts[0].Score)
		assert.Equal(t, models.VoteNone, posts[0].MyVote)

		stress, err := p.Community.Posts("stress")
		require.NoError(t, err)
		require.Len(t, stress, 2)
		for _, post := range stress {
			assert.Equal(t, "stress", post.Category)
		}

		_, err = p.Community.Posts("gossip")
		_, ok := AsValidation(err)
		assert.True(t, ok)

		assert.Len(t, p.Community.Categories(), 4)
	})
}

func TestVoteIsTriState(t *testing.T) {
	env := newTestEnv(t)
	env.profile(t, func(ctx context.Context, p *Profile) {
		steps := []struct {
			dir   models.VoteDirection
			score int
			mine  models.VoteDirection
		}{
			{models.VoteUp, 33, models.VoteUp},
			{models.VoteUp, 32, models.VoteNone},
			{models.VoteDown, 31, models.VoteDown},
			{models.VoteUp, 33, models.VoteUp},
			{models.VoteDown, 31, models.VoteDown},
			{models.VoteDown, 32, models.VoteNone},
		}
		for i, step := range steps {
			view, reward, err := p.Community.Vote(ctx, "1", step.dir)
			require.NoError(t, err, "step %d", i)
			assert.Equal(t, step.score, view.Score, "step %d", i)
			assert.Equal(t, step.mine, view.MyVote, "step %d", i)
			assert.Equal(t, 34, view.Upvotes, "base counters are fixed")
			require.NotNil(t, reward)
			assert.Equal(t, 5, reward.XPGained)
		}

		stats, _ := p.Ledger.Stats(ctx)
		assert.Equal(t, 30, stats.XP)
		assert.Zero(t, stats.CommunityPosts)
	})
}

func TestVoteStateSurvivesAcrossCalls(t *testing.T) {
	env := newTestEnv(t)
	env.profile(t, func(ctx context.Context, p *Profile) {
		_, _, err := p.Community.Vote(ctx, "4", models.VoteDown)
		require.NoError(t, err)
	})
	env.profile(t, func(ctx context.Context, p *Profile) {
		posts, err := p.Community.Posts("relaxation")
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, models.VoteDown, posts[0].MyVote)
		assert.Equal(t, 71, posts[0].Score)
	})
}

func TestRetractWithoutXP(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.RetractAwardsXP = false })
	env.profile(t, func(ctx context.Context, p *Profile) {
		_, reward, err := p.Community.Vote(ctx, "2", models.VoteUp)
		require.NoError(t, err)
		require.NotNil(t, reward)

		_, reward, err = p.Community.Vote(ctx, "2", models.VoteUp)
		require.NoError(t, err)
		assert.Nil(t, reward)

		stats, _ := p.Ledger.Stats(ctx)
		assert.Equal(t, 5, stats.XP)
	})
}

func TestVoteErrors(t *testing.T) {
	env := newTestEnv(t)
	env.profile(t, func(ctx context.Context, p *Profile) {
		_, _, err := p.Community.Vote(ctx, "999", models.VoteUp)
		assert.ErrorIs(t, err, ErrPostNotFound)
		assert.True(t, IsNotFound(err))

		_, _, err = p.Community.Vote(ctx, "1", "sideways")
		verr, ok := AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "direction", verr.Field)
	})
}

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	env.profile(t, func(ctx context.Context, p *Profile) {
		view, reward, err := p.Community.CreatePost(ctx, models.PostInput{
			Title:    "Study group for finals",
			Content:  "Anyone up for a quiet library session?",
			Category: "exams",
			Tags:     "finals, group",
		})
		require.NoError(t, err)
		assert.Equal(t, "You", view.Author)
		assert.Equal(t, "Just now", view.TimeAgo)
		assert.Equal(t, []string{"finals", "group"}, view.Tags)
		assert.Zero(t, view.Score)
		require.NotNil(t, reward)
		assert.Equal(t, 10, reward.XPGained)

		posts, err := p.Community.Posts("")
		require.NoError(t, err)
		require.Len(t, posts, 6)
		assert.Equal(t, view.ID, posts[0].ID)

		_, _, err = p.Community.Vote(ctx, view.ID, models.VoteUp)
		require.NoError(t, err)

		stats, _ := p.Ledger.Stats(ctx)
		assert.Equal(t, 1, stats.CommunityPosts)
		assert.Equal(t, 15, stats.XP)
	})
}

func TestCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)
	env.profile(t, func(ctx context.Context, p *Profile) {
		cases := map[string]models.PostInput{
			"title":    {Content: "c", Category: "stress"},
			"content":  {Title: "t", Content: " ", Category: "stress"},
			"category": {Title: "t", Content: "c", Category: "memes"},
		}
		for field, in := range cases {
			_, reward, err := p.Community.CreatePost(ctx, in)
			verr, ok := AsValidation(err)
			require.True(t, ok, field)
			assert.Equal(t, field, verr.Field)
			assert.Nil(t, reward)
		}

		posts, err := p.Community.Posts("all")
		require.NoError(t, err)
		assert.Len(t, posts, 5)
	})
}
