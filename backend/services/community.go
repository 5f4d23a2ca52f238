package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"mitra/backend/content"
	"mitra/backend/models"
	"mitra/backend/utils"
)

const (
	communityPostXP = 10
	communityVoteXP = 5
)

// BoardState is the session-only community state of one profile. It is never
// persisted and is seeded on first use.
type BoardState struct {
	once  sync.Once
	posts []models.CommunityPost
	votes map[string]models.VoteDirection
}

func (s *BoardState) init(catalog *content.Catalog) {
	s.once.Do(func() {
		s.posts = catalog.SeedPosts()
		s.votes = make(map[string]models.VoteDirection)
	})
}

// Score is the displayed score for a post given the viewer's vote.
func Score(post models.CommunityPost, vote models.VoteDirection) int {
	score := post.Upvotes - post.Downvotes
	switch vote {
	case models.VoteUp:
		score++
	case models.VoteDown:
		score--
	}
	return score
}

// CommunityBoard serves posts and votes. Callers serialize access per profile.
type CommunityBoard struct {
	state   *BoardState
	catalog *content.Catalog
	ids     *utils.IDGenerator
	ledger  *ProgressLedger
	// retractAwardsXP keeps xp on vote removal.
	retractAwardsXP bool
}

func NewCommunityBoard(state *BoardState, catalog *content.Catalog, ids *utils.IDGenerator, ledger *ProgressLedger, retractAwardsXP bool) *CommunityBoard {
	state.init(catalog)
	return &CommunityBoard{
		state:           state,
		catalog:         catalog,
		ids:             ids,
		ledger:          ledger,
		retractAwardsXP: retractAwardsXP,
	}
}

func (b *CommunityBoard) Categories() []models.Category {
	return append([]models.Category(nil), b.catalog.Categories...)
}

// Posts lists posts newest first. category "all" or "" means every category.
func (b *CommunityBoard) Posts(category string) ([]models.PostView, error) {
	category = strings.TrimSpace(category)
	if category != "" && category != "all" {
		if _, ok := b.catalog.Category(category); !ok {
			return nil, invalid("category", fmt.Sprintf("unknown category %q", category))
		}
	}

	views := make([]models.PostView, 0, len(b.state.posts))
	for _, p := range b.state.posts {
		if category != "" && category != "all" && p.Category != category {
			continue
		}
		views = append(views, b.view(p))
	}
	return views, nil
}

// CreatePost prepends a post by the viewer.
func (b *CommunityBoard) CreatePost(ctx context.Context, in models.PostInput) (models.PostView, *models.Reward, error) {
	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Content)
	category := strings.TrimSpace(in.Category)

	switch {
	case title == "":
		return models.PostView{}, nil, invalid("title", "title is required")
	case body == "":
		return models.PostView{}, nil, invalid("content", "content is required")
	case category == "":
		return models.PostView{}, nil, invalid("category", "category is required")
	}
	if _, ok := b.catalog.Category(category); !ok {
		return models.PostView{}, nil, invalid("category", fmt.Sprintf("unknown category %q", category))
	}

	post := models.CommunityPost{
		ID:       b.ids.NextString(),
		Title:    title,
		Content:  body,
		Author:   "You",
		Category: category,
		TimeAgo:  "Just now",
		Tags:     ParseTags(in.Tags),
	}
	b.state.posts = append([]models.CommunityPost{post}, b.state.posts...)

	reward, err := b.ledger.AddXP(ctx, communityPostXP, models.ActivityCommunityPost)
	if err != nil {
		return b.view(post), nil, err
	}
	return b.view(post), &reward, nil
}

// Vote toggles the viewer's vote. Voting the current direction again clears
// it. The base counters never change.
func (b *CommunityBoard) Vote(ctx context.Context, postID string, dir models.VoteDirection) (models.PostView, *models.Reward, error) {
	if dir != models.VoteUp && dir != models.VoteDown {
		return models.PostView{}, nil, invalid("direction", "direction must be up or down")
	}

	post, ok := b.find(postID)
	if !ok {
		return models.PostView{}, nil, fmt.Errorf("%w: %s", ErrPostNotFound, postID)
	}

	// post.ID outlives the request; postID may alias a request buffer.
	next := dir
	if b.state.votes[post.ID] == dir {
		next = models.VoteNone
	}
	if next == models.VoteNone {
		delete(b.state.votes, post.ID)
	} else {
		b.state.votes[post.ID] = next
	}

	view := b.view(post)
	if next == models.VoteNone && !b.retractAwardsXP {
		return view, nil, nil
	}
	reward, err := b.ledger.AddXP(ctx, communityVoteXP, models.ActivityCommunityVote)
	if err != nil {
		return view, nil, err
	}
	return view, &reward, nil
}

func (b *CommunityBoard) find(id string) (models.CommunityPost, bool) {
	for _, p := range b.state.posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.CommunityPost{}, false
}

func (b *CommunityBoard) view(p models.CommunityPost) models.PostView {
	vote := b.state.votes[p.ID]
	return models.PostView{CommunityPost: p, Score: Score(p, vote), MyVote: vote}
}
