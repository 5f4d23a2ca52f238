package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"mitra/backend/config"
	"mitra/backend/content"
	"mitra/backend/middleware"
	"mitra/backend/services"
	"mitra/backend/storage"
	"mitra/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	app *fiber.App
	cfg *config.Config
}

func setup(t *testing.T, kv storage.KV, tweak ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := &config.Config{
		Environment:              "test",
		StorageDriver:            config.DriverMemory,
		JWTSecret:                "testsecret",
		TokenTTL:                 time.Hour,
		Timezone:                 time.UTC,
		MoodXP:                   10,
		CommunityRetractAwardsXP: true,
	}
	for _, fn := range tweak {
		fn(cfg)
	}

	catalog, err := content.Load()
	require.NoError(t, err)

	registry := services.NewRegistry(kv, catalog, services.OptionsFromConfig(cfg), utils.NopLogger())
	return &testServer{app: NewApp(registry, cfg, utils.NopLogger()), cfg: cfg}
}

// call sends a request and decodes the envelope's data into out when given.
func (s *testServer) call(t *testing.T, method, path, token string, body interface{}, out interface{}) *fiberResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if out != nil && len(raw) > 0 {
		envelope := struct {
			Data json.RawMessage `json:"data"`
		}{}
		require.NoError(t, json.Unmarshal(raw, &envelope), string(raw))
		require.NoError(t, json.Unmarshal(envelope.Data, out), string(raw))
	}
	return &fiberResponse{Status: resp.StatusCode, Header: resp.Header.Get, Body: raw}
}

type fiberResponse struct {
	Status int
	Header func(string) string
	Body   []byte
}

func (s *testServer) signIn(t *testing.T) string {
	t.Helper()
	var session struct {
		Token string `json:"token"`
	}
	resp := s.call(t, fiber.MethodPost, "/api/auth/signin", "", fiber.Map{"email": "asha@college.edu", "password": "x"}, &session)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestHealthz(t *testing.T) {
	s := setup(t, storage.NewMemoryStore())

	resp := s.call(t, fiber.MethodGet, "/healthz", "", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
	assert.NotEmpty(t, resp.Header(middleware.RequestIDHeader))
	assert.Empty(t, resp.Header(middleware.DegradedHeader))
}

func TestAuthFlow(t *testing.T) {
	s := setup(t, storage.NewMemoryStore())

	resp := s.call(t, fiber.MethodGet, "/api/progress", "", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)

	resp = s.call(t, fiber.MethodGet, "/api/progress", "not-a-token", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)

	resp = s.call(t, fiber.MethodPost, "/api/auth/signin", "", fiber.Map{"email": "nope"}, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.Status)

	token := s.signIn(t)

	var me struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	resp = s.call(t, fiber.MethodGet, "/api/auth/me", token, nil, &me)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, "1", me.ID)
	assert.Equal(t, "asha", me.Name)

	resp = s.call(t, fiber.MethodPost, "/api/auth/signout", token, nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)

	resp = s.call(t, fiber.MethodGet, "/api/auth/me", token, nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status, "a signed out token is refused")
}

func TestMoodAndProgress(t *testing.T) {
	s := setup(t, storage.NewMemoryStore())
	token := s.signIn(t)

	resp := s.call(t, fiber.MethodPost, "/api/mood", token, fiber.Map{"value": 150}, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.Status)

	resp = s.call(t, fiber.MethodPost, "/api/mood", token, fiber.Map{}, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.Status)

	var recorded struct {
		Mood struct {
			Label string `json:"label"`
		} `json:"mood"`
		Reward *struct {
			XPGained int `json:"xpGained"`
		} `json:"reward"`
	}
	resp = s.call(t, fiber.MethodPost, "/api/mood", token, fiber.Map{"value": 85}, &recorded)
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))
	assert.Equal(t, "Excellent", recorded.Mood.Label)
	require.NotNil(t, recorded.Reward)
	assert.Equal(t, 10, recorded.Reward.XPGained)

	var today struct {
		Submitted bool `json:"submitted"`
	}
	s.call(t, fiber.MethodGet, "/api/mood/today", token, nil, &today)
	assert.True(t, today.Submitted)

	var overview struct {
		Stats struct {
			XP     int `json:"xp"`
			Streak int `json:"streak"`
		} `json:"stats"`
		Badges []struct {
			ID       string `json:"id"`
			Unlocked bool   `json:"unlocked"`
		} `json:"badges"`
	}
	resp = s.call(t, fiber.MethodGet, "/api/progress", token, nil, &overview)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, 10, overview.Stats.XP)
	assert.Equal(t, 1, overview.Stats.Streak)
	assert.Len(t, overview.Badges, 5)

	resp = s.call(t, fiber.MethodDelete, "/api/mood/today", token, nil, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.Status)
	s.call(t, fiber.MethodGet, "/api/mood/today", token, nil, &today)
	assert.False(t, today.Submitted)
}

func TestJournalEndpoints(t *testing.T) {
	s := setup(t, storage.NewMemoryStore())
	token := s.signIn(t)

	resp := s.call(t, fiber.MethodPost, "/api/journal", token, fiber.Map{"content": "   "}, nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)

	resp = s.call(t, fiber.MethodPost, "/api/journal", token, fiber.Map{"title": "Day 1", "content": "calm", "tags": "calm, sleep"}, nil)
	assert.Equal(t, fiber.StatusCreated, resp.Status)

	var entries []struct {
		Title string   `json:"title"`
		Tags  []string `json:"tags"`
	}
	s.call(t, fiber.MethodGet, "/api/journal?tag=SLEEP", token, nil, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "Day 1", entries[0].Title)
}

func TestTaskEndpoints(t *testing.T) {
	s := setup(t, storage.NewMemoryStore())
	token := s.signIn(t)

	resp := s.call(t, fiber.MethodGet, "/api/tasks?variant=dashboard", token, nil, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.Status)

	resp = s.call(t, fiber.MethodGet, "/api/tasks?variant=kanban", token, nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)

	resp = s.call(t, fiber.MethodPost, "/api/institution", token, fiber.Map{"institution": "iit-delhi", "passkey": "abc12"}, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.Status)

	resp = s.call(t, fiber.MethodPost, "/api/institution", token, fiber.Map{"institution": "hogwarts", "passkey": "12345"}, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.Status)

	resp = s.call(t, fiber.MethodPost, "/api/institution", token, fiber.Map{"institution": "iit-delhi", "passkey": "12345"}, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)

	var check struct {
		Valid bool `json:"valid"`
	}
	s.call(t, fiber.MethodPost, "/api/institution/verify", token, fiber.Map{"passkey": "12345"}, &check)
	assert.True(t, check.Valid)
	s.call(t, fiber.MethodPost, "/api/institution/verify", token, fiber.Map{"passkey": "54321"}, &check)
	assert.False(t, check.Valid)

	resp = s.call(t, fiber.MethodPost, "/api/tasks?variant=dashboard", token, fiber.Map{"title": "Lab"}, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.Status)

	var created struct {
		Task struct {
			ID string `json:"id"`
		} `json:"task"`
		Reward *struct {
			XPGained int `json:"xpGained"`
		} `json:"reward"`
	}
	resp = s.call(t, fiber.MethodPost, "/api/tasks?variant=dashboard", token, fiber.Map{"title": "Lab", "dueDate": "2099-01-01"}, &created)
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))
	require.NotNil(t, created.Reward)
	assert.Equal(t, 10, created.Reward.XPGained)

	var toggled struct {
		Task struct {
			Completed bool `json:"completed"`
		} `json:"task"`
	}
	resp = s.call(t, fiber.MethodPost, "/api/tasks/"+created.Task.ID+"/toggle", token, nil, &toggled)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.True(t, toggled.Task.Completed)

	var pending []json.RawMessage
	s.call(t, fiber.MethodGet, "/api/tasks?view=pending", token, nil, &pending)
	assert.Empty(t, pending)

	resp = s.call(t, fiber.MethodDelete, "/api/tasks/"+created.Task.ID, token, nil, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.Status)

	resp = s.call(t, fiber.MethodDelete, "/api/tasks/"+created.Task.ID, token, nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
}

func TestCommunityEndpoints(t *testing.T) {
	s := setup(t, storage.NewMemoryStore())
	token := s.signIn(t)

	var categories []json.RawMessage
	resp := s.call(t, fiber.MethodGet, "/api/community/categories", "", nil, &categories)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Len(t, categories, 4)

	var voted struct {
		Post struct {
			Score  int    `json:"score"`
			MyVote string `json:"myVote"`
		} `json:"post"`
	}
	resp = s.call(t, fiber.MethodPost, "/api/community/posts/1/vote", token, fiber.Map{"direction": "up"}, &voted)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, 33, voted.Post.Score)
	assert.Equal(t, "up", voted.Post.MyVote)

	resp = s.call(t, fiber.MethodPost, "/api/community/posts/404/vote", token, fiber.Map{"direction": "up"}, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)

	resp = s.call(t, fiber.MethodPost, "/api/community/posts", token, fiber.Map{"title": "Hi", "content": "hello", "category": "stress"}, nil)
	assert.Equal(t, fiber.StatusCreated, resp.Status)

	var posts []json.RawMessage
	s.call(t, fiber.MethodGet, "/api/community/posts?category=stress", token, nil, &posts)
	assert.Len(t, posts, 3)
}

func TestVotesStayOnTheirPostsAcrossRequests(t *testing.T) {
	s := setup(t, storage.NewMemoryStore())
	token := s.signIn(t)

	resp := s.call(t, fiber.MethodPost, "/api/community/posts/1/vote", token, fiber.Map{"direction": "up"}, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	resp = s.call(t, fiber.MethodPost, "/api/community/posts/2/vote", token, fiber.Map{"direction": "down"}, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)

	// more traffic over the same path shape
	s.call(t, fiber.MethodGet, "/api/community/posts/3/vote", token, nil, nil)
	s.call(t, fiber.MethodPost, "/api/community/posts/9/vote", token, fiber.Map{"direction": "up"}, nil)

	var posts []struct {
		ID     string `json:"id"`
		MyVote string `json:"myVote"`
	}
	resp = s.call(t, fiber.MethodGet, "/api/community/posts", token, nil, &posts)
	require.Equal(t, fiber.StatusOK, resp.Status)

	votes := map[string]string{}
	for _, p := range posts {
		if p.MyVote != "" {
			votes[p.ID] = p.MyVote
		}
	}
	assert.Equal(t, map[string]string{"1": "up", "2": "down"}, votes)
}

func TestChatEndpoints(t *testing.T) {
	s := setup(t, storage.NewMemoryStore())
	token := s.signIn(t)

	var exchange struct {
		Reply struct {
			Sender string `json:"sender"`
			Action *struct {
				ID string `json:"id"`
			} `json:"action"`
		} `json:"reply"`
	}
	resp := s.call(t, fiber.MethodPost, "/api/chat/mentor", token, fiber.Map{"text": "plan my syllabus"}, &exchange)
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))
	assert.Equal(t, "bot", exchange.Reply.Sender)
	require.NotNil(t, exchange.Reply.Action)

	var applied struct {
		Tasks []json.RawMessage `json:"tasks"`
	}
	resp = s.call(t, fiber.MethodPost, "/api/chat/mentor/actions/"+exchange.Reply.Action.ID, token, nil, &applied)
	require.Equal(t, fiber.StatusCreated, resp.Status)
	assert.Len(t, applied.Tasks, 2)

	var transcript []json.RawMessage
	s.call(t, fiber.MethodGet, "/api/chat/mentor", token, nil, &transcript)
	assert.Len(t, transcript, 4)

	resp = s.call(t, fiber.MethodGet, "/api/chat/coach", token, nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
}

func TestChatReplyDroppedWhenRequestTimesOut(t *testing.T) {
	s := setup(t, storage.NewMemoryStore(), func(cfg *config.Config) {
		cfg.RequestTimeout = 50 * time.Millisecond
		cfg.ChatTypingDelay = time.Hour
	})
	token := s.signIn(t)

	resp := s.call(t, fiber.MethodPost, "/api/chat/personality", token, fiber.Map{"text": "so tired"}, nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.Status, string(resp.Body))

	var transcript []struct {
		Sender string `json:"sender"`
		Text   string `json:"text"`
	}
	resp = s.call(t, fiber.MethodGet, "/api/chat/personality", token, nil, &transcript)
	require.Equal(t, fiber.StatusOK, resp.Status)
	require.Len(t, transcript, 2, "greeting and the user message only")
	assert.Equal(t, "user", transcript[1].Sender)
	assert.Equal(t, "so tired", transcript[1].Text)
}

func TestOverview(t *testing.T) {
	s := setup(t, storage.NewMemoryStore())
	token := s.signIn(t)

	for _, title := range []string{"later", "sooner", "undated"} {
		due := map[string]string{"later": "2099-05-01", "sooner": "2099-01-01"}[title]
		resp := s.call(t, fiber.MethodPost, "/api/tasks", token, fiber.Map{"title": title, "dueDate": due}, nil)
		require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))
	}

	var overview struct {
		TodaysMood  *json.RawMessage `json:"todaysMood"`
		ActiveTasks []struct {
			Title string `json:"title"`
		} `json:"activeTasks"`
		Recommendations []struct {
			ID string `json:"id"`
		} `json:"recommendations"`
	}
	resp := s.call(t, fiber.MethodGet, "/api/overview", token, nil, &overview)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	assert.Nil(t, overview.TodaysMood)
	require.Len(t, overview.ActiveTasks, 3)
	assert.Equal(t, "sooner", overview.ActiveTasks[0].Title)
	assert.Equal(t, "undated", overview.ActiveTasks[2].Title)
	require.Len(t, overview.Recommendations, 2)
	assert.Equal(t, "4", overview.Recommendations[0].ID)
}

func TestPreferencesAndVolunteers(t *testing.T) {
	s := setup(t, storage.NewMemoryStore())
	token := s.signIn(t)

	var prefs struct {
		Theme             string `json:"theme"`
		AccessibilityMode bool   `json:"accessibilityMode"`
	}
	resp := s.call(t, fiber.MethodPut, "/api/preferences", token, fiber.Map{"theme": "dark"}, &prefs)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, "dark", prefs.Theme)
	assert.False(t, prefs.AccessibilityMode)

	resp = s.call(t, fiber.MethodPost, "/api/volunteers/applications", token, fiber.Map{"name": "Asha"}, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.Status)

	resp = s.call(t, fiber.MethodPost, "/api/volunteers/applications", token, fiber.Map{"name": "Asha", "motivation": "to help"}, nil)
	assert.Equal(t, fiber.StatusCreated, resp.Status)

	var apps []json.RawMessage
	s.call(t, fiber.MethodGet, "/api/volunteers/applications", token, nil, &apps)
	assert.Len(t, apps, 1)
}

type brokenKV struct{}

var errBroken = errors.New("connection refused")

func (brokenKV) Get(context.Context, string) (string, bool, error) { return "", false, errBroken }

func (brokenKV) Set(context.Context, string, string) error { return errBroken }

func (brokenKV) Remove(context.Context, string) error { return errBroken }

func (brokenKV) Keys(context.Context, string) ([]string, error) { return nil, errBroken }

func TestDegradedStorageHeader(t *testing.T) {
	s := setup(t, storage.NewFallback(brokenKV{}, nil))

	token := s.signIn(t)
	resp := s.call(t, fiber.MethodPost, "/api/mood", token, fiber.Map{"value": 40}, nil)
	assert.Equal(t, fiber.StatusCreated, resp.Status, "the app keeps working from memory")
	assert.Equal(t, "true", resp.Header(middleware.DegradedHeader))
}
