package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/abhisek/devpath/internal/llm"
	"github.com/abhisek/devpath/internal/progress"
	"github.com/abhisek/devpath/internal/roadmap"
	"github.com/abhisek/devpath/internal/store"
)

func TestMain(m *testing.M) {
	// genai pulls in cloud.google.com/go, whose opencensus worker starts at init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

const roadmapDoc = `{
	"goal": "Backend Go",
	"totalEstimatedDuration": "6 meses",
	"stages": [
		{"id": 1, "name": "Fundamentos", "description": "Base", "items": [
			{"name": "Go", "description": "Sintaxe", "estimatedDuration": "4 semanas", "importance": "Essencial"},
			{"name": "Git", "description": "Versionamento", "estimatedDuration": "1 semana", "importance": "Essencial"}
		]},
		{"id": 2, "name": "Serviços", "description": "APIs", "items": [
			{"name": "net/http", "description": "HTTP", "estimatedDuration": "3 semanas", "importance": "Importante"},
			{"name": "gRPC", "description": "RPC", "estimatedDuration": "2 semanas", "importance": "Diferencial"}
		]}
	]
}`

type stubGenerator struct {
	err   error
	calls int
}

func (g *stubGenerator) GenerateRoadmap(ctx context.Context, goal string) (*roadmap.Roadmap, error) {
	if g.err != nil {
		return nil, g.err
	}
	r, err := roadmap.Normalize([]byte(roadmapDoc))
	if err != nil {
		return nil, err
	}
	r.Goal = goal
	return r, nil
}

func (g *stubGenerator) GenerateChallenges(ctx context.Context, tech string) (*roadmap.ChallengeSet, error) {
	g.calls++
	return &roadmap.ChallengeSet{Projects: []roadmap.Project{
		{Name: "API de " + tech, Description: "CRUD completo", Level: "Intermediário"},
	}}, nil
}

func newTestServer(t *testing.T, gen progress.Generator, cfg Config) *httptest.Server {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	st, err := store.Open(dsn)
	require.NoError(t, err)

	svc := progress.NewService(st.ProgressRepo(), st.ChallengeCache(), gen, zap.NewNop())
	require.NoError(t, svc.Load(context.Background()))

	ts := httptest.NewServer(New(svc, cfg, zap.NewNop()).Handler())
	t.Cleanup(func() {
		ts.Close()
		st.Close()
	})
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func noThrottle() Config {
	cfg := DefaultConfig()
	cfg.GenerateRate = 0
	return cfg
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil, noThrottle())

	resp := do(t, ts, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "DevPath API está rodando", body["message"])
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, nil, noThrottle())

	resp := do(t, ts, http.MethodOptions, "/api/gerar-roadmap", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Content-Type")
}

func TestGenerateRoadmap(t *testing.T) {
	ts := newTestServer(t, &stubGenerator{}, noThrottle())

	resp := do(t, ts, http.MethodPost, "/api/gerar-roadmap", `{"goal":"Backend Go"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := decodeBody[roadmap.Roadmap](t, resp)
	assert.Equal(t, "Backend Go", r.Goal)
	assert.Equal(t, "6 meses", r.TotalEstimatedDuration)
	require.Len(t, r.Stages, 2)
	assert.False(t, r.Stages[0].Items[0].Completed)
}

func TestGenerateRoadmap_ReturnsNotifications(t *testing.T) {
	ts := newTestServer(t, &stubGenerator{}, noThrottle())

	resp := do(t, ts, http.MethodPost, "/api/gerar-roadmap", `{"goal":"Backend Go"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("X-Progress-Warning"))

	body := decodeBody[roadmapResponse](t, resp)
	require.NotNil(t, body.Roadmap)
	assert.Equal(t, "Backend Go", body.Goal)
	assert.Empty(t, body.Warning)
	xp := 0
	for _, n := range body.Notifications {
		xp += n.XP
	}
	assert.Len(t, body.Notifications, 2, "first roadmap unlock and level up")
	assert.Equal(t, 100, xp)
}

type failingRepo struct {
	store.ProgressRepo
}

func (failingRepo) SaveProgress(ctx context.Context, roadmap, profile []byte) error {
	return &store.Error{Op: "save", Key: store.KeyProfile, Err: errors.New("disk full")}
}

func TestGenerateRoadmap_SaveFailureIsReported(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	st, err := store.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := progress.NewService(failingRepo{st.ProgressRepo()}, st.ChallengeCache(), &stubGenerator{}, zap.NewNop())
	ts := httptest.NewServer(New(svc, noThrottle(), zap.NewNop()).Handler())
	t.Cleanup(ts.Close)

	resp := do(t, ts, http.MethodPost, "/api/gerar-roadmap", `{"goal":"Backend Go"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "save-failed", resp.Header.Get("X-Progress-Warning"))

	body := decodeBody[roadmapResponse](t, resp)
	require.NotNil(t, body.Roadmap)
	assert.Len(t, body.Stages, 2)
	assert.Equal(t, "progress could not be saved", body.Warning)

	// Later transitions surface the storage failure as an error.
	resp = do(t, ts, http.MethodPost, "/api/toggle", `{"stage":0,"item":0}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestGenerateRoadmap_ObjetivoAlias(t *testing.T) {
	ts := newTestServer(t, &stubGenerator{}, noThrottle())

	resp := do(t, ts, http.MethodPost, "/api/gerar-roadmap", `{"objetivo":"Frontend React"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Frontend React", decodeBody[roadmap.Roadmap](t, resp).Goal)
}

func TestGenerateRoadmap_Errors(t *testing.T) {
	tests := []struct {
		name   string
		gen    progress.Generator
		body   string
		status int
		reason string
	}{
		{name: "missing goal", gen: &stubGenerator{}, body: `{"goal":"  "}`, status: http.StatusBadRequest},
		{name: "malformed body", gen: &stubGenerator{}, body: `{`, status: http.StatusBadRequest},
		{name: "not configured", gen: nil, body: `{"goal":"Go"}`, status: http.StatusInternalServerError},
		{
			name: "provider failure",
			gen: &stubGenerator{err: &llm.ErrGenerationFailed{
				Attempts: 3,
				Err:      &llm.ErrAbnormalFinish{Reason: "MAX_TOKENS"},
			}},
			body:   `{"goal":"Go"}`,
			status: http.StatusBadGateway,
			reason: "abnormal_finish",
		},
		{
			name:   "timeout",
			gen:    &stubGenerator{err: fmt.Errorf("generate: %w", context.DeadlineExceeded)},
			body:   `{"goal":"Go"}`,
			status: http.StatusGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.gen, noThrottle())

			resp := do(t, ts, http.MethodPost, "/api/gerar-roadmap", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			body := decodeBody[errorBody](t, resp)
			assert.NotEmpty(t, body.Error)
			assert.NotEmpty(t, body.Details)
			assert.Equal(t, tt.reason, body.Reason)
		})
	}
}

func TestToggleFlow(t *testing.T) {
	ts := newTestServer(t, &stubGenerator{}, noThrottle())

	resp := do(t, ts, http.MethodPost, "/api/toggle", `{"stage":0,"item":0}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "no roadmap yet")

	resp = do(t, ts, http.MethodPost, "/api/gerar-roadmap", `{"goal":"Go"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, ts, http.MethodPost, "/api/toggle", `{"stage":0,"item":0}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decodeBody[stateResponse](t, resp)
	assert.True(t, state.Roadmap.Stages[0].Items[0].Completed)
	assert.Equal(t, 25, state.Snapshot.Percentage)
	assert.Equal(t, 100+20+50, state.Profile.XP)
	require.NotEmpty(t, state.Notifications)
	assert.Equal(t, "Hello World", state.Notifications[0].Title)

	resp = do(t, ts, http.MethodPost, "/api/toggle", `{"stage":5,"item":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, ts, http.MethodPost, "/api/toggle", `{"item":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "stage is required", decodeBody[errorBody](t, resp).Details)
}

func TestChallengesCacheHeader(t *testing.T) {
	gen := &stubGenerator{}
	ts := newTestServer(t, gen, noThrottle())

	resp := do(t, ts, http.MethodPost, "/api/gerar-desafios", `{"techName":"Go"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "miss", resp.Header.Get("X-Cache"))
	cs := decodeBody[roadmap.ChallengeSet](t, resp)
	require.Len(t, cs.Projects, 1)
	assert.Equal(t, "API de Go", cs.Projects[0].Name)

	resp = do(t, ts, http.MethodPost, "/api/gerar-desafios", `{"techName":"go"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hit", resp.Header.Get("X-Cache"))
	assert.Equal(t, 1, gen.calls)

	resp = do(t, ts, http.MethodPost, "/api/gerar-desafios", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerationRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GenerateRate = rate.Every(time.Hour)
	cfg.GenerateBurst = 1
	ts := newTestServer(t, &stubGenerator{}, cfg)

	resp := do(t, ts, http.MethodPost, "/api/gerar-desafios", `{"techName":"Rust"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, ts, http.MethodPost, "/api/gerar-roadmap", `{"goal":"Rust"}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// Non-generation routes are not throttled.
	resp = do(t, ts, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEstimate(t *testing.T) {
	ts := newTestServer(t, &stubGenerator{}, noThrottle())

	resp := do(t, ts, http.MethodGet, "/api/estimate?hours=15", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	do(t, ts, http.MethodPost, "/api/gerar-roadmap", `{"goal":"Go"}`)

	resp = do(t, ts, http.MethodGet, "/api/estimate?hours=15", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	est := decodeBody[roadmap.Estimate](t, resp)
	assert.Equal(t, 24, est.Weeks)
	assert.Equal(t, 15, est.HoursPerWeek)

	resp = do(t, ts, http.MethodGet, "/api/estimate?hours=30", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 12, decodeBody[roadmap.Estimate](t, resp).Weeks)
}

func TestAchievementsAndReset(t *testing.T) {
	ts := newTestServer(t, &stubGenerator{}, noThrottle())

	do(t, ts, http.MethodPost, "/api/gerar-roadmap", `{"goal":"Go"}`)

	resp := do(t, ts, http.MethodGet, "/api/achievements", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]achievementJSON](t, resp)
	require.Len(t, list, len(progress.Catalog()))
	for _, a := range list {
		assert.Equal(t, a.ID == progress.AchFirstRoadmap, a.Unlocked, a.ID)
	}

	resp = do(t, ts, http.MethodPost, "/api/reset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decodeBody[stateResponse](t, resp)
	assert.Nil(t, state.Roadmap)
	assert.Equal(t, 100, state.Profile.XP, "profile survives a roadmap reset")

	resp = do(t, ts, http.MethodPost, "/api/reset", `{"all":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decodeBody[stateResponse](t, resp)
	assert.Zero(t, state.Profile.XP)
	assert.Empty(t, state.Profile.UnlockedAchievements)
}

func TestCheckIn(t *testing.T) {
	ts := newTestServer(t, nil, noThrottle())

	resp := do(t, ts, http.MethodPost, "/api/checkin", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decodeBody[stateResponse](t, resp)
	assert.Equal(t, 1, state.Profile.Streak)
	assert.False(t, state.Snapshot.HasRoadmap)
}

func TestListenAndServeShutsDown(t *testing.T) {
	cfg := noThrottle()
	cfg.Addr = "127.0.0.1:0"
	srv := New(nil, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.False(t, err != nil && !errors.Is(err, http.ErrServerClosed), "unexpected error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
