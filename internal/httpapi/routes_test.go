package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/lane-arena/internal/engine"
	"github.com/DoyleJ11/lane-arena/internal/game"
	"github.com/DoyleJ11/lane-arena/internal/hub"
	"github.com/DoyleJ11/lane-arena/internal/results"
	"github.com/DoyleJ11/lane-arena/internal/store"
	"github.com/DoyleJ11/lane-arena/internal/vision"
)

const roster = `{"id":"g1","roster":[
	{"playerId":"r1","displayName":"Alice","team":"radiant","heroId":"axe"},
	{"playerId":"d1","displayName":"Cara","team":"dire","heroId":"sniper"}]}`

func newRouter(t *testing.T, autoStart bool) (http.Handler, *results.MemoryStore) {
	t.Helper()
	h := hub.NewHub(context.Background(), engine.New(nil, nil), store.New(), hub.Config{})
	t.Cleanup(func() {
		select {
		case h.Inbox() <- hub.ShutdownHub{}:
		case <-h.Done():
		}
	})
	rs := results.NewMemoryStore()
	return SetupRoutes(Deps{Hub: h, Results: rs, AutoStart: autoStart}), rs
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h, _ := newRouter(t, false)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
}

func TestCreateGame(t *testing.T) {
	h, _ := newRouter(t, true)

	rec := do(t, h, http.MethodPost, "/games", roster)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp CreateGameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "g1", resp.ID)
	assert.True(t, resp.Started)

	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/games", roster).Code)
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/games/g1/start", "").Code)

	rec = do(t, h, http.MethodGet, "/games", "")
	assert.JSONEq(t, `{"games":["g1"]}`, rec.Body.String())
}

func TestCreateGame_GeneratesID(t *testing.T) {
	h, _ := newRouter(t, false)
	body := strings.Replace(roster, `"id":"g1",`, "", 1)

	rec := do(t, h, http.MethodPost, "/games", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp CreateGameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.ID, 6)
	assert.False(t, resp.Started)
}

func TestCreateGame_BadRequests(t *testing.T) {
	h, _ := newRouter(t, false)
	cases := []struct {
		name string
		body string
	}{
		{name: "not json", body: "{"},
		{name: "empty roster", body: `{"id":"g2","roster":[]}`},
		{name: "unknown hero", body: `{"id":"g3","roster":[{"playerId":"a","team":"radiant","heroId":"pudge"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/games", tc.body).Code)
		})
	}
}

func TestGameLifecycle(t *testing.T) {
	h, _ := newRouter(t, false)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/games", roster).Code)

	rec := do(t, h, http.MethodGet, "/games/g1/view?player=r1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var v vision.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, game.PhasePicking, v.Phase)
	assert.Equal(t, game.TeamRadiant, v.Team)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/games/g1/view?player=ghost", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodPost, "/games/g1/start", "").Code)

	rec = do(t, h, http.MethodGet, "/games/g1/view?player=d1", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, game.PhasePlaying, v.Phase)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/games/g1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/games/g1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/games/g1/view?player=r1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/games/g1/start", "").Code)
}

func TestGameResult(t *testing.T) {
	h, rs := newRouter(t, false)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/games/g1/result", "").Code)

	require.NoError(t, rs.Record(context.Background(), engine.Summary{GameID: "g1", Winner: game.TeamDire, Tick: 90}))
	rec := do(t, h, http.MethodGet, "/games/g1/result", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sum engine.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, game.TeamDire, sum.Winner)
}

func TestMapAndSchema(t *testing.T) {
	h, _ := newRouter(t, false)

	rec := do(t, h, http.MethodGet, "/map", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var zones []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &zones))
	assert.NotEmpty(t, zones)

	rec = do(t, h, http.MethodGet, "/schema", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"properties"`)
}

func TestStoppedHub_Unavailable(t *testing.T) {
	h := hub.NewHub(context.Background(), engine.New(nil, nil), store.New(), hub.Config{})
	reply := make(chan error, 1)
	h.Inbox() <- hub.ShutdownHub{Reply: reply}
	require.NoError(t, <-reply)
	<-h.Done()
	router := SetupRoutes(Deps{Hub: h, Results: results.NewMemoryStore()})

	cases := []struct {
		method, path, body string
	}{
		{method: http.MethodGet, path: "/games"},
		{method: http.MethodPost, path: "/games", body: roster},
		{method: http.MethodPost, path: "/games/g1/start"},
		{method: http.MethodDelete, path: "/games/g1"},
		{method: http.MethodGet, path: "/games/g1/view?player=r1"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := do(t, router, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			assert.Contains(t, rec.Body.String(), `"closed"`)
		})
	}
}
