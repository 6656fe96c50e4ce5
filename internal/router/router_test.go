package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myworld/backend/internal/db"
	"myworld/backend/internal/handler"
	"myworld/backend/internal/history"
	"myworld/backend/internal/idgen"
	"myworld/backend/internal/panel"
	"myworld/backend/internal/repository"
	"myworld/backend/internal/router"
	"myworld/backend/internal/service"
	"myworld/backend/internal/settings"
	"myworld/backend/internal/timer"
)

type stateEnvelope struct {
	State struct {
		Phase            string `json:"phase"`
		RemainingSeconds int    `json:"remainingSeconds"`
		Display          string `json:"display"`
		Running          bool   `json:"running"`
		Durations        struct {
			Work       int `json:"work"`
			ShortBreak int `json:"shortBreak"`
			LongBreak  int `json:"longBreak"`
		} `json:"durations"`
	} `json:"state"`
}

type historyEnvelope struct {
	Entries []struct {
		ID              string `json:"id"`
		Phase           string `json:"phase"`
		DurationMinutes int    `json:"durationMinutes"`
		DayLabel        string `json:"dayLabel"`
	} `json:"entries"`
}

type recordEnvelope struct {
	Record map[string]any `json:"record"`
}

type apiErrorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testEnv struct {
	engine     http.Handler
	controller *timer.Controller
	store      repository.Store
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database, db.Migrations()))

	store := repository.NewSQLiteStore(database)
	log := history.New(store, history.WithLogger(logger))
	log.Load(ctx)

	controller := timer.New(log,
		timer.WithIDGenerator(idgen.Sequence("h")),
		timer.WithInterval(time.Hour),
	)
	t.Cleanup(controller.Close)

	theme := settings.NewTheme(store)
	theme.Load(ctx)
	panels := panel.NewRegistry(store, idgen.Sequence("rec"), logger)
	panels.Load(ctx)

	observer := service.NewLogUseCaseObserver(logger)
	engine := router.New(
		handler.NewPomodoroHandler(service.NewPomodoroService(controller, log, observer)),
		handler.NewSettingsHandler(service.NewSettingsService(theme, observer)),
		handler.NewPanelHandler(service.NewPanelService(panels, observer)),
		[]string{"http://localhost:5173"},
		logger,
	)
	return testEnv{engine: engine, controller: controller, store: store}
}

func TestPomodoroLifecycle(t *testing.T) {
	env := setupTestEnv(t)

	state := getState(t, env.engine)
	assert.Equal(t, "work", state.State.Phase)
	assert.Equal(t, "25:00", state.State.Display)

	status, body := requestJSON(t, env.engine, http.MethodPut, "/api/pomodoro/durations", map[string]any{
		"work":       "1",
		"shortBreak": "abc",
		"longBreak":  120,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	state = decode[stateEnvelope](t, body)
	assert.Equal(t, 1, state.State.Durations.Work)
	assert.Equal(t, 5, state.State.Durations.ShortBreak)
	assert.Equal(t, 90, state.State.Durations.LongBreak)
	assert.Equal(t, 60, state.State.RemainingSeconds)

	status, _ = requestJSON(t, env.engine, http.MethodPost, "/api/pomodoro/start", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = requestJSON(t, env.engine, http.MethodPut, "/api/pomodoro/durations", map[string]any{"work": 10})
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "timer_running", decode[apiErrorEnvelope](t, body).Error.Code)

	for i := 0; i < 60; i++ {
		env.controller.Tick()
	}

	state = getState(t, env.engine)
	assert.Equal(t, "shortBreak", state.State.Phase)
	assert.True(t, state.State.Running)
	assert.Equal(t, "05:00", state.State.Display)

	status, body = requestJSON(t, env.engine, http.MethodGet, "/api/pomodoro/history?limit=10", nil)
	require.Equal(t, http.StatusOK, status)
	hist := decode[historyEnvelope](t, body)
	require.Len(t, hist.Entries, 1)
	assert.Equal(t, "h-1", hist.Entries[0].ID)
	assert.Equal(t, "work", hist.Entries[0].Phase)
	assert.Equal(t, 1, hist.Entries[0].DurationMinutes)
	assert.Equal(t, "today", hist.Entries[0].DayLabel)

	raw, err := env.store.Get(context.Background(), "pomodoro-history")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"completedAt"`)

	status, _ = requestJSON(t, env.engine, http.MethodDelete, "/api/pomodoro/history", nil)
	require.Equal(t, http.StatusNoContent, status)
	_, body = requestJSON(t, env.engine, http.MethodGet, "/api/pomodoro/history", nil)
	assert.Empty(t, decode[historyEnvelope](t, body).Entries)
}

func TestSwitchPhase(t *testing.T) {
	env := setupTestEnv(t)

	status, body := requestJSON(t, env.engine, http.MethodPost, "/api/pomodoro/phase", map[string]string{"phase": "longBreak"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "15:00", decode[stateEnvelope](t, body).State.Display)

	status, body = requestJSON(t, env.engine, http.MethodPost, "/api/pomodoro/phase", map[string]string{"phase": "siesta"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_phase", decode[apiErrorEnvelope](t, body).Error.Code)

	status, body = requestRaw(t, env.engine, http.MethodPost, "/api/pomodoro/phase", []byte("{"), "127.0.0.1:4000")
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_json", decode[apiErrorEnvelope](t, body).Error.Code)
}

func TestThemeSettings(t *testing.T) {
	env := setupTestEnv(t)

	status, body := requestJSON(t, env.engine, http.MethodPut, "/api/settings/theme", map[string]string{"theme": "light"})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"theme":"light"}`, string(body))

	_, body = requestJSON(t, env.engine, http.MethodGet, "/api/settings/theme", nil)
	assert.JSONEq(t, `{"theme":"light"}`, string(body))

	status, _ = requestJSON(t, env.engine, http.MethodPut, "/api/settings/theme", map[string]string{"theme": "neon"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPanels(t *testing.T) {
	env := setupTestEnv(t)

	status, body := requestJSON(t, env.engine, http.MethodPost, "/api/panels/goals", map[string]any{"title": "Run 10k", "id": "mine"})
	require.Equal(t, http.StatusCreated, status)
	created := decode[recordEnvelope](t, body).Record
	assert.Equal(t, "rec-1", created["id"])

	status, body = requestJSON(t, env.engine, http.MethodPatch, "/api/panels/goals/rec-1", map[string]any{"done": true})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, decode[recordEnvelope](t, body).Record["done"])

	status, _ = requestJSON(t, env.engine, http.MethodDelete, "/api/panels/goals/rec-1", nil)
	require.Equal(t, http.StatusNoContent, status)

	status, body = requestJSON(t, env.engine, http.MethodDelete, "/api/panels/goals/rec-1", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "record_not_found", decode[apiErrorEnvelope](t, body).Error.Code)

	status, body = requestJSON(t, env.engine, http.MethodGet, "/api/panels/diary", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "panel_not_found", decode[apiErrorEnvelope](t, body).Error.Code)
}

func TestHabitChecks(t *testing.T) {
	env := setupTestEnv(t)

	status, body := requestJSON(t, env.engine, http.MethodPost, "/api/panels/habits", map[string]any{"name": "Read", "checks": []string{}})
	require.Equal(t, http.StatusCreated, status, string(body))
	id := decode[recordEnvelope](t, body).Record["id"]

	status, body = requestJSON(t, env.engine, http.MethodPost, fmt.Sprintf("/api/panels/habits/%v/checks/2026-10-19", id), nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, []any{"2026-10-19"}, decode[recordEnvelope](t, body).Record["checks"])

	status, body = requestJSON(t, env.engine, http.MethodPost, fmt.Sprintf("/api/panels/habits/%v/checks/2026-10-19", id), nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, []any{}, decode[recordEnvelope](t, body).Record["checks"])

	status, body = requestJSON(t, env.engine, http.MethodPost, fmt.Sprintf("/api/panels/habits/%v/checks/yesterday", id), nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_date", decode[apiErrorEnvelope](t, body).Error.Code)
}

func TestUpdateDurationsParsesDecimal(t *testing.T) {
	env := setupTestEnv(t)

	status, body := requestJSON(t, env.engine, http.MethodPut, "/api/pomodoro/durations", map[string]any{
		"work":      "010",
		"longBreak": 1e20,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	state := decode[stateEnvelope](t, body)
	assert.Equal(t, 10, state.State.Durations.Work)
	assert.Equal(t, 90, state.State.Durations.LongBreak)
}

func TestCrossSiteRequestsRejected(t *testing.T) {
	env := setupTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/panels/notes", strings.NewReader(`{"title":"spam"}`))
	req.Header.Set("Content-Type", "text/plain")
	req.RemoteAddr = "127.0.0.1:4000"
	recorder := httptest.NewRecorder()
	env.engine.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, recorder.Code)
	assert.Equal(t, "unsupported_media_type", decode[apiErrorEnvelope](t, recorder.Body.Bytes()).Error.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/pomodoro/start", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.RemoteAddr = "127.0.0.1:4000"
	recorder = httptest.NewRecorder()
	env.engine.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.False(t, getState(t, env.engine).State.Running)

	status, body := requestJSON(t, env.engine, http.MethodGet, "/api/panels/notes", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[struct {
		Records []map[string]any `json:"records"`
	}](t, body).Records)
}

func TestRemoteClientRejected(t *testing.T) {
	env := setupTestEnv(t)

	status, body := requestRaw(t, env.engine, http.MethodGet, "/api/pomodoro/state", nil, "10.0.0.8:5555")
	require.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", decode[apiErrorEnvelope](t, body).Error.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/panels/notes/abc", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	recorder := httptest.NewRecorder()

	env.engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "http://localhost:5173", recorder.Header().Get("Access-Control-Allow-Origin"))
}

func getState(t *testing.T, server http.Handler) stateEnvelope {
	t.Helper()
	status, body := requestJSON(t, server, http.MethodGet, "/api/pomodoro/state", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	return decode[stateEnvelope](t, body)
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func requestJSON(t *testing.T, server http.Handler, method, path string, body interface{}) (int, []byte) {
	t.Helper()

	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = raw
	}
	return requestRaw(t, server, method, path, payload, "127.0.0.1:4000")
}

func requestRaw(t *testing.T, server http.Handler, method, path string, payload []byte, remoteAddr string) (int, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = remoteAddr

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder.Code, recorder.Body.Bytes()
}
