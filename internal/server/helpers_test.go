package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/ejdedart/dartscore/internal/database"
	"github.com/ejdedart/dartscore/internal/migrations"
)

const testAdminToken = "let-me-clear"

// memSaveStore keeps saved games as JSON, like the Redis store does.
type memSaveStore struct {
	mu    sync.Mutex
	games map[string][]byte
}

func newMemSaveStore() *memSaveStore {
	return &memSaveStore{games: make(map[string][]byte)}
}

func (m *memSaveStore) Save(_ context.Context, g SavedGame) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.games[g.ID] = data
	m.mu.Unlock()
	return nil
}

func (m *memSaveStore) Load(_ context.Context, id string) (SavedGame, error) {
	m.mu.Lock()
	data, ok := m.games[id]
	m.mu.Unlock()
	if !ok {
		return SavedGame{}, ErrNotFound
	}
	var g SavedGame
	err := json.Unmarshal(data, &g)
	return g, err
}

func (m *memSaveStore) Clear(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.games, id)
	m.mu.Unlock()
	return nil
}

// gatedSaveStore blocks loads of slowID until release is closed.
type gatedSaveStore struct {
	*memSaveStore
	slowID  string
	started chan struct{}
	release chan struct{}
}

func (g *gatedSaveStore) Load(ctx context.Context, id string) (SavedGame, error) {
	if id == g.slowID {
		close(g.started)
		<-g.release
	}
	return g.memSaveStore.Load(ctx, id)
}

func setupHistory(t *testing.T, limit int) *SQLiteHistoryStore {
	t.Helper()
	db, err := database.Open(context.Background(), database.Memory)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewSQLiteHistoryStore(db, limit)
}

type testEnv struct {
	handler http.Handler
	deps    Deps
	saves   *memSaveStore
	history *SQLiteHistoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	saves := newMemSaveStore()
	return newTestEnvWithSaves(t, saves, setupHistory(t, DefaultHistoryLimit))
}

func newTestEnvWithSaves(t *testing.T, saves *memSaveStore, history *SQLiteHistoryStore) *testEnv {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminToken), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing admin token: %v", err)
	}

	deps := Deps{
		Sessions:  NewRegistry(saves, slog.Default()),
		History:   history,
		Broker:    NewBroker(),
		AdminHash: hash,
	}
	return &testEnv{
		handler: NewHandler(slog.Default(), deps, nil),
		deps:    deps,
		saves:   saves,
		history: history,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

// create starts a match and returns its ID and scorer token.
func (e *testEnv) create(t *testing.T, body string) (string, string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/matches", "", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp CreateMatchResponse
	decode(t, w, &resp)
	return resp.Match.ID, resp.ScorerToken
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v (%s)", err, w.Body.String())
	}
}
