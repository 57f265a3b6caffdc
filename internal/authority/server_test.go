package authority

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/slidepuzzle/internal/puzzle"
)

func newTestServer(t *testing.T, cfg ServerConfig) (*Server, *httptest.Server) {
	t.Helper()
	if cfg.Seed == 0 {
		cfg.Seed = 7
	}
	s := NewServer(cfg)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, ts
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(url)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

// adjacentSlot returns some slot that may slide into the empty one.
func adjacentSlot(t *testing.T, n int, positions []int) int {
	t.Helper()
	b, err := puzzle.NewBoard(n, positions)
	if err != nil {
		t.Fatalf("invalid board: %v", err)
	}
	for s := 0; s < b.Len(); s++ {
		if b.IsAdjacentToEmpty(s) {
			return s
		}
	}
	t.Fatal("no slot adjacent to empty")
	return -1
}

func TestServerStartAndMove(t *testing.T) {
	_, ts := newTestServer(t, ServerConfig{Catalog: &Catalog{Fallback: "static/images/default.png"}})
	c := newTestClient(t, ts.URL)
	ctx := context.Background()

	start, err := c.StartGame(ctx, 4)
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if start.GridSize != 4 || len(start.Positions) != 16 {
		t.Fatalf("start = %+v", start)
	}
	if start.ImagePath != "static/images/default.png" {
		t.Errorf("ImagePath = %q", start.ImagePath)
	}
	if c.SessionID() == "" {
		t.Error("no session cookie issued")
	}

	slot := adjacentSlot(t, 4, start.Positions)
	resp, err := c.Move(ctx, slot)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !resp.Moved {
		t.Error("adjacent move rejected")
	}
	if resp.Positions[slot] != 15 {
		t.Errorf("slot %d should now be empty, positions %v", slot, resp.Positions)
	}

	board, err := c.Board(ctx)
	if err != nil {
		t.Fatalf("Board() error = %v", err)
	}
	if board.Session != c.SessionID() || board.GridSize != 4 {
		t.Errorf("board = %+v", board)
	}
}

func TestServerSessionsAreIndependent(t *testing.T) {
	_, ts := newTestServer(t, ServerConfig{})
	a := newTestClient(t, ts.URL)
	b := newTestClient(t, ts.URL)
	ctx := context.Background()

	if _, err := a.StartGame(ctx, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Move(ctx, 0); !errors.Is(err, puzzle.ErrNetworkFailure) {
		t.Errorf("second session moved on first session's board: err = %v", err)
	}
	if a.SessionID() == b.SessionID() {
		t.Error("sessions share a cookie")
	}
}

func TestServerRejectsBadRequests(t *testing.T) {
	_, ts := newTestServer(t, ServerConfig{})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"move before start", "/api/move", `{"index":0}`, http.StatusBadRequest},
		{"move without index", "/api/move", `{}`, http.StatusBadRequest},
		{"move garbage", "/api/move", `not json`, http.StatusBadRequest},
		{"grid too small", "/api/start_game", `{"grid_size":1}`, http.StatusBadRequest},
		{"grid too large", "/api/start_game", `{"grid_size":99}`, http.StatusBadRequest},
		{"start default grid", "/api/start_game", ``, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+tt.path, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				body, _ := io.ReadAll(resp.Body)
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
		})
	}
}

func TestServerMoveBeforeStartMessage(t *testing.T) {
	_, ts := newTestServer(t, ServerConfig{})
	c := newTestClient(t, ts.URL)

	_, err := c.Move(context.Background(), 0)
	if !errors.Is(err, puzzle.ErrNetworkFailure) {
		t.Fatalf("Move() error = %v, want ErrNetworkFailure", err)
	}
	if !strings.Contains(err.Error(), "game not started") {
		t.Errorf("error %q does not carry the server message", err)
	}
}

func TestServerOnlyStartCreatesSessions(t *testing.T) {
	s, ts := newTestServer(t, ServerConfig{})

	for i := 0; i < 50; i++ {
		resp, err := http.Get(ts.URL + "/api/board")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("board without a game: status = %d, want 404", resp.StatusCode)
		}

		resp, err = http.Post(ts.URL+"/api/move", "application/json", strings.NewReader(`{"index":0}`))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("move without a game: status = %d, want 400", resp.StatusCode)
		}
	}
	if n := s.Sessions(); n != 0 {
		t.Errorf("Sessions() = %d after cookieless requests, want 0", n)
	}

	c := newTestClient(t, ts.URL)
	if _, err := c.StartGame(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	if _, err := c.StartGame(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	if n := s.Sessions(); n != 1 {
		t.Errorf("Sessions() = %d after two starts by one client, want 1", n)
	}
}

func TestServerEvictsIdleSessions(t *testing.T) {
	s, ts := newTestServer(t, ServerConfig{SessionTTL: time.Minute})
	var clockMu sync.Mutex
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return now
	}
	ctx := context.Background()

	idle := newTestClient(t, ts.URL)
	if _, err := idle.StartGame(ctx, 3); err != nil {
		t.Fatal(err)
	}

	clockMu.Lock()
	now = now.Add(2 * time.Minute)
	clockMu.Unlock()
	active := newTestClient(t, ts.URL)
	if _, err := active.StartGame(ctx, 3); err != nil {
		t.Fatal(err)
	}

	if n := s.Sessions(); n != 1 {
		t.Fatalf("Sessions() = %d, want the idle one evicted", n)
	}
	if _, err := idle.Board(ctx); !errors.Is(err, puzzle.ErrNetworkFailure) {
		t.Errorf("evicted session Board() error = %v, want ErrNetworkFailure", err)
	}
	if _, err := active.Board(ctx); err != nil {
		t.Errorf("active session Board() error = %v", err)
	}
}

func TestServerStatic(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "images"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "images", "a.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, ts := newTestServer(t, ServerConfig{StaticDir: dir})
	c := newTestClient(t, ts.URL)

	rc, err := c.Open(context.Background(), "static/images/a.png")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "png" {
		t.Errorf("Open() = %q", data)
	}

	if _, err := c.Open(context.Background(), "static/images/missing.png"); !errors.Is(err, puzzle.ErrNetworkFailure) {
		t.Errorf("Open(missing) error = %v, want ErrNetworkFailure", err)
	}
}

func TestClientMalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>`},
		{"missing moved", `{"positions":[0,1,2,3],"is_solved":false}`},
		{"missing positions", `{"moved":true,"is_solved":false}`},
		{"missing is_solved", `{"moved":true,"positions":[0,1,2,3]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, tt.body) //nolint:errcheck
			}))
			defer ts.Close()

			c := newTestClient(t, ts.URL)
			if _, err := c.Move(context.Background(), 0); !errors.Is(err, puzzle.ErrNetworkFailure) {
				t.Errorf("Move() error = %v, want ErrNetworkFailure", err)
			}
		})
	}
}

func TestClientUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := newTestClient(t, url)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := c.StartGame(ctx, 3); !errors.Is(err, puzzle.ErrNetworkFailure) {
		t.Errorf("StartGame() error = %v, want ErrNetworkFailure", err)
	}
}

func TestNewClientRejectsScheme(t *testing.T) {
	if _, err := NewClient("ftp://example.com"); err == nil {
		t.Error("NewClient(ftp) succeeded")
	}
}

func TestWatchURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:5000", "ws://localhost:5000/ws/abc"},
		{"https://puzzle.example/", "wss://puzzle.example/ws/abc"},
		{"ws://h", "ws://h/ws/abc"},
	}
	for _, tt := range tests {
		got, err := WatchURL(tt.base, "abc")
		if err != nil || got != tt.want {
			t.Errorf("WatchURL(%q) = %q, %v; want %q", tt.base, got, err, tt.want)
		}
	}
	if _, err := WatchURL("ftp://h", "abc"); err == nil {
		t.Error("WatchURL(ftp) succeeded")
	}
}

func TestWatchReceivesMoves(t *testing.T) {
	s, ts := newTestServer(t, ServerConfig{})
	c := newTestClient(t, ts.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start, err := c.StartGame(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	wsURL, err := WatchURL(ts.URL, c.SessionID())
	if err != nil {
		t.Fatal(err)
	}

	updates := make(chan BoardUpdate, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, wsURL, func(u BoardUpdate) { updates <- u })
	}()

	first := receive(t, updates)
	if first.Event != EventSnapshot || first.Session != c.SessionID() {
		t.Fatalf("first update = %+v, want snapshot", first)
	}
	if s.Hub().Spectators(c.SessionID()) != 1 {
		t.Errorf("Spectators() = %d, want 1", s.Hub().Spectators(c.SessionID()))
	}

	slot := adjacentSlot(t, 3, start.Positions)
	if _, err := c.Move(ctx, slot); err != nil {
		t.Fatal(err)
	}
	next := receive(t, updates)
	if next.Event != EventMove || !next.Moved || next.Positions[slot] != 8 {
		t.Errorf("move update = %+v", next)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func receive(t *testing.T, ch <-chan BoardUpdate) BoardUpdate {
	t.Helper()
	select {
	case u := <-ch:
		return u
	case <-time.After(5 * time.Second):
		t.Fatal("no board update received")
		return BoardUpdate{}
	}
}
