package authority

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// SessionCookie names the cookie that ties a browser or client to its board.
const SessionCookie = "slidepuzzle_session"

// DefaultGridSize is used when a start request names no grid size.
const DefaultGridSize = 3

// MaxGridSize bounds start requests.
const MaxGridSize = 8

// ServerConfig configures the HTTP authority.
type ServerConfig struct {
	Catalog           *Catalog
	StaticDir         string // Served under /static/; empty disables it
	ShuffleMultiplier int
	Seed              int64         // Zero seeds from the clock
	SessionTTL        time.Duration // Idle sessions older than this are dropped; zero means DefaultSessionTTL
	Logger            *log.Logger
}

// DefaultSessionTTL bounds how long an untouched board is kept.
const DefaultSessionTTL = time.Hour

type sessionEntry struct {
	local    *Local
	lastSeen time.Time
}

// Server is the HTTP move authority. Each cookie session owns its own board.
type Server struct {
	cfg    ServerConfig
	router *mux.Router
	hub    *Hub
	logger *log.Logger

	mu       sync.Mutex
	sessions map[string]*sessionEntry
	seeds    int64
	now      func() time.Time
}

// NewServer creates the HTTP authority and its spectator hub.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Catalog == nil {
		cfg.Catalog = &Catalog{}
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}

	s := &Server{
		cfg:      cfg,
		router:   mux.NewRouter(),
		hub:      NewHub(cfg.Logger),
		logger:   cfg.Logger,
		sessions: make(map[string]*sessionEntry),
		seeds:    cfg.Seed,
		now:      time.Now,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/start_game", s.handleStartGame).Methods("POST")
	api.HandleFunc("/move", s.handleMove).Methods("POST")
	api.HandleFunc("/board", s.handleBoard).Methods("GET")

	s.router.HandleFunc("/ws/{session}", s.handleWatch)

	if s.cfg.StaticDir != "" {
		s.router.PathPrefix("/static/").Handler(
			http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticDir))),
		)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Hub returns the spectator hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP authority", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data) //nolint:errcheck // Client may have gone away
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// sessionID returns the caller's session cookie when it holds a valid uuid.
func sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

// startSession returns the caller's board, creating it and issuing a cookie
// when the caller has none. Only start_game creates sessions.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request) (string, *Local) {
	id, ok := sessionID(r)
	if !ok {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.evictIdleLocked(now)
	if e, ok := s.sessions[id]; ok {
		e.lastSeen = now
		return id, e.local
	}
	s.seeds++
	l := NewLocal(
		WithSeed(s.seeds),
		WithCatalog(s.cfg.Catalog),
		WithShuffleMultiplier(s.cfg.ShuffleMultiplier),
		WithObserver(func(u BoardUpdate) { s.hub.Broadcast(id, u) }),
	)
	s.sessions[id] = &sessionEntry{local: l, lastSeen: now}
	return id, l
}

// evictIdleLocked drops sessions untouched for longer than SessionTTL.
func (s *Server) evictIdleLocked(now time.Time) {
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.cfg.SessionTTL {
			delete(s.sessions, id)
			s.logger.Debug("session evicted", "session", id)
		}
	}
}

// lookup returns an existing session and marks it as used.
func (s *Server) lookup(id string) (*Local, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.local, true
}

// callerSession resolves the caller's existing board without creating one.
func (s *Server) callerSession(r *http.Request) (string, *Local, bool) {
	id, ok := sessionID(r)
	if !ok {
		return "", nil, false
	}
	l, ok := s.lookup(id)
	return id, l, ok
}

// Sessions reports how many boards the server is holding.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GridSize int `json:"grid_size"`
	}
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.GridSize == 0 {
		req.GridSize = DefaultGridSize
	}
	if req.GridSize < 2 || req.GridSize > MaxGridSize {
		respondError(w, http.StatusBadRequest, "grid_size out of range")
		return
	}

	id, l := s.startSession(w, r)
	resp, err := l.StartGame(r.Context(), req.GridSize)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Debug("game started", "session", id, "grid", req.GridSize, "image", resp.ImagePath)
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, l, ok := s.callerSession(r)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrNotStarted.Error())
		return
	}
	resp, err := l.Move(r.Context(), *req.Index)
	if errors.Is(err, ErrNotStarted) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	id, l, ok := s.callerSession(r)
	if !ok {
		respondError(w, http.StatusNotFound, ErrNotStarted.Error())
		return
	}
	u, err := l.Board(r.Context())
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	u.Session = id
	respondJSON(w, http.StatusOK, u)
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["session"]
	var initial *BoardUpdate
	if l, ok := s.lookup(id); ok {
		if u, err := l.Board(r.Context()); err == nil {
			initial = &u
		}
	}
	s.hub.ServeWS(w, r, id, initial)
}
