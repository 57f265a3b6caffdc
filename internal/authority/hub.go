package authority

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Spectator event names.
const (
	EventSnapshot = "snapshot"
	EventStart    = "start"
	EventMove     = "move"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Spectators never send anything meaningful.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// BoardUpdate is the board of one session as sent to spectators.
type BoardUpdate struct {
	Session   string `json:"session,omitempty"`
	Event     string `json:"event"`
	GridSize  int    `json:"grid_size"`
	Positions []int  `json:"positions"`
	IsSolved  bool   `json:"is_solved"`
	Moved     bool   `json:"moved,omitempty"`
	ImagePath string `json:"image_path,omitempty"`
}

type spectator struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	session string
}

// Hub fans board updates out to the websocket spectators of each session.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]map[*spectator]bool
	logger   *log.Logger
}

// NewHub creates an empty hub. A nil logger discards output.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		sessions: make(map[string]map[*spectator]bool),
		logger:   logger,
	}
}

// ServeWS upgrades the request and subscribes it to session. When initial is
// set it is the first message the spectator receives.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, session string, initial *BoardUpdate) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s := &spectator{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, 256),
		session: session,
	}
	// The snapshot is queued before registering so it is always first and
	// never races a Broadcast that drops the spectator.
	if initial != nil {
		if data, err := encodeUpdate(session, *initial); err == nil {
			s.send <- data
		}
	}
	h.register(s)

	go s.writePump()
	go s.readPump()
}

// Broadcast sends an update to every spectator of session. Spectators that
// cannot keep up are dropped.
func (h *Hub) Broadcast(session string, u BoardUpdate) {
	data, err := encodeUpdate(session, u)
	if err != nil {
		h.logger.Error("cannot encode board update", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.sessions[session] {
		select {
		case s.send <- data:
		default:
			h.removeLocked(s)
		}
	}
}

// Spectators returns how many spectators session has.
func (h *Hub) Spectators(session string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions[session])
}

func encodeUpdate(session string, u BoardUpdate) ([]byte, error) {
	u.Session = session
	return json.Marshal(u)
}

func (h *Hub) register(s *spectator) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[s.session] == nil {
		h.sessions[s.session] = make(map[*spectator]bool)
	}
	h.sessions[s.session][s] = true
	h.logger.Debug("spectator joined", "session", s.session, "total", len(h.sessions[s.session]))
}

func (h *Hub) unregister(s *spectator) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s)
}

func (h *Hub) removeLocked(s *spectator) {
	clients, ok := h.sessions[s.session]
	if !ok || !clients[s] {
		return
	}
	delete(clients, s)
	close(s.send)
	if len(clients) == 0 {
		delete(h.sessions, s.session)
	}
	h.logger.Debug("spectator left", "session", s.session, "remaining", len(clients))
}

// readPump keeps the connection alive and notices when the peer goes away.
func (s *spectator) readPump() {
	defer func() {
		s.hub.unregister(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck // Best-effort deadline
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.hub.logger.Warn("websocket error", "error", err)
			}
			return
		}
	}
}

// writePump sends one websocket message per update, plus keepalive pings.
func (s *spectator) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck // Best-effort deadline
			if !ok {
				// The hub closed the channel
				s.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck // Best-effort close
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck // Best-effort deadline
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
