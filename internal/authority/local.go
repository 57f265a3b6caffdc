package authority

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/vovakirdan/slidepuzzle/internal/puzzle"
)

// Local is an in-process move authority for one player. It is safe for
// concurrent use.
type Local struct {
	mu         sync.Mutex
	rng        *rand.Rand
	catalog    *Catalog
	multiplier int
	latency    time.Duration
	observer   func(BoardUpdate)

	game     *Game
	previous string
}

// LocalOption configures a Local authority.
type LocalOption func(*Local)

// WithSeed makes shuffles and picture choice reproducible.
func WithSeed(seed int64) LocalOption {
	return func(l *Local) {
		l.rng = rand.New(rand.NewSource(seed))
	}
}

// WithCatalog sets where session pictures come from.
func WithCatalog(c *Catalog) LocalOption {
	return func(l *Local) {
		l.catalog = c
	}
}

// WithShuffleMultiplier sets the shuffle walk length per slot.
func WithShuffleMultiplier(m int) LocalOption {
	return func(l *Local) {
		if m > 0 {
			l.multiplier = m
		}
	}
}

// WithLatency delays every answer, imitating a remote authority.
func WithLatency(d time.Duration) LocalOption {
	return func(l *Local) {
		l.latency = d
	}
}

// WithObserver is called with the new board after every start and move.
func WithObserver(fn func(BoardUpdate)) LocalOption {
	return func(l *Local) {
		l.observer = fn
	}
}

// NewLocal creates an in-process authority.
func NewLocal(opts ...LocalOption) *Local {
	l := &Local{
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		catalog:    &Catalog{},
		multiplier: DefaultShuffleMultiplier,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// StartGame shuffles a new board, replacing any game in progress.
func (l *Local) StartGame(ctx context.Context, gridSize int) (puzzle.StartResponse, error) {
	if err := l.wait(ctx); err != nil {
		return puzzle.StartResponse{}, err
	}

	l.mu.Lock()
	image := l.catalog.Pick(l.rng, l.previous)
	game, err := NewGame(l.rng, gridSize, l.multiplier, image)
	if err != nil {
		l.mu.Unlock()
		return puzzle.StartResponse{}, err
	}
	l.game = game
	l.previous = image
	resp := game.Start()
	update := game.Snapshot(EventStart)
	l.mu.Unlock()

	l.notify(update)
	return resp, nil
}

// Move executes a move on the current game.
func (l *Local) Move(ctx context.Context, slot int) (puzzle.MoveResponse, error) {
	if err := l.wait(ctx); err != nil {
		return puzzle.MoveResponse{}, err
	}

	l.mu.Lock()
	if l.game == nil {
		l.mu.Unlock()
		return puzzle.MoveResponse{}, ErrNotStarted
	}
	resp := l.game.Move(slot)
	update := l.game.Snapshot(EventMove)
	update.Moved = resp.Moved
	l.mu.Unlock()

	l.notify(update)
	return resp, nil
}

// Board returns the current game state.
func (l *Local) Board(ctx context.Context) (BoardUpdate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.game == nil {
		return BoardUpdate{}, ErrNotStarted
	}
	return l.game.Snapshot(EventSnapshot), nil
}

func (l *Local) notify(u BoardUpdate) {
	if l.observer != nil {
		l.observer(u)
	}
}

func (l *Local) wait(ctx context.Context) error {
	if l.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(l.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ puzzle.Authority = (*Local)(nil)
