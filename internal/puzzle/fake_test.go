package puzzle

import (
	"context"
	"sort"
	"time"
)

type scheduled struct {
	at    time.Time
	order int
	ev    Event
}

// fakeDispatcher is a virtual-clock Dispatcher. Scheduled events fire only
// when the test advances the clock; Go jobs run only when flushed.
type fakeDispatcher struct {
	now    time.Time
	timers []scheduled
	jobs   []func() Event
	order  int
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{now: time.Unix(1700000000, 0)}
}

func (d *fakeDispatcher) After(dur time.Duration, ev Event) {
	d.order++
	d.timers = append(d.timers, scheduled{at: d.now.Add(dur), order: d.order, ev: ev})
}

func (d *fakeDispatcher) Go(fn func() Event) {
	d.jobs = append(d.jobs, fn)
}

func (d *fakeDispatcher) clock() time.Time {
	return d.now
}

func (d *fakeDispatcher) sortTimers() {
	sort.Slice(d.timers, func(i, j int) bool {
		if !d.timers[i].at.Equal(d.timers[j].at) {
			return d.timers[i].at.Before(d.timers[j].at)
		}
		return d.timers[i].order < d.timers[j].order
	})
}

// popTimer removes the earliest scheduled event and moves the clock to it.
func (d *fakeDispatcher) popTimer() (Event, bool) {
	if len(d.timers) == 0 {
		return nil, false
	}
	d.sortTimers()
	next := d.timers[0]
	d.timers = d.timers[1:]
	if next.at.After(d.now) {
		d.now = next.at
	}
	return next.ev, true
}

// advance delivers every scheduled event due within dur, in time order.
func (d *fakeDispatcher) advance(c *Controller, dur time.Duration) {
	target := d.now.Add(dur)
	for {
		d.sortTimers()
		if len(d.timers) == 0 || d.timers[0].at.After(target) {
			break
		}
		ev, _ := d.popTimer()
		c.Handle(ev)
	}
	d.now = target
}

// flush runs pending off-loop jobs and delivers their events.
func (d *fakeDispatcher) flush(c *Controller) {
	for len(d.jobs) > 0 {
		jobs := d.jobs
		d.jobs = nil
		for _, fn := range jobs {
			c.Handle(fn())
		}
	}
}

// runOne runs only the oldest pending job.
func (d *fakeDispatcher) runOne(c *Controller) bool {
	if len(d.jobs) == 0 {
		return false
	}
	fn := d.jobs[0]
	d.jobs = d.jobs[1:]
	c.Handle(fn())
	return true
}

// fakeAuthority plays by the real rules unless a response is overridden.
type fakeAuthority struct {
	board    *Board
	image    string
	start    *StartResponse
	startErr error
	moveErr  error
	override *MoveResponse
	calls    []int
}

func newFakeAuthority(n int, positions []int) *fakeAuthority {
	b, err := NewBoard(n, positions)
	if err != nil {
		panic(err)
	}
	return &fakeAuthority{board: b, image: "static/images/cat.png"}
}

func (a *fakeAuthority) StartGame(ctx context.Context, n int) (StartResponse, error) {
	if a.startErr != nil {
		return StartResponse{}, a.startErr
	}
	if a.start != nil {
		return *a.start, nil
	}
	return StartResponse{GridSize: n, Positions: a.board.Positions(), ImagePath: a.image}, nil
}

func (a *fakeAuthority) Move(ctx context.Context, slot int) (MoveResponse, error) {
	a.calls = append(a.calls, slot)
	if a.moveErr != nil {
		return MoveResponse{}, a.moveErr
	}
	if a.override != nil {
		return *a.override, nil
	}
	if a.board.IsSolved() || !a.board.IsAdjacentToEmpty(slot) {
		return MoveResponse{Positions: a.board.Positions(), IsSolved: a.board.IsSolved()}, nil
	}
	a.board.ApplySwap(slot, a.board.EmptySlot())
	return MoveResponse{Moved: true, Positions: a.board.Positions(), IsSolved: a.board.IsSolved()}, nil
}

type recordingSurface struct {
	frames []DrawCall
}

func (s *recordingSurface) Draw(f DrawCall) {
	s.frames = append(s.frames, f)
}

func (s *recordingSurface) last() DrawCall {
	if len(s.frames) == 0 {
		return DrawCall{}
	}
	return s.frames[len(s.frames)-1]
}

type fakeAssets struct {
	err    error
	loaded []string
}

func (f *fakeAssets) Load(ctx context.Context, path string) error {
	f.loaded = append(f.loaded, path)
	return f.err
}
