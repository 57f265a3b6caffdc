package authority

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestHubSnapshotArrivesFirstDuringBroadcasts(t *testing.T) {
	hub := NewHub(nil)
	snapshot := BoardUpdate{Event: EventSnapshot, GridSize: 2, Positions: []int{0, 1, 3, 2}}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, "s1", &snapshot)
	}))
	defer ts.Close()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		move := BoardUpdate{Event: EventMove, GridSize: 2, Positions: []int{0, 1, 2, 3}, Moved: true}
		for {
			select {
			case <-stop:
				return
			default:
				hub.Broadcast("s1", move)
			}
		}
	}()
	defer func() {
		close(stop)
		wg.Wait()
	}()

	wsURL, err := WatchURL(ts.URL, "s1")
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		updates := make(chan BoardUpdate, 1)
		done := make(chan error, 1)
		go func() {
			done <- Watch(ctx, wsURL, func(u BoardUpdate) {
				select {
				case updates <- u:
				default:
				}
			})
		}()

		first := receive(t, updates)
		cancel()
		<-done
		if first.Event != EventSnapshot {
			t.Fatalf("connection %d: first update = %q, want snapshot", i, first.Event)
		}
	}
}
