package appointment

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthrecords/healthrecords/internal/platform/session"
)

func TestWatcherPollsUntilCancelled(t *testing.T) {
	var calls int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.Write([]byte(`[]`))
	})
	svc, _ := newTestService(t, handler, session.Identity{ID: 1, Role: "ADMIN"})

	ctx, cancel := context.WithCancel(context.Background())
	watcher := NewWatcher(svc, 10*time.Millisecond, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		watcher.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt64(&calls) < 3 {
		select {
		case <-deadline:
			t.Fatal("watcher did not poll repeatedly")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}
