package services

import (
	"slices"
	"sync"

	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
)

// watcher fans the latest full snapshot of one entity kind out to
// subscribers. Each subscriber channel holds at most one pending snapshot;
// a newer snapshot replaces an undelivered older one (latest wins), so a
// slow consumer never blocks a publisher.
type watcher[T any] struct {
	mu     sync.Mutex
	latest []T
	subs   map[int]chan []T
	nextID int
}

func newWatcher[T any]() *watcher[T] {
	return &watcher[T]{subs: make(map[int]chan []T)}
}

func (w *watcher[T]) publish(snapshot []T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.latest = snapshot
	for _, ch := range w.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}

func (w *watcher[T]) subscribe() *portssvc.Subscription[T] {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	ch := make(chan []T, 1)
	w.subs[id] = ch

	cancel := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if _, ok := w.subs[id]; ok {
			delete(w.subs, id)
			close(ch)
		}
	}
	return &portssvc.Subscription[T]{
		Snapshot: slices.Clone(w.latest),
		Updates:  ch,
		Cancel:   cancel,
	}
}
