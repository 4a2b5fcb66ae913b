package navigator

import (
	"context"
	"sync"
)

// feed fans out published values to callbacks and conflating channels.
type feed[T any] struct {
	mu       sync.Mutex
	nextID   int
	subs     map[int]func(T)
	watchers map[int]chan T
}

func newFeed[T any]() *feed[T] {
	return &feed[T]{
		subs:     make(map[int]func(T)),
		watchers: make(map[int]chan T),
	}
}

func (f *feed[T]) subscribe(fn func(T)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

// watch returns a channel that always holds the latest value; slow readers
// skip intermediate values but never miss the final one.
func (f *feed[T]) watch(ctx context.Context, initial T) <-chan T {
	ch := make(chan T, 1)
	ch <- initial

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.watchers[id] = ch
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.watchers, id)
		close(ch)
		f.mu.Unlock()
	}()
	return ch
}

func (f *feed[T]) publish(v T) {
	f.mu.Lock()
	for _, ch := range f.watchers {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
	subs := make([]func(T), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}
