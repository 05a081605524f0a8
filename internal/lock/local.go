package lock

import (
	"context"
	"sync"
)

// Local serializes holders of the same key inside one process.
type Local struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	held chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{locks: make(map[string]*entry)}
}

// Reserve blocks until key is free or ctx is done.
func (l *Local) Reserve(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{held: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.held <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, e)
		return nil, ctx.Err()
	}

	return sync.OnceFunc(func() {
		<-e.held
		l.unref(key, e)
	}), nil
}

func (l *Local) unref(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// None never blocks. Concurrent overlapping writes can both pass their checks.
type None struct{}

func (None) Reserve(context.Context, string) (func(), error) {
	return func() {}, nil
}
