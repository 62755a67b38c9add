package eventbus

import (
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

const (
	// EventBefore is published before every non-meta event.
	EventBefore = "event:before"

	// EventAfter is published after every non-meta event.
	EventAfter = "event:after"
)

// Handler receives the published arguments. A non-nil return value becomes the
// result of Publish unless a later listener returns a non-nil value.
type Handler func(args ...any) any

// Listener is a registered handler. The pointer returned by Subscribe is the
// identity used by Unsubscribe.
type Listener struct {
	fn    Handler
	once  bool
	spent atomic.Bool
}

// Once reports whether the listener is removed after its first dispatch.
func (l *Listener) Once() bool {
	return l.once
}

// Bus is a named-event registry. It is safe for concurrent use; listeners are
// never invoked while the registry lock is held.
type Bus struct {
	log *slog.Logger

	mu        sync.RWMutex
	listeners map[string][]*Listener
}

// New creates an empty bus. A nil logger disables diagnostics.
func New(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Bus{
		log:       log.With("component", "eventbus"),
		listeners: make(map[string][]*Listener, 8),
	}
}

// Subscribe appends fn to the listeners of name. The same function may be
// registered several times and fires once per registration.
func (b *Bus) Subscribe(name string, fn Handler, once bool) *Listener {
	l := &Listener{fn: fn, once: once}

	b.mu.Lock()
	b.listeners[name] = append(b.listeners[name], l)
	b.mu.Unlock()

	return l
}

// Unsubscribe removes listeners.
//
// With an empty name and no listeners every registration on the bus is
// cleared. With a name only, all listeners of that name are cleared. With a
// name and listeners, only those registrations are removed. With an empty name
// and listeners, those registrations are removed under every name.
func (b *Bus) Unsubscribe(name string, listeners ...*Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case name == "" && len(listeners) == 0:
		clear(b.listeners)
	case len(listeners) == 0:
		delete(b.listeners, name)
	case name == "":
		for n := range b.listeners {
			b.removeLocked(n, listeners)
		}
	default:
		b.removeLocked(name, listeners)
	}
}

// removeLocked drops the given listeners from name. Caller must hold b.mu.
func (b *Bus) removeLocked(name string, targets []*Listener) {
	current := b.listeners[name]
	if len(current) == 0 {
		return
	}

	// Copy before removing so snapshots held by in-flight publishes stay intact.
	next := slices.Clone(current)

	for i := len(next) - 1; i >= 0; i-- {
		if slices.Contains(targets, next[i]) {
			next = slices.Delete(next, i, i+1)
		}
	}

	if len(next) == 0 {
		delete(b.listeners, name)

		return
	}

	b.listeners[name] = next
}

// Publish invokes every listener of name with args and returns the last
// non-nil value any of them returned.
func (b *Bus) Publish(name string, args ...any) any {
	if isMeta(name) {
		return b.dispatch(name, args)
	}

	meta := make([]any, 0, len(args)+1)
	meta = append(meta, name)
	meta = append(meta, args...)

	b.dispatch(EventBefore, meta)
	result := b.dispatch(name, args)
	b.dispatch(EventAfter, meta)

	return result
}

// Has reports whether name has at least one listener.
func (b *Bus) Has(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.listeners[name]) > 0
}

// Len returns the number of listeners registered for name.
func (b *Bus) Len(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.listeners[name])
}

func (b *Bus) dispatch(name string, args []any) any {
	b.mu.RLock()
	snapshot := b.listeners[name]
	b.mu.RUnlock()

	if len(snapshot) == 0 {
		return nil
	}

	var (
		result any
		spent  []*Listener
	)

	for i, l := range snapshot {
		if l == nil || l.fn == nil {
			b.log.Error("Corrupt listener slot, aborting dispatch", "event", name, "index", i)

			break
		}

		if l.once {
			if !l.spent.CompareAndSwap(false, true) {
				continue
			}

			spent = append(spent, l)
		}

		if v := l.fn(args...); v != nil {
			result = v
		}
	}

	if len(spent) > 0 {
		b.mu.Lock()
		b.removeLocked(name, spent)
		b.mu.Unlock()
	}

	return result
}

func isMeta(name string) bool {
	return name == EventBefore || name == EventAfter
}
