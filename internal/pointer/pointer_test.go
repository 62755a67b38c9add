package pointer

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/valu-sdk-go/internal/errors"
	"github.com/wagiedev/valu-sdk-go/internal/protocol"
)

// mockRouter records routed calls and released ids.
type mockRouter struct {
	mu       sync.Mutex
	calls    []*protocol.Run
	released []string
	routed   chan *protocol.Run
	err      error
}

func newMockRouter() *mockRouter {
	return &mockRouter{routed: make(chan *protocol.Run, 10)}
}

func (m *mockRouter) Route(_ context.Context, _ *Handle, call *protocol.Run) error {
	if m.err != nil {
		return m.err
	}

	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()

	m.routed <- call

	return nil
}

func (m *mockRouter) Release(requestID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.released = append(m.released, requestID)
}

func (m *mockRouter) next(t *testing.T) *protocol.Run {
	t.Helper()

	select {
	case call := <-m.routed:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("call was not routed")

		return nil
	}
}

type result struct {
	value any
	err   error
}

func invokeAsync(ctx context.Context, h *Handle, fn string, params any) <-chan result {
	out := make(chan result, 1)

	go func() {
		v, err := h.Invoke(ctx, fn, params)
		out <- result{value: v, err: err}
	}()

	return out
}

func await(t *testing.T, ch <-chan result) result {
	t.Helper()

	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("invocation did not complete")

		return result{}
	}
}

func TestHandle_Accessors(t *testing.T) {
	h := New(nil, "p1", "users", 3, newMockRouter(), make(chan struct{}))

	require.Equal(t, "p1", h.ID())
	require.Equal(t, "users", h.Name())
	require.Equal(t, 3, h.Version())
}

func TestHandle_InvokeOutOfOrderReplies(t *testing.T) {
	router := newMockRouter()
	h := New(nil, "p1", "users", 1, router, make(chan struct{}))
	ctx := context.Background()

	first := invokeAsync(ctx, h, "get", map[string]any{"id": 1})
	firstCall := router.next(t)

	second := invokeAsync(ctx, h, "get", map[string]any{"id": 2})
	secondCall := router.next(t)

	require.NotEqual(t, firstCall.RequestID, secondCall.RequestID)
	require.Equal(t, "p1", firstCall.APIPointerID)
	require.Equal(t, "get", firstCall.FunctionName)
	require.Equal(t, 2, h.Pending())

	// Deliver in reverse order.
	require.True(t, h.CompleteInvocation(secondCall.RequestID, protocol.Ok("two")))
	require.True(t, h.CompleteInvocation(firstCall.RequestID, protocol.Ok("one")))

	r1 := await(t, first)
	r2 := await(t, second)

	require.NoError(t, r1.err)
	require.NoError(t, r2.err)
	require.Equal(t, "one", r1.value)
	require.Equal(t, "two", r2.value)
	require.Equal(t, 0, h.Pending())
}

func TestHandle_InvokeErrorReply(t *testing.T) {
	router := newMockRouter()
	h := New(nil, "p1", "users", 1, router, make(chan struct{}))

	pending := invokeAsync(context.Background(), h, "delete", nil)
	call := router.next(t)

	h.CompleteInvocation(call.RequestID, protocol.Err("permission denied"))

	r := await(t, pending)

	invErr, ok := stderrors.AsType[*errors.InvocationError](r.err)
	require.True(t, ok)
	require.Equal(t, "permission denied", invErr.Message)
	require.Equal(t, "delete", invErr.Function)
}

func TestHandle_UnknownReplyDoesNotDisturbPending(t *testing.T) {
	router := newMockRouter()
	h := New(nil, "p1", "users", 1, router, make(chan struct{}))

	pending := invokeAsync(context.Background(), h, "get", nil)
	call := router.next(t)

	require.False(t, h.CompleteInvocation("unknown", protocol.Ok("stray")))
	require.Equal(t, 1, h.Pending())

	select {
	case <-pending:
		t.Fatal("pending call settled by an unrelated reply")
	case <-time.After(20 * time.Millisecond):
	}

	h.CompleteInvocation(call.RequestID, protocol.Ok("mine"))
	require.Equal(t, "mine", await(t, pending).value)

	// A duplicate delivery is dropped.
	require.False(t, h.CompleteInvocation(call.RequestID, protocol.Ok("again")))
}

func TestHandle_InvokeContextCancelReleases(t *testing.T) {
	router := newMockRouter()
	h := New(nil, "p1", "users", 1, router, make(chan struct{}))

	ctx, cancel := context.WithCancel(context.Background())
	pending := invokeAsync(ctx, h, "slow", nil)
	call := router.next(t)

	cancel()

	r := await(t, pending)
	require.ErrorIs(t, r.err, context.Canceled)
	require.Equal(t, 0, h.Pending())

	router.mu.Lock()
	require.Equal(t, []string{call.RequestID}, router.released)
	router.mu.Unlock()
}

func TestHandle_InvokeClientClosed(t *testing.T) {
	router := newMockRouter()
	done := make(chan struct{})
	h := New(nil, "p1", "users", 1, router, done)

	pending := invokeAsync(context.Background(), h, "get", nil)
	router.next(t)

	close(done)

	require.ErrorIs(t, await(t, pending).err, errors.ErrClientClosed)
}

func TestHandle_RouteFailure(t *testing.T) {
	router := newMockRouter()
	router.err = errors.ErrNotConnected
	h := New(nil, "p1", "users", 1, router, make(chan struct{}))

	_, err := h.Invoke(context.Background(), "get", nil)
	require.ErrorIs(t, err, errors.ErrNotConnected)
	require.Equal(t, 0, h.Pending())
}

func TestHandle_EventsArePrivate(t *testing.T) {
	a := New(nil, "a", "users", 1, newMockRouter(), make(chan struct{}))
	b := New(nil, "b", "users", 1, newMockRouter(), make(chan struct{}))

	var got []any

	a.Subscribe("changed", func(args ...any) any {
		got = append(got, args...)

		return nil
	}, false)

	b.Emit("changed", "for b")
	require.Empty(t, got)

	a.Emit("changed", "for a")
	require.Equal(t, []any{"for a"}, got)

	a.Unsubscribe("changed")
	a.Emit("changed", "ignored")
	require.Equal(t, []any{"for a"}, got)
}
