package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDispatchQueue_GrowsPastCapacity(t *testing.T) {
	q := newDispatchQueue(1)

	var (
		mu  sync.Mutex
		got []int
	)

	for i := range 10 {
		q.enqueue(func(context.Context) {
			mu.Lock()
			defer mu.Unlock()

			got = append(got, i)
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	go q.run(ctx)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(got) == 10
	}, waitFor, 5*time.Millisecond)

	cancel()
	q.wait()

	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestDispatchQueue_WaitFromCallback(t *testing.T) {
	q := newDispatchQueue(0)
	ctx, cancel := context.WithCancel(context.Background())

	go q.run(ctx)

	returned := make(chan struct{})
	next := make(chan struct{})

	q.enqueue(func(context.Context) {
		cancel()
		q.wait()
		close(returned)
	})
	q.enqueue(func(context.Context) {
		close(next)
	})

	select {
	case <-returned:
	case <-time.After(waitFor):
		t.Fatal("wait blocked inside a callback")
	}

	select {
	case <-q.stopped:
	case <-time.After(waitFor):
		t.Fatal("run did not stop after cancellation")
	}

	select {
	case <-next:
		t.Fatal("callback ran after cancellation")
	default:
	}
}
