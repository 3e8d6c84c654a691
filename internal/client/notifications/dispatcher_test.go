package notifications

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/quillhq/quill/internal/logging"
	"github.com/stretchr/testify/require"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeAcker records mark-seen calls and can be told to fail.
type fakeAcker struct {
	mu    sync.Mutex
	calls []int64
	err   error
	done  chan struct{}
}

func newFakeAcker(err error) *fakeAcker {
	return &fakeAcker{err: err, done: make(chan struct{}, 16)}
}

func (f *fakeAcker) MarkNotificationSeen(ctx context.Context, notiID int64) error {
	f.mu.Lock()
	f.calls = append(f.calls, notiID)
	f.mu.Unlock()
	f.done <- struct{}{}
	return f.err
}

func (f *fakeAcker) callIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.calls...)
}

func likeEvent(id int64) Event {
	return Event{ID: id, Type: TypeLike, Post: PostRef{Title: "Post", Slug: "post"}, Date: time.Now()}
}

func TestOnEvent_DuplicateIDsPresentedOnce(t *testing.T) {
	d := NewDispatcher(newFakeAcker(nil), discardLogger())

	var toasts []Toast
	unsub := d.Subscribe(func(tst Toast) { toasts = append(toasts, tst) })
	defer unsub()

	ctx := context.Background()
	d.OnEvent(ctx, likeEvent(1))
	d.OnEvent(ctx, likeEvent(2))
	d.OnEvent(ctx, likeEvent(1))

	require.Len(t, toasts, 2)
	require.Equal(t, int64(1), toasts[0].EventID)
	require.Equal(t, int64(2), toasts[1].EventID)
}

func TestOnEvent_AffordanceMapping(t *testing.T) {
	d := NewDispatcher(newFakeAcker(nil), discardLogger())

	var toasts []Toast
	d.Subscribe(func(tst Toast) { toasts = append(toasts, tst) })

	ctx := context.Background()
	d.OnEvent(ctx, Event{ID: 1, Type: TypeLike})
	d.OnEvent(ctx, Event{ID: 2, Type: TypeComment})
	d.OnEvent(ctx, Event{ID: 3, Type: TypeBookmark})

	require.Len(t, toasts, 3)
	require.Equal(t, AffordanceSuccess, toasts[0].Affordance)
	require.Equal(t, AffordanceInfo, toasts[1].Affordance)
	require.Equal(t, AffordanceWarning, toasts[2].Affordance)
	for _, tst := range toasts {
		require.Equal(t, ToastDuration, tst.Duration)
	}
}

func TestOnEvent_UnknownTypeNotPresentedButProcessed(t *testing.T) {
	d := NewDispatcher(newFakeAcker(nil), discardLogger())

	var toasts []Toast
	d.Subscribe(func(tst Toast) { toasts = append(toasts, tst) })

	ctx := context.Background()
	d.OnEvent(ctx, Event{ID: 7, Type: TypeUnknown})
	// redelivery of the unknown event must still be suppressed
	d.OnEvent(ctx, Event{ID: 7, Type: TypeLike})

	require.Empty(t, toasts)
}

func TestActivate_AcksAndReturnsSlug(t *testing.T) {
	acker := newFakeAcker(nil)
	d := NewDispatcher(acker, discardLogger())

	ctx := context.Background()
	d.OnEvent(ctx, likeEvent(5))

	slug, ok := d.Activate(ctx, 5)
	require.True(t, ok)
	require.Equal(t, "post", slug)

	select {
	case <-acker.done:
	case <-time.After(time.Second):
		t.Fatal("mark-seen was not called")
	}
	require.Equal(t, []int64{5}, acker.callIDs())
}

func TestActivate_UnknownEvent(t *testing.T) {
	d := NewDispatcher(newFakeAcker(nil), discardLogger())

	_, ok := d.Activate(context.Background(), 99)
	require.False(t, ok)
}

func TestActivate_AckFailureDoesNotReshow(t *testing.T) {
	acker := newFakeAcker(errors.New("server down"))
	d := NewDispatcher(acker, discardLogger())

	var toasts []Toast
	d.Subscribe(func(tst Toast) { toasts = append(toasts, tst) })

	ctx := context.Background()
	d.OnEvent(ctx, likeEvent(1))

	_, ok := d.Activate(ctx, 1)
	require.True(t, ok)
	select {
	case <-acker.done:
	case <-time.After(time.Second):
		t.Fatal("mark-seen was not called")
	}

	// the failed ack must not make the event presentable again
	d.OnEvent(ctx, likeEvent(1))
	require.Len(t, toasts, 1)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	d := NewDispatcher(newFakeAcker(nil), discardLogger())

	var toasts []Toast
	unsub := d.Subscribe(func(tst Toast) { toasts = append(toasts, tst) })

	ctx := context.Background()
	d.OnEvent(ctx, likeEvent(1))
	unsub()
	d.OnEvent(ctx, likeEvent(2))

	require.Len(t, toasts, 1)
}

func TestRun_DispatchesInDeliveryOrderUntilClose(t *testing.T) {
	d := NewDispatcher(newFakeAcker(nil), discardLogger())

	var mu sync.Mutex
	var order []int64
	d.Subscribe(func(tst Toast) {
		mu.Lock()
		order = append(order, tst.EventID)
		mu.Unlock()
	})

	events := make(chan Event, 4)
	events <- likeEvent(3)
	events <- likeEvent(1)
	events <- likeEvent(2)
	close(events)

	done := make(chan struct{})
	go func() {
		d.Run(context.Background(), events)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after the stream closed")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int64{3, 1, 2}, order)
}
