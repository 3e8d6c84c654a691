package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/quillhq/quill/internal/logging"
)

// ToastDuration is how long a presented toast stays on screen.
const ToastDuration = 5 * time.Second

// Toast is the transient UI affordance produced for a presented event.
type Toast struct {
	EventID    int64
	Affordance Affordance
	Title      string
	PostTitle  string
	PostSlug   string
	Duration   time.Duration
}

// Acker performs the server-side mark-seen acknowledgment.
type Acker interface {
	MarkNotificationSeen(ctx context.Context, notiID int64) error
}

// Dispatcher consumes events from a Channel and surfaces each distinct
// event ID to subscribers at most once, no matter how many times the
// underlying channel delivers it. The dedup set is per-instance and
// ephemeral: it resets with the dispatcher, matching a full page reload.
type Dispatcher struct {
	acker Acker
	log   logging.Logger

	mu        sync.Mutex
	processed map[int64]Event
	subs      map[int]func(Toast)
	nextSub   int
}

func NewDispatcher(acker Acker, log logging.Logger) *Dispatcher {
	return &Dispatcher{
		acker:     acker,
		log:       log,
		processed: make(map[int64]Event),
		subs:      make(map[int]func(Toast)),
	}
}

// Subscribe registers a handler for presented toasts and returns its
// unsubscribe function.
func (d *Dispatcher) Subscribe(handler func(Toast)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextSub
	d.nextSub++
	d.subs[id] = handler

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.subs, id)
	}
}

// OnEvent handles one delivered event: duplicates are discarded, known
// types produce exactly one toast, unknown types produce none — but every
// ID ends up in the processed set so redelivery never re-presents it.
func (d *Dispatcher) OnEvent(ctx context.Context, ev Event) {
	d.mu.Lock()
	if _, dup := d.processed[ev.ID]; dup {
		d.mu.Unlock()
		return
	}
	d.processed[ev.ID] = ev

	aff := ev.Type.Affordance()
	var handlers []func(Toast)
	if aff != AffordanceNone {
		handlers = make([]func(Toast), 0, len(d.subs))
		for _, h := range d.subs {
			handlers = append(handlers, h)
		}
	}
	d.mu.Unlock()

	if aff == AffordanceNone {
		d.log.Debug(ctx, "ignoring notification of unknown type", "id", ev.ID)
		return
	}

	toast := Toast{
		EventID:    ev.ID,
		Affordance: aff,
		Title:      ev.Type.Title(),
		PostTitle:  ev.Post.Title,
		PostSlug:   ev.Post.Slug,
		Duration:   ToastDuration,
	}
	for _, h := range handlers {
		h(toast)
	}
}

// Activate is the "click" on a presented toast: it acknowledges the event
// server-side and returns the slug of the referenced post for navigation.
// The acknowledgment is fire-and-forget — a failure is logged and does not
// roll back the local processed marking, so the event is never re-shown
// even if the server's seen flag lags.
func (d *Dispatcher) Activate(ctx context.Context, eventID int64) (string, bool) {
	d.mu.Lock()
	ev, ok := d.processed[eventID]
	d.mu.Unlock()
	if !ok {
		return "", false
	}

	go func() {
		if err := d.acker.MarkNotificationSeen(context.WithoutCancel(ctx), eventID); err != nil {
			d.log.Warn(ctx, "failed to mark notification as seen", "id", eventID, "err", err)
		}
	}()

	return ev.Post.Slug, true
}

// Run dispatches events from the given stream, in delivery order, until it
// is closed or ctx is canceled.
func (d *Dispatcher) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.OnEvent(ctx, ev)
		case <-ctx.Done():
			return
		}
	}
}
