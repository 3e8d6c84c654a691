package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/quillhq/quill/internal/logging"
)

// Channel is a single long-lived WebSocket connection delivering
// notification events. It is opened once per authenticated session by its
// owner and closed on teardown; it does not reconnect by itself — when the
// connection drops, events stop until the owner opens a new Channel.
//
// Lifecycle signals (open, close, error) are logged, not surfaced.
type Channel struct {
	conn   *websocket.Conn
	events chan Event
	done   chan struct{}
	log    logging.Logger

	closeOnce sync.Once

	mu  sync.Mutex
	err error
}

// Dial connects to the notifications endpoint, authenticating with the
// given access token, and starts reading events.
func Dial(ctx context.Context, wsURL, accessToken string, log logging.Logger) (*Channel, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid notifications url: %w", err)
	}
	q := u.Query()
	q.Set("token", accessToken)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open notification channel: %w", err)
	}

	c := &Channel{
		conn:   conn,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
		log:    log,
	}

	log.Info(ctx, "notification channel opened", "url", wsURL)
	go c.readLoop()

	return c, nil
}

func (c *Channel) readLoop() {
	ctx := context.Background()
	defer close(c.events)

	for {
		var env envelope
		if err := wsjson.Read(ctx, c.conn, &env); err != nil {
			c.setErr(err)
			c.log.Debug(ctx, "notification channel closed", "err", err)
			return
		}

		if env.Type != envelopeTypeNotification {
			continue
		}

		var ev Event
		if err := json.Unmarshal(env.Message, &ev); err != nil {
			c.log.Warn(ctx, "dropping undecodable notification", "err", err)
			continue
		}

		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

// Events returns the stream of notification events. The channel is closed
// when the connection closes; no events are delivered after Close.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Err reports why the channel stopped, if it has.
func (c *Channel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Channel) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	}
}

// Close tears the connection down. Safe to call more than once.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close(websocket.StatusNormalClosure, "")
	})
}
