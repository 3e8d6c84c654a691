// Package notifications implements the real-time notification side of the
// client: a long-lived channel to the backend and a dispatcher that
// surfaces each event to UI consumers at most once.
package notifications

import (
	"encoding/json"
	"time"
)

// EventType is the closed set of notification kinds the backend emits.
// Unrecognized wire values map to TypeUnknown so a new backend type cannot
// crash the dispatcher; they produce no presentation but are still marked
// processed.
type EventType int

const (
	TypeUnknown EventType = iota
	TypeLike
	TypeComment
	TypeBookmark
)

func (t EventType) String() string {
	switch t {
	case TypeLike:
		return "Like"
	case TypeComment:
		return "Comment"
	case TypeBookmark:
		return "Bookmark"
	default:
		return "Unknown"
	}
}

func (t *EventType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "Like":
		*t = TypeLike
	case "Comment":
		*t = TypeComment
	case "Bookmark":
		*t = TypeBookmark
	default:
		*t = TypeUnknown
	}
	return nil
}

func (t EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Affordance is the display treatment of a presented notification.
type Affordance int

const (
	AffordanceNone Affordance = iota
	AffordanceSuccess
	AffordanceInfo
	AffordanceWarning
)

func (a Affordance) String() string {
	switch a {
	case AffordanceSuccess:
		return "success"
	case AffordanceInfo:
		return "info"
	case AffordanceWarning:
		return "warning"
	default:
		return "none"
	}
}

// Affordance maps an event type to its display treatment. The mapping is
// exhaustive over the known types; unknown types get no display.
func (t EventType) Affordance() Affordance {
	switch t {
	case TypeLike:
		return AffordanceSuccess
	case TypeComment:
		return AffordanceInfo
	case TypeBookmark:
		return AffordanceWarning
	default:
		return AffordanceNone
	}
}

// Title is the short human-readable headline for a toast.
func (t EventType) Title() string {
	switch t {
	case TypeLike:
		return "New like"
	case TypeComment:
		return "New comment"
	case TypeBookmark:
		return "New bookmark"
	default:
		return ""
	}
}

// PostRef identifies the post a notification refers to.
type PostRef struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Event is a discrete notification record pushed by the backend. The ID is
// backend-assigned and unique; Seen transitions only via an explicit
// mark-seen acknowledgment.
type Event struct {
	ID   int64     `json:"id"`
	Type EventType `json:"type"`
	Post PostRef   `json:"post"`
	Seen bool      `json:"seen"`
	Date time.Time `json:"date"`
}

// envelope is the outer tagged structure of a real-time message. Only
// envelopes tagged as a notification are forwarded downstream.
type envelope struct {
	Type    string          `json:"type"`
	Message json.RawMessage `json:"message"`
}

const envelopeTypeNotification = "notification"
