// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import "sync"

// Kind identifies what changed.
type Kind string

const (
	KindPollCreated  Kind = "poll_created"
	KindPollDeleted  Kind = "poll_deleted"
	KindVotesChanged Kind = "votes_changed"
)

// Event is an invalidation hint: it tells a subscriber that the named poll
// (or the poll list) changed and should be re-read. The payload carries no
// state and must never be treated as a source of truth.
type Event struct {
	Kind   Kind   `json:"kind"`
	PollID string `json:"poll_id"`
}

type subscriber struct {
	pollID string // "" subscribes to every event
	ch     chan Event
}

// Hub fans events out to subscribers. Delivery is best-effort: a
// subscriber whose buffer is full misses the event, which is safe because
// subscribers reconcile by re-reading the store.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers interest in events for one poll, or in all events
// when pollID is empty. The returned cancel func must be called when the
// subscriber goes away; the channel is never closed.
func (h *Hub) Subscribe(pollID string) (<-chan Event, func()) {
	sub := &subscriber{pollID: pollID, ch: make(chan Event, 16)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
	}
	return sub.ch, cancel
}

// Publish delivers the event to every matching subscriber without
// blocking. A full subscriber buffer drops the event for that subscriber.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		if sub.pollID != "" && sub.pollID != ev.PollID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}
