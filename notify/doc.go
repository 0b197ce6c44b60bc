// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify propagates poll and vote-count changes to live viewers.

# Model

Events are cache-invalidation hints, not data. Subscribers that receive
an event re-read the authoritative state from the store; a missed or
duplicated event is therefore harmless. Delivery is at-least-once for a
subscriber that keeps up, unordered across subscribers, and drops under
backpressure.

# Usage

	hub := notify.NewHub()

	// per-poll viewer
	events, cancel := hub.Subscribe(pollID)
	defer cancel()

	// poll-list viewer
	all, cancelAll := hub.Subscribe("")

	hub.Publish(notify.Event{Kind: notify.KindVotesChanged, PollID: pollID})

The store publishes after its transaction commits, so an event never
announces a change that was rolled back. The websocket edge of this hub
lives in handlers/events.go.
*/
package notify
