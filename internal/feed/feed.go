// Package feed delivers row-level change events from the persistent store.
package feed

import (
	"encoding/json"
	"fmt"

	"github.com/tushy123/minyan-now/internal/model"
)

// EventType identifies what changed at the source of truth.
type EventType string

const (
	// Connected is emitted after the listener (re)establishes its
	// subscription. Consumers should run a full refresh on it, since events
	// may have been dropped while disconnected.
	Connected EventType = "connected"

	SpaceInserted     EventType = "space_inserted"
	SpaceUpdated      EventType = "space_updated"
	SpaceDeleted      EventType = "space_deleted"
	MembershipChanged EventType = "membership_changed"
)

// Event is a single change notification. Space is populated for inserts and
// updates; SpaceID for deletes and membership changes. Membership events do
// not carry row snapshots, only the affected space id.
type Event struct {
	Type    EventType
	Space   *model.Space
	SpaceID string
}

// Source is the stream the reconciler consumes. Delivery may be duplicated
// or out of order; consumers must apply events idempotently.
type Source interface {
	Events() <-chan Event
	Errors() <-chan error
}

// payload is the JSON body the database triggers attach to notifications.
type payload struct {
	Table   string          `json:"table"`
	Op      string          `json:"op"`
	Row     json.RawMessage `json:"row"`
	SpaceID string          `json:"space_id"`
}

// parsePayload maps a notification payload to an Event.
func parsePayload(raw string) (Event, error) {
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Event{}, fmt.Errorf("malformed change payload: %w", err)
	}

	switch p.Table {
	case "memberships":
		if p.SpaceID == "" {
			return Event{}, fmt.Errorf("membership change payload missing space_id")
		}
		return Event{Type: MembershipChanged, SpaceID: p.SpaceID}, nil

	case "spaces":
		switch p.Op {
		case "INSERT", "UPDATE":
			var space model.Space
			if err := json.Unmarshal(p.Row, &space); err != nil {
				return Event{}, fmt.Errorf("malformed space row in change payload: %w", err)
			}
			if p.Op == "INSERT" {
				return Event{Type: SpaceInserted, Space: &space, SpaceID: space.ID}, nil
			}
			return Event{Type: SpaceUpdated, Space: &space, SpaceID: space.ID}, nil
		case "DELETE":
			var row struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(p.Row, &row); err != nil || row.ID == "" {
				return Event{}, fmt.Errorf("malformed space delete in change payload")
			}
			return Event{Type: SpaceDeleted, SpaceID: row.ID}, nil
		}
	}
	return Event{}, fmt.Errorf("unrecognized change payload table=%q op=%q", p.Table, p.Op)
}
