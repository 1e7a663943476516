package event

import (
	"errors"
	"slices"
	"time"
)

var ErrNotFound = errors.New("event not found")

// Event is the attendance view of an event document. Version increases on
// every attendance write and backs the store's check-and-set.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	StartsAt    *time.Time
	CreatedBy   string

	// Capacity is the registrant bound; nil or non-positive means unlimited.
	Capacity    *int
	Registrants []string
	Waitlist    []string

	Version   int64
	UpdatedAt time.Time
}

func (e Event) HasCapacityBound() bool {
	return e.Capacity != nil && *e.Capacity > 0
}

func (e Event) hasRoom() bool {
	return !e.HasCapacityBound() || len(e.Registrants) < *e.Capacity
}

func (e Event) IsRegistered(userID string) bool {
	return slices.Contains(e.Registrants, userID)
}

func (e Event) IsWaitlisted(userID string) bool {
	return slices.Contains(e.Waitlist, userID)
}

// WaitlistPosition returns the 1-based queue position of userID, or 0.
func (e Event) WaitlistPosition(userID string) int {
	return slices.Index(e.Waitlist, userID) + 1
}
