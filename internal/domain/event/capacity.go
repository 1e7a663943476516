package event

import "slices"

type Outcome string

const (
	OutcomeRegistered        Outcome = "registered"
	OutcomeWaitlisted        Outcome = "waitlisted"
	OutcomeCancelled         Outcome = "cancelled"
	OutcomeLeftWaitlist      Outcome = "left_waitlist"
	OutcomeAlreadyRegistered Outcome = "already_registered"
	OutcomeAlreadyWaitlisted Outcome = "already_waitlisted"
	OutcomeNotRegistered     Outcome = "not_registered"
)

// Message is the user-facing status string for an outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeRegistered:
		return "You are registered for this event"
	case OutcomeWaitlisted:
		return "This event is full; you have been added to the waitlist"
	case OutcomeCancelled:
		return "Your registration has been cancelled"
	case OutcomeLeftWaitlist:
		return "You have been removed from the waitlist"
	case OutcomeAlreadyRegistered:
		return "You are already registered for this event"
	case OutcomeAlreadyWaitlisted:
		return "You are already on the waitlist for this event"
	case OutcomeNotRegistered:
		return "You are not registered for this event"
	default:
		return string(o)
	}
}

// Transition is the result of applying Join or Cancel to an event.
// Event holds the new lists; it equals the input when Changed is false.
type Transition struct {
	Event    Event
	Outcome  Outcome
	Promoted string
	Changed  bool
}

// Join registers userID when there is room, otherwise appends it to the
// waitlist. The input event is not modified.
func Join(e Event, userID string) Transition {
	if e.IsRegistered(userID) {
		return Transition{Event: e, Outcome: OutcomeAlreadyRegistered}
	}
	if e.IsWaitlisted(userID) {
		return Transition{Event: e, Outcome: OutcomeAlreadyWaitlisted}
	}

	next := e
	if e.hasRoom() {
		next.Registrants = appendCopy(e.Registrants, userID)
		return Transition{Event: next, Outcome: OutcomeRegistered, Changed: true}
	}

	next.Waitlist = appendCopy(e.Waitlist, userID)
	return Transition{Event: next, Outcome: OutcomeWaitlisted, Changed: true}
}

// Cancel removes userID from the registrants and promotes the head of the
// waitlist into the freed slot, or removes userID from the waitlist without
// promotion. The input event is not modified.
func Cancel(e Event, userID string) Transition {
	next := e

	if i := slices.Index(e.Registrants, userID); i >= 0 {
		next.Registrants = slices.Delete(slices.Clone(e.Registrants), i, i+1)

		t := Transition{Outcome: OutcomeCancelled, Changed: true}
		if len(next.Waitlist) > 0 && next.hasRoom() {
			t.Promoted = next.Waitlist[0]
			next.Registrants = append(next.Registrants, t.Promoted)
			next.Waitlist = slices.Clone(next.Waitlist[1:])
		}
		t.Event = next
		return t
	}

	if i := slices.Index(e.Waitlist, userID); i >= 0 {
		next.Waitlist = slices.Delete(slices.Clone(e.Waitlist), i, i+1)
		return Transition{Event: next, Outcome: OutcomeLeftWaitlist, Changed: true}
	}

	return Transition{Event: e, Outcome: OutcomeNotRegistered}
}

func appendCopy(list []string, id string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	return append(out, id)
}
