package usecase

import (
	"context"
	"errors"
	"strings"

	"alumni-connect/internal/domain/event"
	"alumni-connect/internal/metrics"
	"alumni-connect/internal/repository"

	"go.uber.org/zap"
)

const (
	operationJoin   = "join"
	operationCancel = "cancel"
)

// Promotion is reported when a cancellation moves a waitlisted user into
// the freed slot.
type Promotion struct {
	EventID    string
	EventTitle string
	UserID     string
}

// PromotionNotifier delivers promotions to the promoted user. It is called
// after the write commits and must not block.
type PromotionNotifier interface {
	NotifyPromoted(ctx context.Context, p Promotion)
}

type AttendanceResult struct {
	EventID          string
	Outcome          event.Outcome
	PromotedUserID   string
	WaitlistPosition int
	RegisteredCount  int
	WaitlistCount    int
	Capacity         *int
}

type EventRegistrationUsecase interface {
	GetEvent(ctx context.Context, eventID string) (event.Event, error)
	Join(ctx context.Context, eventID, userID string) (AttendanceResult, error)
	Cancel(ctx context.Context, eventID, userID string) (AttendanceResult, error)
}

type EventRegistration struct {
	events      repository.EventRepository
	notifier    PromotionNotifier
	maxAttempts int
	metrics     *metrics.Manager
	logger      *zap.Logger
}

func NewEventRegistrationUsecase(events repository.EventRepository, notifier PromotionNotifier, maxAttempts int, m *metrics.Manager, logger *zap.Logger) *EventRegistration {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventRegistration{events: events, notifier: notifier, maxAttempts: maxAttempts, metrics: m, logger: logger}
}

func (u *EventRegistration) GetEvent(ctx context.Context, eventID string) (event.Event, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return event.Event{}, ErrInvalidInput
	}
	e, err := u.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			return event.Event{}, ErrEventNotFound
		}
		return event.Event{}, storeError(err)
	}
	return e, nil
}

func (u *EventRegistration) Join(ctx context.Context, eventID, userID string) (AttendanceResult, error) {
	return u.apply(ctx, operationJoin, eventID, userID, event.Join)
}

func (u *EventRegistration) Cancel(ctx context.Context, eventID, userID string) (AttendanceResult, error) {
	return u.apply(ctx, operationCancel, eventID, userID, event.Cancel)
}

// apply runs read, transition and conditional write, re-reading on a version
// conflict until maxAttempts writes have been rejected.
func (u *EventRegistration) apply(ctx context.Context, op, eventID, userID string, transition func(event.Event, string) event.Transition) (AttendanceResult, error) {
	eventID = strings.TrimSpace(eventID)
	userID = strings.TrimSpace(userID)
	if eventID == "" || userID == "" {
		return AttendanceResult{}, ErrInvalidInput
	}

	for attempt := 1; attempt <= u.maxAttempts; attempt++ {
		e, err := u.GetEvent(ctx, eventID)
		if err != nil {
			return AttendanceResult{}, err
		}

		t := transition(e, userID)
		if !t.Changed {
			u.metrics.IncAttendance(op, string(t.Outcome))
			return resultOf(t, userID), nil
		}

		version, err := u.events.UpdateAttendance(ctx, eventID, e.Version, t.Event.Registrants, t.Event.Waitlist)
		if errors.Is(err, repository.ErrEventVersionConflict) {
			u.metrics.IncConflictRetry()
			u.logger.Debug("attendance write conflict",
				zap.String("operation", op),
				zap.String("event_id", eventID),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return AttendanceResult{}, storeError(err)
		}
		t.Event.Version = version

		u.metrics.IncAttendance(op, string(t.Outcome))
		if t.Promoted != "" {
			u.promote(ctx, t)
		}
		return resultOf(t, userID), nil
	}

	u.logger.Warn("attendance retries exhausted",
		zap.String("operation", op),
		zap.String("event_id", eventID),
		zap.Int("attempts", u.maxAttempts),
	)
	return AttendanceResult{}, ErrConcurrencyConflict
}

func (u *EventRegistration) promote(ctx context.Context, t event.Transition) {
	u.metrics.IncPromotion()
	u.logger.Info("waitlist promotion",
		zap.String("event_id", t.Event.ID),
		zap.String("user_id", t.Promoted),
	)
	if u.notifier != nil {
		u.notifier.NotifyPromoted(ctx, Promotion{EventID: t.Event.ID, EventTitle: t.Event.Title, UserID: t.Promoted})
	}
}

func resultOf(t event.Transition, userID string) AttendanceResult {
	return AttendanceResult{
		EventID:          t.Event.ID,
		Outcome:          t.Outcome,
		PromotedUserID:   t.Promoted,
		WaitlistPosition: t.Event.WaitlistPosition(userID),
		RegisteredCount:  len(t.Event.Registrants),
		WaitlistCount:    len(t.Event.Waitlist),
		Capacity:         t.Event.Capacity,
	}
}
