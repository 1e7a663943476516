package usecase

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"alumni-connect/internal/domain/event"
	"alumni-connect/internal/domain/mentorship"
	"alumni-connect/internal/domain/profile"
	"alumni-connect/internal/repository"
)

type fakeProfileRepo struct {
	pool  []profile.Profile
	byID  map[string]profile.Profile
	err   error
	calls int
}

func (f *fakeProfileRepo) ListMentorCandidates(context.Context) ([]profile.Profile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pool, nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (profile.Profile, error) {
	if f.err != nil {
		return profile.Profile{}, f.err
	}
	p, ok := f.byID[id]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}

type memoryCache struct {
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (m *memoryCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := m.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = b
	return nil
}

// memoryEventRepo is a check-and-set store keyed by event id.
type memoryEventRepo struct {
	mu     sync.Mutex
	events map[string]event.Event
	getErr error
	setErr error

	// conflicts forces this many UpdateAttendance calls to lose.
	conflicts int
	writes    int
}

func newMemoryEventRepo(events ...event.Event) *memoryEventRepo {
	r := &memoryEventRepo{events: map[string]event.Event{}}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *memoryEventRepo) GetByID(_ context.Context, id string) (event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return event.Event{}, r.getErr
	}
	e, ok := r.events[id]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}
	e.Registrants = slices.Clone(e.Registrants)
	e.Waitlist = slices.Clone(e.Waitlist)
	return e, nil
}

func (r *memoryEventRepo) UpdateAttendance(_ context.Context, id string, expectedVersion int64, registrants, waitlist []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return 0, r.setErr
	}
	if r.conflicts > 0 {
		r.conflicts--
		return 0, repository.ErrEventVersionConflict
	}
	e, ok := r.events[id]
	if !ok || e.Version != expectedVersion {
		return 0, repository.ErrEventVersionConflict
	}
	e.Registrants = slices.Clone(registrants)
	e.Waitlist = slices.Clone(waitlist)
	e.Version++
	r.events[id] = e
	r.writes++
	return e.Version, nil
}

func (r *memoryEventRepo) snapshot(id string) event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[id]
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []Promotion
}

func (n *recordingNotifier) NotifyPromoted(_ context.Context, p Promotion) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, p)
}

type fakeRequestRepo struct {
	created    []mentorship.Request
	list       []mentorship.Request
	byID       map[string]mentorship.Request
	err        error
	respondErr error
	limit      int
}

func (f *fakeRequestRepo) Create(_ context.Context, req mentorship.Request) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, req)
	return nil
}

func (f *fakeRequestRepo) ListByMentor(_ context.Context, _ string, limit int) ([]mentorship.Request, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (mentorship.Request, error) {
	if f.err != nil {
		return mentorship.Request{}, f.err
	}
	req, ok := f.byID[id]
	if !ok {
		return mentorship.Request{}, mentorship.ErrNotFound
	}
	return req, nil
}

func (f *fakeRequestRepo) Respond(_ context.Context, id, mentorID string, status mentorship.Status, at time.Time) (mentorship.Request, error) {
	if f.respondErr != nil {
		return mentorship.Request{}, f.respondErr
	}
	req, ok := f.byID[id]
	if !ok || req.MentorID != mentorID || req.Status != mentorship.StatusPending {
		return mentorship.Request{}, repository.ErrRequestNotPending
	}
	req.Status = status
	req.RespondedAt = &at
	f.byID[id] = req
	return req, nil
}

func intPtr(v int) *int { return &v }
