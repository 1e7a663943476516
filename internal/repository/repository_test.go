package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"alumni-connect/internal/database"
	"alumni-connect/internal/domain/event"
	"alumni-connect/internal/domain/mentorship"
	"alumni-connect/internal/domain/profile"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error { return f(dest...) }

type fakeDB struct {
	row     database.Row
	execErr error
	args    []any
}

func (d *fakeDB) Ping(context.Context) error { return nil }
func (d *fakeDB) Close() error               { return nil }
func (d *fakeDB) Exec(_ context.Context, _ string, args ...any) (int64, error) {
	d.args = args
	return 1, d.execErr
}
func (d *fakeDB) Query(context.Context, string, ...any) (database.Rows, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDB) QueryRow(_ context.Context, _ string, args ...any) database.Row {
	d.args = args
	return d.row
}
func (d *fakeDB) Begin(context.Context) (database.Tx, error) { return nil, errors.New("not implemented") }

func noRows() database.Row {
	return scanFunc(func(...any) error { return pgx.ErrNoRows })
}

func TestPostgresEventRepository_GetByID_NotFound(t *testing.T) {
	repo := NewPostgresEventRepository(&fakeDB{row: noRows()})
	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, event.ErrNotFound) {
		t.Fatalf("expected event.ErrNotFound, got %v", err)
	}
}

func TestPostgresEventRepository_GetByID_Capacity(t *testing.T) {
	capacity := int32(3)
	row := scanFunc(func(dest ...any) error {
		*(dest[0].(*string)) = "e1"
		*(dest[5].(**int32)) = &capacity
		*(dest[6].(*[]string)) = []string{"u1"}
		*(dest[8].(*int64)) = 7
		return nil
	})
	repo := NewPostgresEventRepository(&fakeDB{row: row})

	e, err := repo.GetByID(context.Background(), "e1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !e.HasCapacityBound() || *e.Capacity != 3 {
		t.Fatalf("expected capacity 3, got %+v", e.Capacity)
	}
	if e.Version != 7 || len(e.Registrants) != 1 {
		t.Fatalf("unexpected event: %+v", e)
	}
}

func TestPostgresEventRepository_UpdateAttendance_Conflict(t *testing.T) {
	db := &fakeDB{row: noRows()}
	repo := NewPostgresEventRepository(db)

	_, err := repo.UpdateAttendance(context.Background(), "e1", 4, nil, []string{"u2"})
	if !errors.Is(err, ErrEventVersionConflict) {
		t.Fatalf("expected ErrEventVersionConflict, got %v", err)
	}
	if regs, ok := db.args[0].([]string); !ok || regs == nil {
		t.Fatalf("expected nil registrants to be written as an empty array, got %#v", db.args[0])
	}
	if db.args[3] != int64(4) {
		t.Fatalf("expected expected version as last arg, got %v", db.args[3])
	}
}

func TestPostgresEventRepository_UpdateAttendance_ReturnsVersion(t *testing.T) {
	row := scanFunc(func(dest ...any) error {
		*(dest[0].(*int64)) = 5
		return nil
	})
	repo := NewPostgresEventRepository(&fakeDB{row: row})

	v, err := repo.UpdateAttendance(context.Background(), "e1", 4, []string{"u1"}, nil)
	if err != nil || v != 5 {
		t.Fatalf("expected version 5, got %d err=%v", v, err)
	}
}

func TestPostgresProfileRepository_GetByID_NotFound(t *testing.T) {
	repo := NewPostgresProfileRepository(&fakeDB{row: noRows()})
	_, err := repo.GetByID(context.Background(), "nobody")
	if !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("expected profile.ErrNotFound, got %v", err)
	}
}

func TestPostgresMentorshipRequestRepository_Create_Duplicate(t *testing.T) {
	repo := NewPostgresMentorshipRequestRepository(&fakeDB{execErr: &pgconn.PgError{Code: "23505"}})
	err := repo.Create(context.Background(), mentorship.Request{
		ID: "r1", StudentID: "s1", MentorID: "m1", Status: mentorship.StatusPending, RequestedAt: time.Now(),
	})
	if !errors.Is(err, ErrDuplicatePendingRequest) {
		t.Fatalf("expected ErrDuplicatePendingRequest, got %v", err)
	}
}

func TestPostgresMentorshipRequestRepository_Create_OtherError(t *testing.T) {
	boom := errors.New("connection reset")
	repo := NewPostgresMentorshipRequestRepository(&fakeDB{execErr: boom})
	if err := repo.Create(context.Background(), mentorship.Request{ID: "r1"}); !errors.Is(err, boom) {
		t.Fatalf("expected passthrough error, got %v", err)
	}
}

func TestPostgresMentorshipRequestRepository_GetByID_NotFound(t *testing.T) {
	repo := NewPostgresMentorshipRequestRepository(&fakeDB{row: noRows()})
	if _, err := repo.GetByID(context.Background(), "r1"); !errors.Is(err, mentorship.ErrNotFound) {
		t.Fatalf("expected mentorship.ErrNotFound, got %v", err)
	}
}

func TestPostgresMentorshipRequestRepository_Respond_NotPending(t *testing.T) {
	db := &fakeDB{row: noRows()}
	repo := NewPostgresMentorshipRequestRepository(db)

	_, err := repo.Respond(context.Background(), "r1", "m1", mentorship.StatusAccepted, time.Now())
	if !errors.Is(err, ErrRequestNotPending) {
		t.Fatalf("expected ErrRequestNotPending, got %v", err)
	}
	if db.args[0] != "r1" || db.args[1] != "m1" || db.args[2] != "accepted" {
		t.Fatalf("unexpected args %v", db.args)
	}
}

func TestPostgresMentorshipRequestRepository_Respond_ReturnsRow(t *testing.T) {
	at := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	row := scanFunc(func(dest ...any) error {
		*(dest[0].(*string)) = "r1"
		*(dest[2].(*string)) = "m1"
		*(dest[4].(*string)) = "rejected"
		*(dest[6].(**time.Time)) = &at
		return nil
	})
	repo := NewPostgresMentorshipRequestRepository(&fakeDB{row: row})

	got, err := repo.Respond(context.Background(), "r1", "m1", mentorship.StatusRejected, at)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != mentorship.StatusRejected || got.RespondedAt == nil || !got.RespondedAt.Equal(at) {
		t.Fatalf("unexpected request %+v", got)
	}
}
