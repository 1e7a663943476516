package repository

import (
	"context"
	"errors"
	"time"

	"alumni-connect/internal/database"
	"alumni-connect/internal/domain/event"

	"github.com/jackc/pgx/v5"
)

// ErrEventVersionConflict means the event changed between read and write.
var ErrEventVersionConflict = errors.New("event version conflict")

type EventRepository interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
	// UpdateAttendance writes both lists as one unit only if the stored
	// version still equals expectedVersion, and returns the new version.
	UpdateAttendance(ctx context.Context, id string, expectedVersion int64, registrants, waitlist []string) (int64, error)
}

type PostgresEventRepository struct {
	db database.DB
}

func NewPostgresEventRepository(db database.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (event.Event, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, title, description, location, starts_at, capacity, registrants, waitlist, version, created_by, updated_at
		 FROM events
		 WHERE id = $1`,
		id,
	)

	var e event.Event
	var startsAt *time.Time
	var capacity *int32
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &startsAt, &capacity,
		&e.Registrants, &e.Waitlist, &e.Version, &e.CreatedBy, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}
	e.StartsAt = startsAt
	if capacity != nil {
		c := int(*capacity)
		e.Capacity = &c
	}
	return e, nil
}

func (r *PostgresEventRepository) UpdateAttendance(ctx context.Context, id string, expectedVersion int64, registrants, waitlist []string) (int64, error) {
	if registrants == nil {
		registrants = []string{}
	}
	if waitlist == nil {
		waitlist = []string{}
	}

	var next int64
	row := r.db.QueryRow(ctx,
		`UPDATE events
		 SET registrants = $1, waitlist = $2, version = version + 1, updated_at = now()
		 WHERE id = $3 AND version = $4
		 RETURNING version`,
		registrants, waitlist, id, expectedVersion,
	)
	if err := row.Scan(&next); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrEventVersionConflict
		}
		return 0, err
	}
	return next, nil
}
