package repository

import (
	"context"
	"errors"
	"time"

	"alumni-connect/internal/database"
	"alumni-connect/internal/domain/mentorship"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

const requestColumns = `id, student_id, mentor_id, message, status, requested_at, responded_at`

var (
	ErrDuplicatePendingRequest = errors.New("pending mentorship request already exists")
	// ErrRequestNotPending means the request was answered before this write.
	ErrRequestNotPending = errors.New("mentorship request is not pending")
)

type MentorshipRequestRepository interface {
	Create(ctx context.Context, req mentorship.Request) error
	GetByID(ctx context.Context, id string) (mentorship.Request, error)
	ListByMentor(ctx context.Context, mentorID string, limit int) ([]mentorship.Request, error)
	// Respond moves a pending request addressed to mentorID to status.
	Respond(ctx context.Context, id, mentorID string, status mentorship.Status, at time.Time) (mentorship.Request, error)
}

type PostgresMentorshipRequestRepository struct {
	db database.DB
}

func NewPostgresMentorshipRequestRepository(db database.DB) *PostgresMentorshipRequestRepository {
	return &PostgresMentorshipRequestRepository{db: db}
}

func (r *PostgresMentorshipRequestRepository) Create(ctx context.Context, req mentorship.Request) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO mentorship_requests (id, student_id, mentor_id, message, status, requested_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		req.ID, req.StudentID, req.MentorID, req.Message, string(req.Status), req.RequestedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicatePendingRequest
		}
		return err
	}
	return nil
}

func (r *PostgresMentorshipRequestRepository) GetByID(ctx context.Context, id string) (mentorship.Request, error) {
	row := r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM mentorship_requests WHERE id = $1`, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mentorship.Request{}, mentorship.ErrNotFound
		}
		return mentorship.Request{}, err
	}
	return req, nil
}

func (r *PostgresMentorshipRequestRepository) Respond(ctx context.Context, id, mentorID string, status mentorship.Status, at time.Time) (mentorship.Request, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE mentorship_requests
		 SET status = $3, responded_at = $4
		 WHERE id = $1 AND mentor_id = $2 AND status = 'pending'
		 RETURNING `+requestColumns,
		id, mentorID, string(status), at,
	)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mentorship.Request{}, ErrRequestNotPending
		}
		return mentorship.Request{}, err
	}
	return req, nil
}

func (r *PostgresMentorshipRequestRepository) ListByMentor(ctx context.Context, mentorID string, limit int) ([]mentorship.Request, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+requestColumns+`
		 FROM mentorship_requests
		 WHERE mentor_id = $1
		 ORDER BY requested_at DESC, id ASC
		 LIMIT $2`,
		mentorID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]mentorship.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanRequest(row database.Row) (mentorship.Request, error) {
	var req mentorship.Request
	var status string
	if err := row.Scan(&req.ID, &req.StudentID, &req.MentorID, &req.Message, &status, &req.RequestedAt, &req.RespondedAt); err != nil {
		return mentorship.Request{}, err
	}
	req.Status = mentorship.Status(status)
	return req, nil
}
