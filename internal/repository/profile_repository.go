package repository

import (
	"context"
	"errors"

	"alumni-connect/internal/database"
	"alumni-connect/internal/domain/profile"

	"github.com/jackc/pgx/v5"
)

type ProfileRepository interface {
	// ListMentorCandidates returns verified mentor-role profiles ordered by id.
	ListMentorCandidates(ctx context.Context) ([]profile.Profile, error)
	GetByID(ctx context.Context, id string) (profile.Profile, error)
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

const profileColumns = `id, COALESCE(name, ''), COALESCE(email, ''), role, verified, COALESCE(skills, '{}'),
	COALESCE(location, ''), COALESCE(company, ''), COALESCE(job_title, '')`

func (r *PostgresProfileRepository) ListMentorCandidates(ctx context.Context) ([]profile.Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 WHERE role = $1 AND verified = true
		 ORDER BY id ASC`,
		string(profile.RoleMentor),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id string) (profile.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}
	return p, nil
}

func scanProfile(row database.Row) (profile.Profile, error) {
	var p profile.Profile
	var role string
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &role, &p.Verified, &p.Skills, &p.Location, &p.Company, &p.JobTitle); err != nil {
		return profile.Profile{}, err
	}
	p.Role = profile.Role(role)
	return p, nil
}
