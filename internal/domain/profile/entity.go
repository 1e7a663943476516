package profile

import "errors"

type Role string

const (
	RoleStudent Role = "student"
	RoleAlumni  Role = "alumni"
	RoleAdmin   Role = "admin"

	// RoleMentor is the role whose verified profiles form the mentor pool.
	RoleMentor = RoleAlumni
)

var ErrNotFound = errors.New("profile not found")

// Profile is owned by the document store; this service only reads it.
type Profile struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Role     Role     `json:"role"`
	Verified bool     `json:"verified"`
	Skills   []string `json:"skills"`
	Location string   `json:"location"`
	Company  string   `json:"company"`
	JobTitle string   `json:"job_title"`
}

// IsMentorCandidate reports whether p belongs to the candidate pool.
func (p Profile) IsMentorCandidate() bool {
	return p.Role == RoleMentor && p.Verified
}
