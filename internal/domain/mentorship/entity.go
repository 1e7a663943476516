package mentorship

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("mentorship request not found")

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// IsAnswer reports whether s is a status a mentor may respond with.
func (s Status) IsAnswer() bool {
	return s == StatusAccepted || s == StatusRejected
}

const MaxMessageLength = 1000

type Request struct {
	ID          string
	StudentID   string
	MentorID    string
	Message     string
	Status      Status
	RequestedAt time.Time
	RespondedAt *time.Time
}
