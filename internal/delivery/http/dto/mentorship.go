package dto

import "time"

type CreateMentorshipRequest struct {
	StudentID string `json:"student_id" validate:"notblank,max=128"`
	MentorID  string `json:"mentor_id" validate:"notblank,max=128"`
	Message   string `json:"message"`
}

// RespondMentorshipRequest answers a pending request. mentor_id may be
// omitted when a bearer token identifies the mentor.
type RespondMentorshipRequest struct {
	MentorID string `json:"mentor_id" validate:"omitempty,max=128"`
	Status   string `json:"status" validate:"oneof=accepted rejected"`
}

type MentorshipRequestResponse struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"student_id"`
	MentorID    string     `json:"mentor_id"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

type MentorshipRequestListResponse struct {
	Requests []MentorshipRequestResponse `json:"requests"`
}
