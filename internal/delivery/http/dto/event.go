package dto

import "time"

// AttendanceRequest may omit user_id when the bearer token supplies it.
type AttendanceRequest struct {
	UserID string `json:"user_id" validate:"omitempty,max=128"`
}

type AttendanceResponse struct {
	EventID          string `json:"event_id"`
	Outcome          string `json:"outcome"`
	Message          string `json:"message"`
	PromotedUserID   string `json:"promoted_user_id,omitempty"`
	WaitlistPosition int    `json:"waitlist_position,omitempty"`
	RegisteredCount  int    `json:"registered_count"`
	WaitlistCount    int    `json:"waitlist_count"`
	Capacity         *int   `json:"capacity"`
}

type EventResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Location        string     `json:"location"`
	StartsAt        *time.Time `json:"starts_at"`
	CreatedBy       string     `json:"created_by,omitempty"`
	Capacity        *int       `json:"capacity"`
	RegisteredCount int        `json:"registered_count"`
	WaitlistCount   int        `json:"waitlist_count"`
	SpotsRemaining  *int       `json:"spots_remaining"`
	Version         int64      `json:"version"`
}
