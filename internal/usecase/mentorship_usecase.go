package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"alumni-connect/internal/domain/mentorship"
	"alumni-connect/internal/domain/profile"
	"alumni-connect/internal/repository"

	"github.com/google/uuid"
)

const defaultRequestListLimit = 50

type MentorshipRequestInput struct {
	StudentID string
	MentorID  string
	Message   string
}

type MentorshipUsecase interface {
	RequestMentorship(ctx context.Context, in MentorshipRequestInput) (mentorship.Request, error)
	ListForMentor(ctx context.Context, mentorID string) ([]mentorship.Request, error)
	Respond(ctx context.Context, requestID, mentorID string, status mentorship.Status) (mentorship.Request, error)
}

type Mentorship struct {
	profiles repository.ProfileRepository
	requests repository.MentorshipRequestRepository
	now      func() time.Time
}

func NewMentorshipUsecase(profiles repository.ProfileRepository, requests repository.MentorshipRequestRepository) *Mentorship {
	return &Mentorship{profiles: profiles, requests: requests, now: time.Now}
}

func (u *Mentorship) RequestMentorship(ctx context.Context, in MentorshipRequestInput) (mentorship.Request, error) {
	studentID := strings.TrimSpace(in.StudentID)
	mentorID := strings.TrimSpace(in.MentorID)
	if studentID == "" || mentorID == "" || studentID == mentorID {
		return mentorship.Request{}, ErrInvalidInput
	}

	message := strings.TrimSpace(in.Message)
	if r := []rune(message); len(r) > mentorship.MaxMessageLength {
		message = string(r[:mentorship.MaxMessageLength])
	}

	m, err := u.profiles.GetByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return mentorship.Request{}, ErrMentorNotFound
		}
		return mentorship.Request{}, storeError(err)
	}
	if !m.IsMentorCandidate() {
		return mentorship.Request{}, ErrMentorNotFound
	}

	req := mentorship.Request{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		MentorID:    mentorID,
		Message:     message,
		Status:      mentorship.StatusPending,
		RequestedAt: u.now().UTC(),
	}
	if err := u.requests.Create(ctx, req); err != nil {
		if errors.Is(err, repository.ErrDuplicatePendingRequest) {
			return mentorship.Request{}, ErrDuplicateRequest
		}
		return mentorship.Request{}, storeError(err)
	}
	return req, nil
}

func (u *Mentorship) ListForMentor(ctx context.Context, mentorID string) ([]mentorship.Request, error) {
	mentorID = strings.TrimSpace(mentorID)
	if mentorID == "" {
		return nil, ErrInvalidInput
	}
	items, err := u.requests.ListByMentor(ctx, mentorID, defaultRequestListLimit)
	if err != nil {
		return nil, storeError(err)
	}
	return items, nil
}

// Respond lets the addressed mentor accept or reject a pending request. A
// response that loses the race to another one gets ErrRequestAnswered.
func (u *Mentorship) Respond(ctx context.Context, requestID, mentorID string, status mentorship.Status) (mentorship.Request, error) {
	requestID = strings.TrimSpace(requestID)
	mentorID = strings.TrimSpace(mentorID)
	if requestID == "" || mentorID == "" || !status.IsAnswer() {
		return mentorship.Request{}, ErrInvalidInput
	}

	current, err := u.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, mentorship.ErrNotFound) {
			return mentorship.Request{}, ErrRequestNotFound
		}
		return mentorship.Request{}, storeError(err)
	}
	if current.MentorID != mentorID {
		return mentorship.Request{}, ErrForbidden
	}
	if current.Status != mentorship.StatusPending {
		return mentorship.Request{}, ErrRequestAnswered
	}

	updated, err := u.requests.Respond(ctx, requestID, mentorID, status, u.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotPending) {
			return mentorship.Request{}, ErrRequestAnswered
		}
		return mentorship.Request{}, storeError(err)
	}
	return updated, nil
}
