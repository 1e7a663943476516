package handler

import (
	"strings"

	"alumni-connect/internal/delivery/http/dto"
	"alumni-connect/internal/delivery/http/middleware"
	"alumni-connect/internal/delivery/http/validation"
	"alumni-connect/internal/domain/mentorship"
	"alumni-connect/internal/pkg/response"
	"alumni-connect/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MentorshipHandler struct {
	uc       usecase.MentorshipUsecase
	validate *validation.Validator
}

func NewMentorshipHandler(uc usecase.MentorshipUsecase, v *validation.Validator) *MentorshipHandler {
	return &MentorshipHandler{uc: uc, validate: v}
}

func (h *MentorshipHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/mentorship/requests", h.Create)
	r.Get("/mentorship/requests", h.ListForMentor)
	r.Patch("/mentorship/requests/:request_id", h.Respond)
}

func (h *MentorshipHandler) Create(c fiber.Ctx) error {
	var req dto.CreateMentorshipRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	if tokenID, ok := middleware.AuthenticatedUserID(c); ok && tokenID != strings.TrimSpace(req.StudentID) {
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, usecase.ErrForbidden)
	}

	created, err := h.uc.RequestMentorship(c.Context(), usecase.MentorshipRequestInput{
		StudentID: req.StudentID,
		MentorID:  req.MentorID,
		Message:   req.Message,
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, "Mentorship request sent", toMentorshipResponse(created))
}

func (h *MentorshipHandler) ListForMentor(c fiber.Ctx) error {
	mentorID, err := actingMentor(c, c.Query("mentor_id"))
	if err != nil {
		return err
	}

	items, err := h.uc.ListForMentor(c.Context(), mentorID)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.MentorshipRequestListResponse{Requests: make([]dto.MentorshipRequestResponse, 0, len(items))}
	for _, it := range items {
		out.Requests = append(out.Requests, toMentorshipResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MentorshipHandler) Respond(c fiber.Ctx) error {
	var req dto.RespondMentorshipRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	mentorID, err := actingMentor(c, req.MentorID)
	if err != nil {
		return err
	}

	updated, err := h.uc.Respond(c.Context(), c.Params("request_id"), mentorID, mentorship.Status(req.Status))
	if err != nil {
		return mapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "Mentorship request "+string(updated.Status), toMentorshipResponse(updated))
}

// actingMentor resolves the mentor a call acts for. A token subject fills an
// empty id and must match a supplied one.
func actingMentor(c fiber.Ctx, supplied string) (string, error) {
	mentorID := strings.TrimSpace(supplied)
	tokenID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		return mentorID, nil
	}
	if mentorID != "" && mentorID != tokenID {
		return "", middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, usecase.ErrForbidden)
	}
	return tokenID, nil
}

func toMentorshipResponse(r mentorship.Request) dto.MentorshipRequestResponse {
	return dto.MentorshipRequestResponse{
		ID:          r.ID,
		StudentID:   r.StudentID,
		MentorID:    r.MentorID,
		Message:     r.Message,
		Status:      string(r.Status),
		RequestedAt: r.RequestedAt,
		RespondedAt: r.RespondedAt,
	}
}
