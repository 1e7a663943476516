package handler

import (
	"strings"

	"alumni-connect/internal/delivery/http/dto"
	"alumni-connect/internal/delivery/http/middleware"
	"alumni-connect/internal/delivery/http/validation"
	"alumni-connect/internal/domain/event"
	"alumni-connect/internal/pkg/response"
	"alumni-connect/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type EventHandler struct {
	uc       usecase.EventRegistrationUsecase
	validate *validation.Validator
}

func NewEventHandler(uc usecase.EventRegistrationUsecase, v *validation.Validator) *EventHandler {
	return &EventHandler{uc: uc, validate: v}
}

func (h *EventHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/events")
	grp.Get("/:event_id", h.GetEvent)
	grp.Post("/:event_id/join", h.Join)
	grp.Post("/:event_id/cancel", h.Cancel)
}

func (h *EventHandler) GetEvent(c fiber.Ctx) error {
	e, err := h.uc.GetEvent(c.Context(), c.Params("event_id"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toEventResponse(e))
}

func (h *EventHandler) Join(c fiber.Ctx) error {
	userID, err := h.requester(c)
	if err != nil {
		return err
	}
	res, err := h.uc.Join(c.Context(), c.Params("event_id"), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, res.Outcome.Message(), toAttendanceResponse(res))
}

func (h *EventHandler) Cancel(c fiber.Ctx) error {
	userID, err := h.requester(c)
	if err != nil {
		return err
	}
	res, err := h.uc.Cancel(c.Context(), c.Params("event_id"), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, res.Outcome.Message(), toAttendanceResponse(res))
}

// requester resolves the acting user. With authentication on, the token
// subject is authoritative and a differing body user_id is rejected.
func (h *EventHandler) requester(c fiber.Ctx) (string, error) {
	var req dto.AttendanceRequest
	if len(c.Body()) > 0 {
		if err := bindAndValidate(c, h.validate, &req); err != nil {
			return "", err
		}
	}
	bodyID := strings.TrimSpace(req.UserID)

	tokenID, authed := middleware.AuthenticatedUserID(c)
	switch {
	case authed && bodyID != "" && bodyID != tokenID:
		return "", middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, usecase.ErrForbidden)
	case authed:
		return tokenID, nil
	case bodyID == "":
		return "", middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", map[string]string{"user_id": "user_id is a required field"}, usecase.ErrInvalidInput)
	default:
		return bodyID, nil
	}
}

func toAttendanceResponse(res usecase.AttendanceResult) dto.AttendanceResponse {
	return dto.AttendanceResponse{
		EventID:          res.EventID,
		Outcome:          string(res.Outcome),
		Message:          res.Outcome.Message(),
		PromotedUserID:   res.PromotedUserID,
		WaitlistPosition: res.WaitlistPosition,
		RegisteredCount:  res.RegisteredCount,
		WaitlistCount:    res.WaitlistCount,
		Capacity:         boundedCapacity(res.Capacity),
	}
}

func toEventResponse(e event.Event) dto.EventResponse {
	out := dto.EventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Location:        e.Location,
		StartsAt:        e.StartsAt,
		CreatedBy:       e.CreatedBy,
		Capacity:        boundedCapacity(e.Capacity),
		RegisteredCount: len(e.Registrants),
		WaitlistCount:   len(e.Waitlist),
		Version:         e.Version,
	}
	if e.HasCapacityBound() {
		left := max(*e.Capacity-len(e.Registrants), 0)
		out.SpotsRemaining = &left
	}
	return out
}

// boundedCapacity reports nil for unlimited events.
func boundedCapacity(c *int) *int {
	if c == nil || *c <= 0 {
		return nil
	}
	v := *c
	return &v
}
