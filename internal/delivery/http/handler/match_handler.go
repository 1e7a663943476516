package handler

import (
	"alumni-connect/internal/delivery/http/dto"
	"alumni-connect/internal/delivery/http/validation"
	"alumni-connect/internal/domain/matching"
	"alumni-connect/internal/pkg/response"
	"alumni-connect/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc       usecase.MentorMatchingUsecase
	validate *validation.Validator
}

func NewMatchHandler(uc usecase.MentorMatchingUsecase, v *validation.Validator) *MatchHandler {
	return &MatchHandler{uc: uc, validate: v}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/match", h.FindMentors)
}

func (h *MatchHandler) FindMentors(c fiber.Ctx) error {
	var req dto.MatchRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	results, err := h.uc.FindTopMentors(c.Context(), usecase.MatchInput{
		Skills: req.Skills,
		Filters: matching.Filters{
			Location: req.Filters.Location,
			Company:  req.Filters.Company,
			Name:     req.Filters.Name,
		},
		TopN: req.TopN,
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.MatchListResponse{Matches: make([]dto.MentorMatchResponse, 0, len(results))}
	for _, r := range results {
		out.Matches = append(out.Matches, dto.MentorMatchResponse{
			UID:          r.UID,
			Name:         r.Name,
			Email:        r.Email,
			Skills:       nonNil(r.Skills),
			Score:        r.Score,
			CommonSkills: nonNil(r.CommonSkills),
			Company:      r.Company,
			Location:     r.Location,
			JobTitle:     r.JobTitle,
		})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
