package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/jobagent/api/http/presenter"
	"github.com/artem13815/jobagent/pkg/candidate"
)

type CandidateHandler struct {
	useCase candidate.UseCase
}

func NewCandidateHandler(useCase candidate.UseCase) *CandidateHandler {
	return &CandidateHandler{useCase: useCase}
}

// callerID reads the candidate id the auth middleware verified.
func callerID(c *fiber.Ctx) (uuid.UUID, bool) {
	idStr, _ := c.Locals("candidateId").(string)
	id, err := uuid.Parse(idStr)
	return id, err == nil
}

func candidateView(cand candidate.Candidate) fiber.Map {
	return fiber.Map{
		"id":        cand.ID.String(),
		"firstName": cand.FirstName,
		"lastName":  cand.LastName,
		"fullName":  cand.FullName(),
		"phone":     cand.Phone,
		"email":     cand.Email,
		"createdAt": cand.CreatedAt,
		"updatedAt": cand.UpdatedAt,
	}
}

// Me returns the authenticated candidate's profile.
func (h *CandidateHandler) Me(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid candidate id")
	}
	cand, err := h.useCase.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, candidate.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "candidate not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load candidate")
	}
	return presenter.JSON(c, http.StatusOK, candidateView(cand))
}

type updateCandidateRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}

// Update applies a partial profile update; absent fields stay untouched.
func (h *CandidateHandler) Update(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid candidate id")
	}
	var req updateCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	cand, err := h.useCase.UpdatePersonalInfo(c.Context(), id, candidate.UpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, candidate.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "candidate not found")
		case errors.Is(err, candidate.ErrEmailTaken):
			return presenter.Error(c, http.StatusConflict, "email already in use")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to update candidate")
	}
	return presenter.JSON(c, http.StatusOK, candidateView(cand))
}

// DeleteAccount removes the candidate together with all dependent records
// (social links, documents, applications).
func (h *CandidateHandler) DeleteAccount(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid candidate id")
	}
	if err := h.useCase.Delete(c.Context(), id); err != nil {
		if errors.Is(err, candidate.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "candidate not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to delete candidate")
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListSocials returns the candidate's social links.
func (h *CandidateHandler) ListSocials(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid candidate id")
	}
	links, err := h.useCase.ListSocialLinks(c.Context(), id)
	if err != nil {
		if errors.Is(err, candidate.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "candidate not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to list social links")
	}
	if links == nil {
		links = []candidate.SocialLink{}
	}
	return presenter.JSON(c, http.StatusOK, links)
}

type upsertSocialRequest struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// UpsertSocial overwrites the link with the same name or inserts a new one.
func (h *CandidateHandler) UpsertSocial(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid candidate id")
	}
	var req upsertSocialRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Link) == "" {
		return presenter.Error(c, http.StatusBadRequest, "name and link are required")
	}
	link, err := h.useCase.UpsertSocialLink(c.Context(), id, req.Name, req.Link)
	if err != nil {
		if errors.Is(err, candidate.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "candidate not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to save social link")
	}
	return presenter.JSON(c, http.StatusOK, link)
}

// DeleteSocial removes one of the candidate's own social links.
func (h *CandidateHandler) DeleteSocial(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid candidate id")
	}
	socialID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid social link id")
	}
	if err := h.useCase.DeleteSocialLink(c.Context(), id, socialID); err != nil {
		if errors.Is(err, candidate.ErrSocialLinkNotFound) {
			return presenter.Error(c, http.StatusNotFound, "social link not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to delete social link")
	}
	return c.SendStatus(http.StatusNoContent)
}
