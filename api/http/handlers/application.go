package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/jobagent/api/http/presenter"
	"github.com/artem13815/jobagent/pkg/application"
	"github.com/artem13815/jobagent/pkg/candidate"
	"github.com/artem13815/jobagent/pkg/document"
	"github.com/artem13815/jobagent/pkg/listing"
)

type ApplicationHandler struct {
	useCase application.UseCase
}

func NewApplicationHandler(useCase application.UseCase) *ApplicationHandler {
	return &ApplicationHandler{useCase: useCase}
}

type createApplicationRequest struct {
	JobListingID  string  `json:"jobListingId"`
	ResumeID      *string `json:"resumeId"`
	CoverLetterID *string `json:"coverLetterId"`
	Notes         string  `json:"notes"`
}

// Create records an application after resolving every reference: the
// listing must exist and any cited resume/cover letter must belong to the
// caller.
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid candidate id")
	}
	var req createApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	listingID, err := uuid.Parse(req.JobListingID)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid jobListingId")
	}
	in := application.CreateInput{ListingID: listingID, Notes: req.Notes}
	if req.ResumeID != nil {
		rid, err := uuid.Parse(*req.ResumeID)
		if err != nil {
			return presenter.Error(c, http.StatusBadRequest, "invalid resumeId")
		}
		in.ResumeID = &rid
	}
	if req.CoverLetterID != nil {
		cid, err := uuid.Parse(*req.CoverLetterID)
		if err != nil {
			return presenter.Error(c, http.StatusBadRequest, "invalid coverLetterId")
		}
		in.CoverLetterID = &cid
	}

	a, err := h.useCase.Create(c.Context(), id, in)
	if err != nil {
		switch {
		case errors.Is(err, candidate.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "candidate not found")
		case errors.Is(err, listing.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "job listing not found")
		case errors.Is(err, document.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "referenced document not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to create application")
	}
	return presenter.JSON(c, http.StatusCreated, a)
}

// List returns the caller's applications.
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid candidate id")
	}
	items, err := h.useCase.ListByCandidate(c.Context(), id)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list applications")
	}
	if items == nil {
		items = []application.Application{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// Get returns one of the caller's applications.
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid candidate id")
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid application id")
	}
	a, err := h.useCase.GetForCandidate(c.Context(), id, appID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "application not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load application")
	}
	return presenter.JSON(c, http.StatusOK, a)
}

type updateApplicationRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// Update mutates status and/or notes, the only fields that change after
// creation.
func (h *ApplicationHandler) Update(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid candidate id")
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid application id")
	}
	var req updateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	in := application.UpdateInput{Notes: req.Notes}
	if req.Status != nil {
		st := application.Status(*req.Status)
		in.Status = &st
	}

	a, err := h.useCase.Update(c.Context(), id, appID, in)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "application not found")
		case errors.Is(err, application.ErrInvalidStatus):
			return presenter.Error(c, http.StatusBadRequest, "invalid application status")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to update application")
	}
	return presenter.JSON(c, http.StatusOK, a)
}
