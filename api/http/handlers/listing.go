package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/jobagent/api/http/presenter"
	"github.com/artem13815/jobagent/pkg/listing"
)

type ListingHandler struct {
	useCase listing.UseCase
}

func NewListingHandler(useCase listing.UseCase) *ListingHandler {
	return &ListingHandler{useCase: useCase}
}

type scrapeListingRequest struct {
	JobURL string `json:"jobUrl"`
}

// Ingest scrapes a listing from a shared /job/<id> URL and persists it.
func (h *ListingHandler) Ingest(c *fiber.Ctx) error {
	var req scrapeListingRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.JobURL) == "" {
		return presenter.Error(c, http.StatusBadRequest, "jobUrl is required")
	}
	l, err := h.useCase.IngestFromURL(c.Context(), req.JobURL)
	if err != nil {
		switch {
		case errors.Is(err, listing.ErrUnsupportedURL):
			return presenter.Error(c, http.StatusBadRequest, "unsupported job URL: expected a /job/<id> link")
		case errors.Is(err, listing.ErrMalformedResponse):
			return presenter.Error(c, http.StatusBadGateway, "upstream response did not match the expected schema")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to ingest job listing")
	}
	return presenter.JSON(c, http.StatusCreated, l)
}

type createListingRequest struct {
	Title          string `json:"title"`
	Company        string `json:"company"`
	ApplicationURL string `json:"applicationUrl"`
	Description    string `json:"description"`
}

// Create persists a manually entered listing, bypassing the scraper.
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	var req createListingRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Company) == "" || strings.TrimSpace(req.ApplicationURL) == "" {
		return presenter.Error(c, http.StatusBadRequest, "title, company and applicationUrl are required")
	}
	l, err := h.useCase.CreateManual(c.Context(), listing.ManualInput{
		Title:          req.Title,
		Company:        req.Company,
		ApplicationURL: req.ApplicationURL,
		Description:    req.Description,
	})
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to create job listing")
	}
	return presenter.JSON(c, http.StatusCreated, l)
}

// Get returns one listing.
func (h *ListingHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid listing id")
	}
	l, err := h.useCase.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "job listing not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load job listing")
	}
	return presenter.JSON(c, http.StatusOK, l)
}

// List returns recent listings.
func (h *ListingHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	items, err := h.useCase.List(c.Context(), limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list job listings")
	}
	if items == nil {
		items = []listing.Listing{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}
