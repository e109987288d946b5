package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/jobagent/api/http/presenter"
	"github.com/artem13815/jobagent/pkg/document"
)

// DocumentHandler serves both document kinds; the route group decides which
// one a request addresses.
type DocumentHandler struct {
	useCase  document.UseCase
	kind     document.Kind
	maxBytes int64
}

func NewDocumentHandler(useCase document.UseCase, kind document.Kind) *DocumentHandler {
	return &DocumentHandler{
		useCase:  useCase,
		kind:     kind,
		maxBytes: 15 << 20, // 15MB
	}
}

func documentView(d document.Document) fiber.Map {
	return fiber.Map{
		"id":        d.ID.String(),
		"name":      d.Name,
		"createdAt": d.CreatedAt,
		"updatedAt": d.UpdatedAt,
	}
}

// Upload accepts a multipart PDF under "file" with a form field "name".
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid candidate id")
	}
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return presenter.Error(c, http.StatusBadRequest, "name is required")
	}
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "file is required")
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()
	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	d, err := h.useCase.Upload(c.Context(), id, h.kind, document.UploadInput{
		Name:        name,
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
	})
	if err != nil {
		switch {
		case errors.Is(err, document.ErrInvalidFileType):
			return presenter.Error(c, http.StatusBadRequest, "only application/pdf uploads are supported")
		case errors.Is(err, document.ErrNameTaken):
			return presenter.Error(c, http.StatusConflict, fmt.Sprintf("you already have a %s named %q", h.kind, name))
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to upload document")
	}
	return presenter.JSON(c, http.StatusCreated, documentView(d))
}

// List returns the candidate's documents of this kind.
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid candidate id")
	}
	docs, err := h.useCase.List(c.Context(), id, h.kind)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list documents")
	}
	views := make([]fiber.Map, 0, len(docs))
	for _, d := range docs {
		views = append(views, documentView(d))
	}
	return presenter.JSON(c, http.StatusOK, views)
}

// Download issues a short-lived signed URL for one of the candidate's own
// documents. ttl_seconds defaults to 60 and is capped at one hour.
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid candidate id")
	}
	docID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid document id")
	}
	ttl := time.Duration(c.QueryInt("ttl_seconds", 60)) * time.Second
	if ttl > time.Hour {
		ttl = time.Hour
	}
	d, url, err := h.useCase.PresignedURL(c.Context(), id, h.kind, docID, ttl)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "document not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to sign download URL")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"document":  documentView(d),
		"signedUrl": url,
	})
}

// Delete removes one of the candidate's own documents unless an
// application still references it.
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid candidate id")
	}
	docID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid document id")
	}
	if err := h.useCase.Delete(c.Context(), id, h.kind, docID); err != nil {
		switch {
		case errors.Is(err, document.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "document not found")
		case errors.Is(err, document.ErrInUse):
			return presenter.Error(c, http.StatusConflict, "document is referenced by an application")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to delete document")
	}
	return c.SendStatus(http.StatusNoContent)
}

// readAtMost reads up to limit bytes and fails on oversized uploads.
func readAtMost(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, errors.New("failed to read uploaded file")
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file too large: limit is %d bytes", limit)
	}
	return data, nil
}
