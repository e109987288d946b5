package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/jobagent/api/http/presenter"
	"github.com/artem13815/jobagent/pkg/candidate"
)

// TokenGenerator issues bearer tokens for authenticated candidates.
type TokenGenerator interface {
	Generate(ctx context.Context, c candidate.Candidate) (string, error)
}

type AuthHandler struct {
	useCase candidate.UseCase
	tokens  TokenGenerator
}

func NewAuthHandler(useCase candidate.UseCase, tokens TokenGenerator) *AuthHandler {
	return &AuthHandler{useCase: useCase, tokens: tokens}
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Register creates a candidate account and returns a token.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, "email and password are required")
	}

	result, err := h.useCase.Register(c.Context(), candidate.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, candidate.ErrEmailTaken) {
			return presenter.Error(c, http.StatusConflict, "email already in use")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to register candidate")
	}

	token, err := h.tokens.Generate(c.Context(), result)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to issue token")
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"id":       result.ID.String(),
		"fullName": result.FullName(),
		"email":    result.Email,
		"token":    token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a token. Unknown email and wrong
// password produce the same response.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, "email and password are required")
	}

	result, err := h.useCase.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, candidate.ErrInvalidCredentials) {
			return presenter.Error(c, http.StatusUnauthorized, "incorrect email or password")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to login")
	}

	token, err := h.tokens.Generate(c.Context(), result)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to issue token")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"id":    result.ID.String(),
		"email": result.Email,
		"token": token,
	})
}
