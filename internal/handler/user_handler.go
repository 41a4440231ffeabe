package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/GoArmGo/RecipeApp/internal/usecase"
)

// UserHandler это обработчик регистрации и входа
type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      *slog.Logger
}

func NewUserHandler(uc usecase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{userUseCase: uc, logger: logger}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register обрабатывает POST /users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErrorDetail(w, http.StatusBadRequest, "User registration failed", err, h.logger)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithErrorDetail(w, http.StatusBadRequest, "User registration failed", validationError(err), h.logger)
		return
	}

	_, err := h.userUseCase.Register(r.Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Warn("user registration failed", "error", err)
		detail := err
		if !errors.Is(err, domain.ErrEmailTaken) && !errors.Is(err, domain.ErrValidation) {
			detail = nil
		}
		respondWithErrorDetail(w, http.StatusBadRequest, "User registration failed", detail, h.logger)
		return
	}

	respondWithMessage(w, http.StatusCreated, "User created successfully", h.logger)
}

// Login обрабатывает POST /users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErrorDetail(w, http.StatusBadRequest, "Login failed", err, h.logger)
		return
	}

	res, err := h.userUseCase.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		respondWithError(w, http.StatusUnauthorized, "Invalid credentials", h.logger)
		return
	}
	if err != nil {
		h.logger.Error("login failed", "error", err)
		respondWithError(w, http.StatusBadRequest, "Login failed", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, loginResponse{Token: res.Token, User: res.User}, h.logger)
}
