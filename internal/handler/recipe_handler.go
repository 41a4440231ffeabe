package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/GoArmGo/RecipeApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxImageSize задает предельный размер загружаемой обложки
const maxImageSize = 10 << 20

const msgArraysRequired = "Ingredients and instructions must be arrays of strings"

var errNotStringArray = errors.New("must be an array of strings")

// RecipeHandler это обработчик HTTP-запросов для рецептов и оценок
type RecipeHandler struct {
	recipeUseCase usecase.RecipeUseCase
	logger        *slog.Logger
}

func NewRecipeHandler(uc usecase.RecipeUseCase, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{recipeUseCase: uc, logger: logger}
}

type createRecipeRequest struct {
	Title        string          `json:"title" validate:"required"`
	Ingredients  json.RawMessage `json:"ingredients"`
	Instructions json.RawMessage `json:"instructions"`
	IsPublic     bool            `json:"isPublic"`
	RecipeType   string          `json:"recipeType"`
}

type updateRecipeRequest struct {
	Title        *string         `json:"title"`
	Ingredients  json.RawMessage `json:"ingredients"`
	Instructions json.RawMessage `json:"instructions"`
	IsPublic     *bool           `json:"isPublic"`
	RecipeType   *string         `json:"recipeType"`
}

type ratingRequest struct {
	Rating *float64 `json:"rating" validate:"required"`
}

type recipeUpdatedResponse struct {
	Message string         `json:"message"`
	Recipe  *domain.Recipe `json:"recipe"`
}

// ListPublic обрабатывает GET /recipes/public
func (h *RecipeHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipeUseCase.ListPublicRecipes(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch public recipes", "error", err)
		respondWithError(w, http.StatusBadRequest, "Failed to fetch public recipes", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, recipes, h.logger)
}

// ListPrivate обрабатывает GET /recipes/private, рецепты текущего пользователя
func (h *RecipeHandler) ListPrivate(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	recipes, err := h.recipeUseCase.ListPrivateRecipes(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to fetch private recipes", "user_id", user.ID, "error", err)
		respondWithError(w, http.StatusBadRequest, "Failed to fetch private recipes", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, recipes, h.logger)
}

// Filter обрабатывает GET /recipes/filter?recipeType=X
func (h *RecipeHandler) Filter(w http.ResponseWriter, r *http.Request) {
	recipeType := r.URL.Query().Get("recipeType")

	recipes, err := h.recipeUseCase.ListRecipesByType(r.Context(), recipeType)
	if err != nil {
		h.logger.Warn("failed to fetch recipes by type", "recipe_type", recipeType, "error", err)
		var detail error
		if errors.Is(err, domain.ErrValidation) {
			detail = err
		}
		respondWithErrorDetail(w, http.StatusBadRequest, "Failed to fetch recipes", detail, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, recipes, h.logger)
}

// Create обрабатывает POST /recipes
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req createRecipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErrorDetail(w, http.StatusBadRequest, "Failed to add recipe", err, h.logger)
		return
	}

	ingredients, errIng := parseStringArray(req.Ingredients)
	instructions, errIns := parseStringArray(req.Instructions)
	if errIng != nil || errIns != nil {
		respondWithError(w, http.StatusBadRequest, msgArraysRequired, h.logger)
		return
	}

	if err := validate.Struct(req); err != nil {
		respondWithErrorDetail(w, http.StatusBadRequest, "Failed to add recipe", validationError(err), h.logger)
		return
	}

	recipe, err := h.recipeUseCase.CreateRecipe(r.Context(), user.ID, usecase.CreateRecipeInput{
		Title:        req.Title,
		Ingredients:  ingredients,
		Instructions: instructions,
		IsPublic:     req.IsPublic,
		RecipeType:   req.RecipeType,
	})
	if err != nil {
		h.logger.Error("failed to add recipe", "user_id", user.ID, "error", err)
		var detail error
		if errors.Is(err, domain.ErrValidation) {
			detail = err
		}
		respondWithErrorDetail(w, http.StatusBadRequest, "Failed to add recipe", detail, h.logger)
		return
	}

	respondWithJSON(w, http.StatusCreated, recipe, h.logger)
}

// Update обрабатывает PUT /api/recipes/{id}
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	recipeID, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	var req updateRecipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErrorDetail(w, http.StatusBadRequest, "Invalid request body", err, h.logger)
		return
	}

	update := domain.RecipeUpdate{
		Title:      req.Title,
		IsPublic:   req.IsPublic,
		RecipeType: req.RecipeType,
	}
	if present(req.Ingredients) {
		v, err := parseStringArray(req.Ingredients)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, msgArraysRequired, h.logger)
			return
		}
		update.Ingredients = &v
	}
	if present(req.Instructions) {
		v, err := parseStringArray(req.Instructions)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, msgArraysRequired, h.logger)
			return
		}
		update.Instructions = &v
	}

	recipe, err := h.recipeUseCase.UpdateRecipe(r.Context(), user.ID, recipeID, update)
	if err != nil {
		h.respondRecipeError(w, err, "User not authorized to edit this recipe")
		return
	}

	respondWithJSON(w, http.StatusOK, recipeUpdatedResponse{
		Message: "Recipe updated successfully",
		Recipe:  recipe,
	}, h.logger)
}

// Delete обрабатывает DELETE /api/recipes/{id}
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	recipeID, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	if err := h.recipeUseCase.DeleteRecipe(r.Context(), user.ID, recipeID); err != nil {
		h.respondRecipeError(w, err, "User not authorized to delete this recipe")
		return
	}

	respondWithMessage(w, http.StatusOK, "Recipe deleted successfully", h.logger)
}

// AddRating обрабатывает POST /recipes/{id}/ratings
func (h *RecipeHandler) AddRating(w http.ResponseWriter, r *http.Request) {
	user, recipeID, value, ok := h.ratingInput(w, r)
	if !ok {
		return
	}

	if err := h.recipeUseCase.AddRating(r.Context(), user.ID, recipeID, value); err != nil {
		h.respondRecipeError(w, err, "")
		return
	}

	respondWithMessage(w, http.StatusCreated, "Rating added successfully", h.logger)
}

// UpdateRating обрабатывает PUT /recipes/{id}/ratings
func (h *RecipeHandler) UpdateRating(w http.ResponseWriter, r *http.Request) {
	user, recipeID, value, ok := h.ratingInput(w, r)
	if !ok {
		return
	}

	if err := h.recipeUseCase.UpdateRating(r.Context(), user.ID, recipeID, value); err != nil {
		h.respondRecipeError(w, err, "")
		return
	}

	respondWithMessage(w, http.StatusOK, "Rating updated successfully", h.logger)
}

// AverageRating обрабатывает GET /recipes/{id}/ratings/average
func (h *RecipeHandler) AverageRating(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	summary, err := h.recipeUseCase.AverageRating(r.Context(), recipeID)
	if err != nil {
		h.respondRecipeError(w, err, "")
		return
	}

	respondWithJSON(w, http.StatusOK, summary, h.logger)
}

// UploadImage обрабатывает PUT /recipes/{id}/image, multipart поле image
func (h *RecipeHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	recipeID, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+(1<<20))
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		respondWithErrorDetail(w, http.StatusBadRequest, "Invalid image upload", err, h.logger)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("image")
	if err != nil {
		respondWithErrorDetail(w, http.StatusBadRequest, "Invalid image upload", err, h.logger)
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		respondWithError(w, http.StatusBadRequest, "Image is too large", h.logger)
		return
	}

	contentType, err := sniffContentType(file)
	if err != nil {
		respondWithErrorDetail(w, http.StatusBadRequest, "Invalid image upload", err, h.logger)
		return
	}
	if declared := header.Header.Get("Content-Type"); declared != contentType {
		h.logger.Debug("declared image type ignored", "declared", declared, "detected", contentType)
	}

	recipe, err := h.recipeUseCase.UploadImage(r.Context(), user.ID, recipeID, usecase.ImageUpload{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: contentType,
	})
	if err != nil {
		h.respondRecipeError(w, err, "User not authorized to edit this recipe")
		return
	}

	respondWithJSON(w, http.StatusOK, recipe, h.logger)
}

// respondRecipeError отвечает по доменной ошибке; неизвестные ошибки дают 500 "Server error"
func (h *RecipeHandler) respondRecipeError(w http.ResponseWriter, err error, forbiddenMsg string) {
	code := statusFor(err, http.StatusInternalServerError)

	switch code {
	case http.StatusForbidden:
		respondWithError(w, code, forbiddenMsg, h.logger)
	case http.StatusInternalServerError:
		h.logger.Error("recipe request failed", "error", err)
		respondWithError(w, code, "Server error", h.logger)
	case http.StatusBadRequest:
		h.logger.Warn("recipe request rejected", "error", err)
		var detail error
		if errors.Is(err, domain.ErrValidation) && !errors.Is(err, domain.ErrInvalidRating) {
			detail = err
		}
		respondWithErrorDetail(w, code, messageFor(err, "Invalid request"), detail, h.logger)
	default:
		respondWithError(w, code, messageFor(err, http.StatusText(code)), h.logger)
	}
}

func (h *RecipeHandler) ratingInput(w http.ResponseWriter, r *http.Request) (*domain.User, uuid.UUID, float64, bool) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return nil, uuid.Nil, 0, false
	}
	recipeID, ok := h.recipeID(w, r)
	if !ok {
		return nil, uuid.Nil, 0, false
	}

	var req ratingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErrorDetail(w, http.StatusBadRequest, "Rating must be a number between 0 and 5", err, h.logger)
		return nil, uuid.Nil, 0, false
	}
	if err := validate.Struct(req); err != nil {
		respondWithErrorDetail(w, http.StatusBadRequest, "Rating must be a number between 0 and 5", validationError(err), h.logger)
		return nil, uuid.Nil, 0, false
	}
	return user, recipeID, *req.Rating, true
}

// recipeID разбирает {id}; нераспознанный id означает, что рецепта нет
func (h *RecipeHandler) recipeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Recipe not found", h.logger)
		return uuid.Nil, false
	}
	return id, true
}

func (h *RecipeHandler) currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authorized, no token", h.logger)
		return nil, false
	}
	return user, true
}

// present сообщает, что поле передано и не равно null
// sniffContentType определяет тип по первым 512 байтам и возвращает читателя в начало.
// Заявленный клиентом Content-Type не используется.
func sniffContentType(rs io.ReadSeeker) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(rs, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func parseStringArray(raw json.RawMessage) ([]string, error) {
	if !present(raw) {
		return nil, errNotStringArray
	}
	// указатели отличают null-элемент от пустой строки
	var items []*string
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, errNotStringArray
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			return nil, errNotStringArray
		}
		out = append(out, *item)
	}
	return out, nil
}
