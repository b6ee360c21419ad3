// culture.go — HTTP handlers коллекции материалов о корпоративной культуре.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	apierrors "github.com/arturkryukov/corpsite/content-backend/internal/api/errors"
	"github.com/arturkryukov/corpsite/content-backend/internal/domain/model"
	"github.com/arturkryukov/corpsite/content-backend/internal/service"
)

// CultureHandler — обработчик endpoints материалов о культуре.
type CultureHandler struct {
	culture *service.CultureService
	logger  *slog.Logger
}

// NewCultureHandler создаёт обработчик материалов о культуре.
func NewCultureHandler(culture *service.CultureService, logger *slog.Logger) *CultureHandler {
	return &CultureHandler{
		culture: culture,
		logger:  logger.With(slog.String("component", "culture_handler")),
	}
}

// List обрабатывает GET /api/v1/culture.
func (h *CultureHandler) List(w http.ResponseWriter, _ *http.Request) {
	entries, err := h.culture.List()
	if err != nil {
		h.logger.Error("Ошибка чтения материалов", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Get обрабатывает GET /api/v1/culture/{id}.
func (h *CultureHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	entry, err := h.culture.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Create обрабатывает POST /api/v1/culture.
func (h *CultureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var fields model.CulturePatch
	if err := decodeJSON(r, &fields); err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Некорректный JSON: %s", err.Error()))
		return
	}

	entry, err := h.culture.Create(fields)
	if err != nil {
		h.logger.Error("Ошибка создания материала", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// Update обрабатывает PATCH /api/v1/culture/{id}.
func (h *CultureHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	var patch model.CulturePatch
	if err := decodeJSON(r, &patch); err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Некорректный JSON: %s", err.Error()))
		return
	}

	entry, err := h.culture.Update(id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Delete обрабатывает DELETE /api/v1/culture/{id}.
func (h *CultureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	if err := h.culture.Delete(id); err != nil {
		h.logger.Error("Ошибка удаления материала", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
