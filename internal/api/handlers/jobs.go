// jobs.go — HTTP handlers коллекции вакансий.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	apierrors "github.com/arturkryukov/corpsite/content-backend/internal/api/errors"
	"github.com/arturkryukov/corpsite/content-backend/internal/domain/model"
	"github.com/arturkryukov/corpsite/content-backend/internal/service"
)

// JobsHandler — обработчик endpoints вакансий.
type JobsHandler struct {
	jobs   *service.JobsService
	logger *slog.Logger
}

// NewJobsHandler создаёт обработчик вакансий.
func NewJobsHandler(jobs *service.JobsService, logger *slog.Logger) *JobsHandler {
	return &JobsHandler{
		jobs:   jobs,
		logger: logger.With(slog.String("component", "jobs_handler")),
	}
}

// List обрабатывает GET /api/v1/jobs.
// Параметр active=true оставляет только открытые вакансии.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	jobs, err := h.jobs.List(activeOnly)
	if err != nil {
		h.logger.Error("Ошибка чтения вакансий", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// Get обрабатывает GET /api/v1/jobs/{id}.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	job, err := h.jobs.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// Create обрабатывает POST /api/v1/jobs.
func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var fields model.JobPatch
	if err := decodeJSON(r, &fields); err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Некорректный JSON: %s", err.Error()))
		return
	}

	job, err := h.jobs.Create(fields)
	if err != nil {
		h.logger.Error("Ошибка создания вакансии", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// Update обрабатывает PATCH /api/v1/jobs/{id}.
func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	var patch model.JobPatch
	if err := decodeJSON(r, &patch); err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Некорректный JSON: %s", err.Error()))
		return
	}

	job, err := h.jobs.Update(id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// Delete обрабатывает DELETE /api/v1/jobs/{id}.
func (h *JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	if err := h.jobs.Delete(id); err != nil {
		h.logger.Error("Ошибка удаления вакансии", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
