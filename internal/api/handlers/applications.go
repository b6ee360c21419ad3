// applications.go — HTTP handlers коллекции откликов на вакансии.
// Create принимает multipart form: поля отклика плюс файл резюме "cv".
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	apierrors "github.com/arturkryukov/corpsite/content-backend/internal/api/errors"
	"github.com/arturkryukov/corpsite/content-backend/internal/domain/model"
	"github.com/arturkryukov/corpsite/content-backend/internal/service"
)

// ApplicationsHandler — обработчик endpoints откликов.
type ApplicationsHandler struct {
	applications *service.ApplicationsService
	uploads      *service.UploadService
	// uploadsDir — директория общих загрузок (резюме живут в корне)
	uploadsDir string
	logger     *slog.Logger
}

// NewApplicationsHandler создаёт обработчик откликов.
func NewApplicationsHandler(
	applications *service.ApplicationsService,
	uploads *service.UploadService,
	uploadsDir string,
	logger *slog.Logger,
) *ApplicationsHandler {
	return &ApplicationsHandler{
		applications: applications,
		uploads:      uploads,
		uploadsDir:   uploadsDir,
		logger:       logger.With(slog.String("component", "applications_handler")),
	}
}

// List обрабатывает GET /api/v1/applications.
// Параметр jobId фильтрует отклики по вакансии.
func (h *ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	jobID, err := formInt64(r, "jobId")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	apps, err := h.applications.List(jobID)
	if err != nil {
		h.logger.Error("Ошибка чтения откликов", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// Get обрабатывает GET /api/v1/applications/{id}.
func (h *ApplicationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	app, err := h.applications.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// Create обрабатывает POST /api/v1/applications.
// Multipart form: jobId (обязательно), name, email, phone, coverLetter,
// файл "cv" (обязательно). Сначала принимаются байты резюме, затем
// создаётся запись со ссылкой на хранимое имя.
func (h *ApplicationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Ошибка парсинга multipart: %s", err.Error()))
		return
	}

	jobID, err := formInt64(r, "jobId")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	if jobID <= 0 {
		apierrors.ValidationError(w, "Поле jobId обязательно")
		return
	}

	cv, header, err := formFile(r, "cv")
	if err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Ошибка чтения файла резюме: %s", err.Error()))
		return
	}
	if cv == nil {
		apierrors.MissingFile(w, "Поле 'cv' обязательно")
		return
	}
	defer cv.Close()

	storedName, err := h.uploads.Receive(service.UploadParams{
		Reader:       cv,
		OriginalName: header.Filename,
		Size:         header.Size,
		Dir:          h.uploadsDir,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	name := r.FormValue("name")
	email := r.FormValue("email")
	phone := r.FormValue("phone")
	coverLetter := r.FormValue("coverLetter")

	app, err := h.applications.Create(model.ApplicationPatch{
		JobID:       &jobID,
		Name:        &name,
		Email:       &email,
		Phone:       &phone,
		CoverLetter: &coverLetter,
		CVPath:      &storedName,
	})
	if err != nil {
		h.logger.Error("Ошибка создания отклика", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// Update обрабатывает PATCH /api/v1/applications/{id}.
func (h *ApplicationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	var patch model.ApplicationPatch
	if err := decodeJSON(r, &patch); err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Некорректный JSON: %s", err.Error()))
		return
	}

	app, err := h.applications.Update(id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// Delete обрабатывает DELETE /api/v1/applications/{id}.
// Файл резюме остаётся на диске; его убирает явная GC.
func (h *ApplicationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	if err := h.applications.Delete(id); err != nil {
		h.logger.Error("Ошибка удаления отклика", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
