// news.go — HTTP handlers коллекции новостей.
// Create принимает JSON либо multipart form с иллюстрацией "image".
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	apierrors "github.com/arturkryukov/corpsite/content-backend/internal/api/errors"
	"github.com/arturkryukov/corpsite/content-backend/internal/domain/model"
	"github.com/arturkryukov/corpsite/content-backend/internal/service"
)

// NewsHandler — обработчик endpoints новостей.
type NewsHandler struct {
	news    *service.NewsService
	uploads *service.UploadService
	// uploadsDir — директория загрузок категории news
	uploadsDir string
	logger     *slog.Logger
}

// NewNewsHandler создаёт обработчик новостей.
func NewNewsHandler(
	news *service.NewsService,
	uploads *service.UploadService,
	uploadsDir string,
	logger *slog.Logger,
) *NewsHandler {
	return &NewsHandler{
		news:       news,
		uploads:    uploads,
		uploadsDir: uploadsDir,
		logger:     logger.With(slog.String("component", "news_handler")),
	}
}

// List обрабатывает GET /api/v1/news.
func (h *NewsHandler) List(w http.ResponseWriter, _ *http.Request) {
	posts, err := h.news.List()
	if err != nil {
		h.logger.Error("Ошибка чтения новостей", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// Get обрабатывает GET /api/v1/news/{id}.
func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	post, err := h.news.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Create обрабатывает POST /api/v1/news.
// JSON — только текстовые поля; multipart form с частью "image"
// дополнительно принимает иллюстрацию в uploads/news.
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var fields model.NewsPatch

	if isMultipart(r) {
		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			apierrors.ValidationError(w, fmt.Sprintf("Ошибка парсинга multipart: %s", err.Error()))
			return
		}

		fields.Title = formStrPtr(r, "title")
		fields.Body = formStrPtr(r, "body")

		image, header, err := formFile(r, "image")
		if err != nil {
			apierrors.ValidationError(w, fmt.Sprintf("Ошибка чтения иллюстрации: %s", err.Error()))
			return
		}
		if image != nil {
			defer image.Close()

			storedName, err := h.uploads.Receive(service.UploadParams{
				Reader:       image,
				OriginalName: header.Filename,
				Size:         header.Size,
				Dir:          h.uploadsDir,
			})
			if err != nil {
				writeServiceError(w, err)
				return
			}
			fields.ImagePath = &storedName
		}
	} else {
		if err := decodeJSON(r, &fields); err != nil {
			apierrors.ValidationError(w, fmt.Sprintf("Некорректный JSON: %s", err.Error()))
			return
		}
	}

	post, err := h.news.Create(fields)
	if err != nil {
		h.logger.Error("Ошибка создания новости", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// Update обрабатывает PATCH /api/v1/news/{id}.
func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	var patch model.NewsPatch
	if err := decodeJSON(r, &patch); err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Некорректный JSON: %s", err.Error()))
		return
	}

	post, err := h.news.Update(id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete обрабатывает DELETE /api/v1/news/{id}.
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	if err := h.news.Delete(id); err != nil {
		h.logger.Error("Ошибка удаления новости", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
