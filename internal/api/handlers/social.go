// social.go — HTTP handlers коллекции социальных публикаций.
// Create принимает JSON либо multipart form с изображением "image".
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	apierrors "github.com/arturkryukov/corpsite/content-backend/internal/api/errors"
	"github.com/arturkryukov/corpsite/content-backend/internal/domain/model"
	"github.com/arturkryukov/corpsite/content-backend/internal/service"
)

// SocialHandler — обработчик endpoints социальных публикаций.
type SocialHandler struct {
	social  *service.SocialService
	uploads *service.UploadService
	// uploadsDir — директория загрузок категории social
	uploadsDir string
	logger     *slog.Logger
}

// NewSocialHandler создаёт обработчик социальных публикаций.
func NewSocialHandler(
	social *service.SocialService,
	uploads *service.UploadService,
	uploadsDir string,
	logger *slog.Logger,
) *SocialHandler {
	return &SocialHandler{
		social:     social,
		uploads:    uploads,
		uploadsDir: uploadsDir,
		logger:     logger.With(slog.String("component", "social_handler")),
	}
}

// List обрабатывает GET /api/v1/social.
func (h *SocialHandler) List(w http.ResponseWriter, _ *http.Request) {
	posts, err := h.social.List()
	if err != nil {
		h.logger.Error("Ошибка чтения публикаций", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// Get обрабатывает GET /api/v1/social/{id}.
func (h *SocialHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	post, err := h.social.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Create обрабатывает POST /api/v1/social.
func (h *SocialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var fields model.SocialPatch

	if isMultipart(r) {
		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			apierrors.ValidationError(w, fmt.Sprintf("Ошибка парсинга multipart: %s", err.Error()))
			return
		}

		fields.Platform = formStrPtr(r, "platform")
		fields.Text = formStrPtr(r, "text")
		fields.LinkURL = formStrPtr(r, "linkUrl")

		image, header, err := formFile(r, "image")
		if err != nil {
			apierrors.ValidationError(w, fmt.Sprintf("Ошибка чтения изображения: %s", err.Error()))
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

	post, err := h.social.Create(fields)
	if err != nil {
		h.logger.Error("Ошибка создания публикации", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// Update обрабатывает PATCH /api/v1/social/{id}.
func (h *SocialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	var patch model.SocialPatch
	if err := decodeJSON(r, &patch); err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Некорректный JSON: %s", err.Error()))
		return
	}

	post, err := h.social.Update(id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete обрабатывает DELETE /api/v1/social/{id}.
func (h *SocialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	if err := h.social.Delete(id); err != nil {
		h.logger.Error("Ошибка удаления публикации", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
