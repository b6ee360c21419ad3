// uploads.go — HTTP handlers приёма и отдачи вложений.
// Приём кладёт файл в директорию своей категории; отдача работает
// только с управляемыми именами, что исключает выход из директории.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/arturkryukov/corpsite/content-backend/internal/api/errors"
	"github.com/arturkryukov/corpsite/content-backend/internal/config"
	"github.com/arturkryukov/corpsite/content-backend/internal/service"
	"github.com/arturkryukov/corpsite/content-backend/internal/storage/filename"
)

// validCategories — категории вложений, известные API.
var validCategories = map[string]bool{
	config.UploadsCategoryGeneral: true,
	config.UploadsCategoryBrands:  true,
	config.UploadsCategoryNews:    true,
	config.UploadsCategorySocial:  true,
}

// UploadsHandler — обработчик endpoints вложений.
type UploadsHandler struct {
	uploads *service.UploadService
	cfg     *config.Config
	logger  *slog.Logger
}

// NewUploadsHandler создаёт обработчик вложений.
func NewUploadsHandler(uploads *service.UploadService, cfg *config.Config, logger *slog.Logger) *UploadsHandler {
	return &UploadsHandler{
		uploads: uploads,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "uploads_handler")),
	}
}

// Upload обрабатывает POST /api/v1/uploads.
// Multipart form: file (обязательно), category (опционально, по
// умолчанию general). Возвращает хранимое имя и URL отдачи.
func (h *UploadsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Ошибка парсинга multipart: %s", err.Error()))
		return
	}

	category := r.FormValue("category")
	if category == "" {
		category = config.UploadsCategoryGeneral
	}
	if !validCategories[category] {
		apierrors.ValidationError(w, fmt.Sprintf("Неизвестная категория %q", category))
		return
	}

	file, header, err := formFile(r, "file")
	if err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Ошибка чтения файла: %s", err.Error()))
		return
	}
	if file == nil {
		apierrors.MissingFile(w, "Поле 'file' обязательно")
		return
	}
	defer file.Close()

	storedName, err := h.uploads.Receive(service.UploadParams{
		Reader:       file,
		OriginalName: header.Filename,
		Size:         header.Size,
		Dir:          h.cfg.UploadDir(category),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"storedName": storedName,
		"category":   category,
		"url":        fmt.Sprintf("/api/v1/uploads/%s/%s", category, storedName),
	})
}

// Serve обрабатывает GET /api/v1/uploads/{category}/{name}.
// Отдаёт только файлы с управляемым хранимым именем. http.ServeContent
// берёт на себя Range requests и If-Modified-Since.
func (h *UploadsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if !validCategories[category] {
		apierrors.NotFound(w, fmt.Sprintf("Неизвестная категория %q", category))
		return
	}

	name := chi.URLParam(r, "name")
	if !filename.IsManaged(name) {
		apierrors.NotFound(w, "Файл не найден")
		return
	}

	path := filepath.Join(h.cfg.UploadDir(category), name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			apierrors.NotFound(w, "Файл не найден")
			return
		}
		h.logger.Error("Ошибка открытия вложения",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Ошибка чтения файла")
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		apierrors.InternalError(w, "Ошибка чтения файла")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	http.ServeContent(w, r, name, stat.ModTime(), f)
}
