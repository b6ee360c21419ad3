// company.go — HTTP handlers контента страниц компании:
// scope-страницы, суббренды (с логотипами), услуги, награды.
package handlers

import (
	"fmt"
	"image/color"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/arturkryukov/corpsite/content-backend/internal/api/errors"
	"github.com/arturkryukov/corpsite/content-backend/internal/domain/model"
	"github.com/arturkryukov/corpsite/content-backend/internal/service"
)

// CompanyHandler — обработчик endpoints контента компании.
type CompanyHandler struct {
	company    *service.CompanyService
	uploads    *service.UploadService
	normalizer *service.ImageNormalizer
	// brandsDir — директория загрузок категории brands
	brandsDir string
	// logoWidth, logoHeight — целевой бокс нормализации логотипа
	logoWidth  int
	logoHeight int
	logger     *slog.Logger
}

// NewCompanyHandler создаёт обработчик контента компании.
func NewCompanyHandler(
	company *service.CompanyService,
	uploads *service.UploadService,
	normalizer *service.ImageNormalizer,
	brandsDir string,
	logoWidth, logoHeight int,
	logger *slog.Logger,
) *CompanyHandler {
	return &CompanyHandler{
		company:    company,
		uploads:    uploads,
		normalizer: normalizer,
		brandsDir:  brandsDir,
		logoWidth:  logoWidth,
		logoHeight: logoHeight,
		logger:     logger.With(slog.String("component", "company_handler")),
	}
}

// scopeParam извлекает scope id из пути.
func scopeParam(r *http.Request) string {
	return chi.URLParam(r, "scope")
}

// Scopes обрабатывает GET /api/v1/company.
func (h *CompanyHandler) Scopes(w http.ResponseWriter, _ *http.Request) {
	scopes, err := h.company.Scopes()
	if err != nil {
		h.logger.Error("Ошибка чтения контента компании", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"scopes": scopes})
}

// Get обрабатывает GET /api/v1/company/{scope}.
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	content, err := h.company.Get(scopeParam(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

// Update обрабатывает PATCH /api/v1/company/{scope}.
// Обновляет скалярные поля страницы; первый доступ к новому scope
// создаёт его.
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.CompanyPatch
	if err := decodeJSON(r, &patch); err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Некорректный JSON: %s", err.Error()))
		return
	}

	content, err := h.company.Update(scopeParam(r), patch)
	if err != nil {
		h.logger.Error("Ошибка обновления страницы компании", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

// --- Суббренды ---

// receiveLogo принимает логотип из multipart form и нормализует его
// в канонический бокс. Нормализация best-effort: при ошибке декодирования
// остаётся исходный файл, запрос не падает.
// Возвращает хранимое имя или "" при отсутствии части "logo".
func (h *CompanyHandler) receiveLogo(r *http.Request) (string, error) {
	logo, header, err := formFile(r, "logo")
	if err != nil {
		return "", fmt.Errorf("ошибка чтения логотипа: %w", err)
	}
	if logo == nil {
		return "", nil
	}
	defer logo.Close()

	storedName, err := h.uploads.Receive(service.UploadParams{
		Reader:       logo,
		OriginalName: header.Filename,
		Size:         header.Size,
		Dir:          h.brandsDir,
	})
	if err != nil {
		return "", err
	}

	if err := h.normalizer.Normalize(filepath.Join(h.brandsDir, storedName), service.NormalizeParams{
		TargetWidth:  h.logoWidth,
		TargetHeight: h.logoHeight,
		Background:   color.NRGBA{},
	}); err != nil {
		h.logger.Warn("Нормализация логотипа не удалась, оставлен исходный файл",
			slog.String("stored_name", storedName),
			slog.String("error", err.Error()),
		)
	}

	return storedName, nil
}

// brandFieldsFromForm собирает BrandPatch из полей multipart form.
// Поле, отсутствующее в форме, остаётся nil и не попадает в patch:
// multipart PATCH только с логотипом не трогает текстовые поля.
func brandFieldsFromForm(r *http.Request) model.BrandPatch {
	return model.BrandPatch{
		Name:        formStrPtr(r, "name"),
		Description: formStrPtr(r, "description"),
		WebsiteURL:  formStrPtr(r, "websiteUrl"),
	}
}

// AddBrand обрабатывает POST /api/v1/company/{scope}/brands.
// JSON — только текстовые поля; multipart form с частью "logo"
// дополнительно принимает и нормализует логотип.
func (h *CompanyHandler) AddBrand(w http.ResponseWriter, r *http.Request) {
	var fields model.BrandPatch

	if isMultipart(r) {
		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			apierrors.ValidationError(w, fmt.Sprintf("Ошибка парсинга multipart: %s", err.Error()))
			return
		}

		fields = brandFieldsFromForm(r)

		storedName, err := h.receiveLogo(r)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if storedName != "" {
			fields.LogoPath = &storedName
		}
	} else {
		if err := decodeJSON(r, &fields); err != nil {
			apierrors.ValidationError(w, fmt.Sprintf("Некорректный JSON: %s", err.Error()))
			return
		}
	}

	brand, err := h.company.AddBrand(scopeParam(r), fields)
	if err != nil {
		h.logger.Error("Ошибка создания суббренда", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, brand)
}

// UpdateBrand обрабатывает PATCH /api/v1/company/{scope}/brands/{id}.
// Multipart form с частью "logo" заменяет логотип; прежний файл
// остаётся на диске до явной GC.
func (h *CompanyHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	var patch model.BrandPatch

	if isMultipart(r) {
		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			apierrors.ValidationError(w, fmt.Sprintf("Ошибка парсинга multipart: %s", err.Error()))
			return
		}

		patch = brandFieldsFromForm(r)

		storedName, err := h.receiveLogo(r)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if storedName != "" {
			patch.LogoPath = &storedName
		}
	} else {
		if err := decodeJSON(r, &patch); err != nil {
			apierrors.ValidationError(w, fmt.Sprintf("Некорректный JSON: %s", err.Error()))
			return
		}
	}

	brand, err := h.company.UpdateBrand(scopeParam(r), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, brand)
}

// DeleteBrand обрабатывает DELETE /api/v1/company/{scope}/brands/{id}.
func (h *CompanyHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	if err := h.company.DeleteBrand(scopeParam(r), id); err != nil {
		h.logger.Error("Ошибка удаления суббренда", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Услуги ---

// AddService обрабатывает POST /api/v1/company/{scope}/services.
func (h *CompanyHandler) AddService(w http.ResponseWriter, r *http.Request) {
	var fields model.BrandServicePatch
	if err := decodeJSON(r, &fields); err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Некорректный JSON: %s", err.Error()))
		return
	}

	svc, err := h.company.AddService(scopeParam(r), fields)
	if err != nil {
		h.logger.Error("Ошибка создания услуги", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

// UpdateService обрабатывает PATCH /api/v1/company/{scope}/services/{id}.
func (h *CompanyHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	var patch model.BrandServicePatch
	if err := decodeJSON(r, &patch); err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Некорректный JSON: %s", err.Error()))
		return
	}

	svc, err := h.company.UpdateService(scopeParam(r), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// DeleteService обрабатывает DELETE /api/v1/company/{scope}/services/{id}.
func (h *CompanyHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	if err := h.company.DeleteService(scopeParam(r), id); err != nil {
		h.logger.Error("Ошибка удаления услуги", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Награды ---

// AddAward обрабатывает POST /api/v1/company/{scope}/awards.
func (h *CompanyHandler) AddAward(w http.ResponseWriter, r *http.Request) {
	var fields model.AwardPatch
	if err := decodeJSON(r, &fields); err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Некорректный JSON: %s", err.Error()))
		return
	}

	award, err := h.company.AddAward(scopeParam(r), fields)
	if err != nil {
		h.logger.Error("Ошибка создания награды", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, award)
}

// UpdateAward обрабатывает PATCH /api/v1/company/{scope}/awards/{id}.
func (h *CompanyHandler) UpdateAward(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	var patch model.AwardPatch
	if err := decodeJSON(r, &patch); err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("Некорректный JSON: %s", err.Error()))
		return
	}

	award, err := h.company.UpdateAward(scopeParam(r), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, award)
}

// DeleteAward обрабатывает DELETE /api/v1/company/{scope}/awards/{id}.
func (h *CompanyHandler) DeleteAward(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	if err := h.company.DeleteAward(scopeParam(r), id); err != nil {
		h.logger.Error("Ошибка удаления награды", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
