// handler.go — общие помощники HTTP-обработчиков: JSON-ответы,
// разбор идентификаторов, multipart и маппинг ошибок сервисного
// слоя на коды API.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/arturkryukov/corpsite/content-backend/internal/api/errors"
	"github.com/arturkryukov/corpsite/content-backend/internal/service"
)

// multipartMemoryLimit — буфер разбора multipart form в памяти;
// остальное уходит во временные файлы.
const multipartMemoryLimit = 32 << 20

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// idParam извлекает числовой идентификатор записи из пути.
func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("некорректный идентификатор %q", raw)
	}
	return id, nil
}

// decodeJSON разбирает тело запроса в v; неизвестные поля — ошибка.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// isMultipart сообщает, пришёл ли запрос как multipart/form-data.
func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// formFile извлекает файл из multipart form. Отсутствие части —
// (nil, nil, nil): обязательность решает вызывающий.
func formFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return file, header, nil
}

// formStrPtr возвращает указатель на значение поля multipart form
// или nil, если поле в форме отсутствует. Отсутствующее поле не
// затирает сохранённое значение при частичном обновлении — та же
// семантика, что у отсутствующего ключа в JSON patch.
func formStrPtr(r *http.Request, field string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// formInt64 разбирает числовое значение поля формы; пустое поле — 0.
func formInt64(r *http.Request, field string) (int64, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("поле %q: некорректное число %q", field, raw)
	}
	return v, nil
}

// writeServiceError отображает ошибку сервисного слоя в ответ API.
func writeServiceError(w http.ResponseWriter, err error) {
	var tooLarge *service.PayloadTooLargeError

	switch {
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, "Запись не найдена")
	case errors.Is(err, service.ErrMissingFile):
		apierrors.MissingFile(w, "Файл не передан")
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.As(err, &tooLarge):
		apierrors.FileTooLarge(w, fmt.Sprintf(
			"Размер файла %d байт превышает лимит %d байт", tooLarge.Size, tooLarge.Limit))
	default:
		apierrors.InternalError(w, "Внутренняя ошибка сервера")
	}
}
