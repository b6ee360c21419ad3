// Пакет service — бизнес-логика контент-бэкенда.
// upload.go — приём загружаемых файлов.
package service

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/arturkryukov/corpsite/content-backend/internal/api/middleware"
	"github.com/arturkryukov/corpsite/content-backend/internal/storage/filename"
)

// UploadParams — параметры приёма файла.
type UploadParams struct {
	// Reader — поток данных файла; nil означает отсутствие payload
	Reader io.Reader
	// OriginalName — оригинальное имя файла
	OriginalName string
	// Size — заявленный размер файла (из Content-Length multipart part);
	// проверяется до чтения, фактический размер контролируется при записи
	Size int64
	// Dir — целевая директория (категория загрузки)
	Dir string
}

// UploadService — приём файлов: лимит размера, политика именования,
// атомарная запись на диск. Вызовы независимы — общего изменяемого
// состояния нет, конкурентные загрузки разводятся уникальными префиксами.
type UploadService struct {
	// maxSize — максимальный размер файла в байтах (CMS_MAX_UPLOAD_SIZE)
	maxSize int64
	logger  *slog.Logger
}

// NewUploadService создаёт сервис загрузки.
func NewUploadService(maxSize int64, logger *slog.Logger) *UploadService {
	return &UploadService{
		maxSize: maxSize,
		logger:  logger.With(slog.String("component", "upload_service")),
	}
}

// MaxSize возвращает действующий лимит размера файла.
func (s *UploadService) MaxSize() int64 {
	return s.maxSize
}

// Receive принимает файл и возвращает его хранимое имя.
//
// Поток:
//  1. Проверка наличия payload и заявленного размера
//  2. Генерация уникального префикса и хранимого имени
//  3. Создание целевой директории (рекурсивно)
//  4. Запись: temp файл → контроль фактического размера → fsync → rename
//
// Размер ровно в лимит допустим; лимит+1 — PayloadTooLargeError.
func (s *UploadService) Receive(params UploadParams) (string, error) {
	// 1. Валидация payload
	if params.Reader == nil {
		return "", ErrMissingFile
	}
	if params.Size > s.maxSize {
		return "", &PayloadTooLargeError{Size: params.Size, Limit: s.maxSize}
	}

	// 2. Целевая директория
	if err := os.MkdirAll(params.Dir, 0o750); err != nil {
		return "", fmt.Errorf("не удалось создать директорию загрузок %s: %w", params.Dir, err)
	}

	// 3. Хранимое имя. Случайная компонента префикса делает коллизию
	// маловероятной; существующий файл на диске — повод перегенерировать.
	// Проверка существования не атомарна с финальным rename: две
	// загрузки, получившие одинаковый префикс в окне между Stat и
	// rename, разрешаются в пользу последней.
	storedName := filename.Derive(params.OriginalName, filename.NewPrefix())
	for range 3 {
		if _, err := os.Stat(filepath.Join(params.Dir, storedName)); os.IsNotExist(err) {
			break
		}
		storedName = filename.Derive(params.OriginalName, filename.NewPrefix())
	}

	// 4. Атомарная запись: temp → fsync → rename.
	// LimitReader на лимит+1 ловит payload, фактический размер которого
	// превысил заявленный.
	fullPath := filepath.Join(params.Dir, storedName)
	tmpPath := fullPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(params.Reader, s.maxSize+1))
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка записи данных: %w", err)
	}
	if written > s.maxSize {
		f.Close()
		os.Remove(tmpPath)
		return "", &PayloadTooLargeError{Size: written, Limit: s.maxSize}
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка fsync: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка закрытия файла: %w", err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	middleware.UploadsTotal.WithLabelValues("success").Inc()
	middleware.UploadBytesTotal.Add(float64(written))

	s.logger.Info("Файл загружен",
		slog.String("stored_name", storedName),
		slog.String("original_name", params.OriginalName),
		slog.String("dir", params.Dir),
		slog.Int64("size", written),
	)

	return storedName, nil
}
