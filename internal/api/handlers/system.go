// system.go — обработчик GET /api/v1/system/stats.
// Статистика хранилища: файлы и байты по категориям загрузок,
// ёмкость диска директории данных.
package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	apierrors "github.com/arturkryukov/corpsite/content-backend/internal/api/errors"
	"github.com/arturkryukov/corpsite/content-backend/internal/config"
)

// CategoryStats — статистика одной категории загрузок.
type CategoryStats struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}

// StorageStats — ответ endpoint'а статистики.
type StorageStats struct {
	Version    string                   `json:"version"`
	Categories map[string]CategoryStats `json:"categories"`
	// DiskTotalBytes, DiskUsedBytes, DiskAvailableBytes — ёмкость
	// файловой системы под директорией данных
	DiskTotalBytes     int64 `json:"diskTotalBytes"`
	DiskUsedBytes      int64 `json:"diskUsedBytes"`
	DiskAvailableBytes int64 `json:"diskAvailableBytes"`
}

// SystemHandler — обработчик системных endpoints.
type SystemHandler struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewSystemHandler создаёт обработчик системных endpoints.
func NewSystemHandler(cfg *config.Config, logger *slog.Logger) *SystemHandler {
	return &SystemHandler{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "system_handler")),
	}
}

// Stats обрабатывает GET /api/v1/system/stats.
func (h *SystemHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	categories := map[string]CategoryStats{}
	for _, category := range []string{
		config.UploadsCategoryGeneral,
		config.UploadsCategoryBrands,
		config.UploadsCategoryNews,
		config.UploadsCategorySocial,
	} {
		stats, err := dirStats(h.cfg.UploadDir(category))
		if err != nil {
			h.logger.Error("Ошибка подсчёта статистики категории",
				slog.String("category", category),
				slog.String("error", err.Error()),
			)
			apierrors.InternalError(w, "Ошибка подсчёта статистики")
			return
		}
		categories[category] = stats
	}

	total, used, available, err := diskUsage(h.cfg.DataDir)
	if err != nil {
		h.logger.Error("Ошибка получения ёмкости диска", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Ошибка получения ёмкости диска")
		return
	}

	writeJSON(w, http.StatusOK, StorageStats{
		Version:            config.Version,
		Categories:         categories,
		DiskTotalBytes:     total,
		DiskUsedBytes:      used,
		DiskAvailableBytes: available,
	})
}

// dirStats считает обычные файлы первого уровня директории.
// Отсутствующая директория — пустая категория, не ошибка.
func dirStats(dir string) (CategoryStats, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return CategoryStats{}, nil
	}
	if err != nil {
		return CategoryStats{}, err
	}

	var stats CategoryStats
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) == ".tmp" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		stats.Files++
		stats.Bytes += info.Size()
	}
	return stats, nil
}
