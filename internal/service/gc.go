// gc.go — сбор осиротевших вложений (Garbage Collection).
//
// Удаление записи намеренно не удаляет её файл (политика хранения:
// никаких разрушающих сюрпризов при CRUD). Осиротевшие файлы
// накапливаются, и их очистка — отдельная, явная операция.
//
// Файл считается осиротевшим, если ни одна запись ни одной коллекции
// не ссылается на него. Сопоставление — по уникальному префиксу, как
// в сверке: файл с устаревшим суффиксом, на который есть устаревшая
// ссылка, осиротевшим не считается (сначала его починит reconcile).
//
// По умолчанию dry-run: кандидаты только перечисляются. Физическое
// удаление требует явного apply.
package service

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arturkryukov/corpsite/content-backend/internal/domain/model"
	"github.com/arturkryukov/corpsite/content-backend/internal/storage/docstore"
	"github.com/arturkryukov/corpsite/content-backend/internal/storage/filename"
)

// Prometheus метрики GC
var (
	// gcRunsTotal — количество запусков GC.
	gcRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cms_gc_runs_total",
		Help: "Общее количество запусков GC",
	})

	// gcFilesDeletedTotal — количество физически удалённых файлов.
	gcFilesDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cms_gc_files_deleted_total",
		Help: "Общее количество осиротевших файлов, удалённых GC",
	})

	// gcDurationSeconds — длительность выполнения GC.
	gcDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cms_gc_duration_seconds",
		Help:    "Длительность выполнения GC в секундах",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	})
)

// GCReport — результат одного запуска GC.
type GCReport struct {
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
	// Applied — физическое удаление выполнялось (не dry-run)
	Applied bool `json:"applied"`
	// FilesScanned — управляемые файлы в директориях загрузок
	FilesScanned int `json:"filesScanned"`
	// Orphans — пути осиротевших файлов (относительно корня загрузок)
	Orphans []string `json:"orphans"`
	// Deleted — количество удалённых файлов (0 при dry-run)
	Deleted int `json:"deleted"`
	// FreedBytes — освобождено байт (0 при dry-run)
	FreedBytes int64 `json:"freedBytes"`
}

// GCService — сбор осиротевших вложений.
type GCService struct {
	store  *docstore.Store
	dirs   []string
	logger *slog.Logger

	mu        sync.Mutex // защита от параллельного запуска
	inProcess bool
}

// NewGCService создаёт сервис GC.
func NewGCService(store *docstore.Store, dirs []string, logger *slog.Logger) *GCService {
	return &GCService{
		store:  store,
		dirs:   dirs,
		logger: logger.With(slog.String("component", "gc")),
	}
}

// Run выполняет один цикл GC. apply=false — dry-run, файлы не трогаются.
// Возвращает nil, true если GC уже выполняется.
func (gc *GCService) Run(apply bool) (*GCReport, bool) {
	gc.mu.Lock()
	if gc.inProcess {
		gc.mu.Unlock()
		gc.logger.Warn("GC уже выполняется, пропуск")
		return nil, true
	}
	gc.inProcess = true
	gc.mu.Unlock()

	defer func() {
		gc.mu.Lock()
		gc.inProcess = false
		gc.mu.Unlock()
	}()

	runID := uuid.New().String()[:8]
	logger := gc.logger.With(slog.String("run_id", runID))

	report := &GCReport{
		StartedAt: time.Now().UTC(),
		Applied:   apply,
		Orphans:   []string{},
	}
	logger.Info("GC начат", slog.Bool("apply", apply))

	// 1. Префиксы, на которые ссылается хоть одна запись
	referenced, err := gc.referencedPrefixes()
	if err != nil {
		logger.Error("Ошибка чтения коллекций", slog.String("error", err.Error()))
		return report, false
	}

	// 2. Сканирование директорий: управляемый файл без ссылки — сирота
	for _, dir := range gc.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			logger.Error("Ошибка чтения директории загрузок",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".tmp") {
				continue
			}
			if !filename.IsManaged(name) {
				continue
			}
			report.FilesScanned++

			prefix, _, splitErr := filename.Split(name)
			if splitErr != nil || referenced[prefix] {
				continue
			}

			fullPath := filepath.Join(dir, name)
			report.Orphans = append(report.Orphans, fullPath)

			if !apply {
				continue
			}
			info, statErr := entry.Info()
			if rmErr := os.Remove(fullPath); rmErr != nil {
				logger.Error("Ошибка удаления осиротевшего файла",
					slog.String("path", fullPath),
					slog.String("error", rmErr.Error()),
				)
				continue
			}
			report.Deleted++
			if statErr == nil {
				report.FreedBytes += info.Size()
			}
			logger.Info("Осиротевший файл удалён", slog.String("path", fullPath))
		}
	}
	sort.Strings(report.Orphans)

	report.CompletedAt = time.Now().UTC()
	duration := report.CompletedAt.Sub(report.StartedAt)

	gcRunsTotal.Inc()
	gcFilesDeletedTotal.Add(float64(report.Deleted))
	gcDurationSeconds.Observe(duration.Seconds())

	logger.Info("GC завершён",
		slog.Int("files_scanned", report.FilesScanned),
		slog.Int("orphans", len(report.Orphans)),
		slog.Int("deleted", report.Deleted),
		slog.Int64("freed_bytes", report.FreedBytes),
		slog.Duration("duration", duration),
	)

	return report, false
}

// referencedPrefixes собирает префиксы всех ссылок на вложения
// во всех коллекциях.
func (gc *GCService) referencedPrefixes() (map[string]bool, error) {
	referenced := make(map[string]bool)

	add := func(ref string) {
		if ref == "" {
			return
		}
		if prefix, _, err := filename.Split(ref); err == nil {
			referenced[prefix] = true
		}
	}

	apps, err := docstore.LoadList[model.Application](gc.store, CollectionApplications)
	if err != nil {
		return nil, err
	}
	for _, a := range apps {
		add(a.CVPath)
	}

	news, err := docstore.LoadList[model.NewsPost](gc.store, CollectionNews)
	if err != nil {
		return nil, err
	}
	for _, p := range news {
		add(p.ImagePath)
	}

	social, err := docstore.LoadList[model.SocialPost](gc.store, CollectionSocial)
	if err != nil {
		return nil, err
	}
	for _, p := range social {
		add(p.ImagePath)
	}

	culture, err := docstore.LoadList[model.CultureEntry](gc.store, CollectionCulture)
	if err != nil {
		return nil, err
	}
	for _, e := range culture {
		add(e.ImagePath)
	}

	company, err := docstore.LoadMap[model.CompanyContent](gc.store, CollectionCompany)
	if err != nil {
		return nil, err
	}
	for _, content := range company {
		add(content.HeroImagePath)
		for _, b := range content.Brands {
			add(b.LogoPath)
		}
	}

	return referenced, nil
}
