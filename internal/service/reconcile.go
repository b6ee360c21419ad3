// reconcile.go — сверка (reconciliation) директорий загрузок и коллекций.
//
// Сверка чинит дрейф между хранимым именем файла и ссылками на него:
//   - файл, названный по устаревшему правилу санитизации,
//     переименовывается в каноническое имя;
//   - ссылка записи (cvPath, imagePath, logoPath, heroImagePath),
//     устаревшая относительно канонического имени, обновляется.
//
// Файлы и записи сопоставляются по уникальному префиксу
// {epochMillis}-{randomInt} — точного совпадения имён не требуется,
// это терпимо к именам, порождённым старыми ошибками санитизации.
// Файл или ссылка без пары попадает в Unmatched и не трогается:
// сверка чинит дрейф известной формы, но ничего не изобретает.
//
// Операция офлайновая (maintenance endpoint или cmd/reconcile)
// и идемпотентная: повторный запуск по консистентному состоянию
// не делает ни одного переименования и ни одного обновления.
package service

import (
	"fmt"
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

// Prometheus метрики сверки
var (
	// reconcileRunsTotal — количество запусков сверки.
	reconcileRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cms_reconcile_runs_total",
		Help: "Общее количество запусков сверки",
	})

	// reconcileRenamesTotal — количество переименованных файлов.
	reconcileRenamesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cms_reconcile_renames_total",
		Help: "Общее количество файлов, переименованных сверкой",
	})

	// reconcileUpdatesTotal — количество исправленных ссылок в записях.
	reconcileUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cms_reconcile_updates_total",
		Help: "Общее количество ссылок на вложения, исправленных сверкой",
	})

	// reconcileDurationSeconds — длительность выполнения сверки.
	reconcileDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cms_reconcile_duration_seconds",
		Help:    "Длительность выполнения сверки в секундах",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	})
)

// Report — результат одного запуска сверки.
type Report struct {
	// StartedAt, CompletedAt — границы запуска (UTC)
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
	// FilesScanned — количество управляемых файлов в директориях загрузок
	FilesScanned int `json:"filesScanned"`
	// Renamed — файлы, переименованные в каноническое имя
	Renamed int `json:"renamed"`
	// Updated — исправленные ссылки в записях
	Updated int `json:"updated"`
	// Skipped — имена некорректной формы, пропущенные с предупреждением
	Skipped int `json:"skipped"`
	// Unmatched — файлы без записи и ссылки без файла
	Unmatched []string `json:"unmatched"`
}

// Reconciler — сервис сверки хранилища.
type Reconciler struct {
	store *docstore.Store
	// dirs — директории загрузок для сканирования
	dirs   []string
	logger *slog.Logger

	mu        sync.Mutex // защита от параллельного запуска
	inProcess bool
}

// NewReconciler создаёт сервис сверки.
func NewReconciler(store *docstore.Store, dirs []string, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		store:  store,
		dirs:   dirs,
		logger: logger.With(slog.String("component", "reconcile")),
	}
}

// IsInProgress возвращает true, если сверка выполняется.
func (r *Reconciler) IsInProgress() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inProcess
}

// Run выполняет один цикл сверки.
// Возвращает nil, true если сверка уже выполняется (skipped).
func (r *Reconciler) Run() (*Report, bool) {
	r.mu.Lock()
	if r.inProcess {
		r.mu.Unlock()
		r.logger.Warn("Сверка уже выполняется, пропуск")
		return nil, true
	}
	r.inProcess = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.inProcess = false
		r.mu.Unlock()
	}()

	runID := uuid.New().String()[:8]
	logger := r.logger.With(slog.String("run_id", runID))

	report := &Report{
		StartedAt: time.Now().UTC(),
		Unmatched: []string{},
	}
	logger.Info("Сверка начата", slog.Int("dirs", len(r.dirs)))

	// 1. Файлы: переименование в канонические имена.
	// canonicalByPrefix — префикс → каноническое имя файла на диске.
	canonicalByPrefix := make(map[string]string)
	// fileDirByPrefix — префикс → директория файла (для отчёта)
	fileDirByPrefix := make(map[string]string)

	for _, dir := range r.dirs {
		r.scanDir(dir, logger, report, canonicalByPrefix, fileDirByPrefix)
	}

	// 2. Записи: исправление устаревших ссылок по совпадению префикса.
	matchedPrefixes := make(map[string]bool)
	r.patchCollections(logger, report, canonicalByPrefix, matchedPrefixes)

	// 3. Файлы, на которые не ссылается ни одна запись.
	for prefix, canonical := range canonicalByPrefix {
		if !matchedPrefixes[prefix] {
			report.Unmatched = append(report.Unmatched,
				"file:"+filepath.Join(fileDirByPrefix[prefix], canonical))
		}
	}
	sort.Strings(report.Unmatched)

	report.CompletedAt = time.Now().UTC()
	duration := report.CompletedAt.Sub(report.StartedAt)

	reconcileRunsTotal.Inc()
	reconcileRenamesTotal.Add(float64(report.Renamed))
	reconcileUpdatesTotal.Add(float64(report.Updated))
	reconcileDurationSeconds.Observe(duration.Seconds())

	logger.Info("Сверка завершена",
		slog.Int("files_scanned", report.FilesScanned),
		slog.Int("renamed", report.Renamed),
		slog.Int("updated", report.Updated),
		slog.Int("skipped", report.Skipped),
		slog.Int("unmatched", len(report.Unmatched)),
		slog.Duration("duration", duration),
	)

	return report, false
}

// scanDir обрабатывает одну директорию загрузок: управляемые файлы
// переименовываются в канонические имена и попадают в карту префиксов.
func (r *Reconciler) scanDir(
	dir string,
	logger *slog.Logger,
	report *Report,
	canonicalByPrefix map[string]string,
	fileDirByPrefix map[string]string,
) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		logger.Error("Ошибка чтения директории загрузок",
			slog.String("dir", dir),
			slog.String("error", err.Error()),
		)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		// Служебные и temp файлы
		if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".tmp") {
			continue
		}

		if !filename.IsManaged(name) {
			// Имя некорректной формы: пропуск с предупреждением,
			// пакетная операция не прерывается.
			report.Skipped++
			logger.Warn("Имя файла не соответствует форме хранимого имени, пропуск",
				slog.String("dir", dir),
				slog.String("name", name),
			)
			continue
		}
		report.FilesScanned++

		prefix, _, err := filename.Split(name)
		if err != nil {
			// IsManaged уже гарантировал форму; сюда не попадаем
			continue
		}

		canonical, err := filename.Canonical(name)
		if err != nil {
			continue
		}

		if canonical != name {
			if err := os.Rename(filepath.Join(dir, name), filepath.Join(dir, canonical)); err != nil {
				logger.Error("Ошибка переименования файла",
					slog.String("from", name),
					slog.String("to", canonical),
					slog.String("error", err.Error()),
				)
				continue
			}
			report.Renamed++
			logger.Info("Файл переименован в каноническое имя",
				slog.String("dir", dir),
				slog.String("from", name),
				slog.String("to", canonical),
			)
		}

		canonicalByPrefix[prefix] = canonical
		fileDirByPrefix[prefix] = dir
	}
}

// patchCollections исправляет устаревшие ссылки на вложения во всех
// коллекциях. Ссылка сопоставляется файлу по префиксу; ссылка без
// файла попадает в Unmatched.
func (r *Reconciler) patchCollections(
	logger *slog.Logger,
	report *Report,
	canonicalByPrefix map[string]string,
	matchedPrefixes map[string]bool,
) {
	// fix возвращает каноническое имя для ссылки и признак изменения.
	fix := func(collection string, recordID, ref string) (string, bool) {
		if ref == "" {
			return ref, false
		}
		prefix, _, err := filename.Split(ref)
		if err != nil {
			report.Skipped++
			logger.Warn("Ссылка на вложение некорректной формы, пропуск",
				slog.String("collection", collection),
				slog.String("record", recordID),
				slog.String("ref", ref),
			)
			return ref, false
		}

		canonical, ok := canonicalByPrefix[prefix]
		if !ok {
			report.Unmatched = append(report.Unmatched,
				fmt.Sprintf("record:%s/%s %s", collection, recordID, ref))
			return ref, false
		}
		matchedPrefixes[prefix] = true

		if ref == canonical {
			return ref, false
		}
		report.Updated++
		logger.Info("Ссылка на вложение исправлена",
			slog.String("collection", collection),
			slog.String("record", recordID),
			slog.String("from", ref),
			slog.String("to", canonical),
		)
		return canonical, true
	}

	if err := r.patchApplications(fix); err != nil {
		logger.Error("Ошибка сверки коллекции applications", slog.String("error", err.Error()))
	}
	if err := r.patchNews(fix); err != nil {
		logger.Error("Ошибка сверки коллекции news", slog.String("error", err.Error()))
	}
	if err := r.patchSocial(fix); err != nil {
		logger.Error("Ошибка сверки коллекции social", slog.String("error", err.Error()))
	}
	if err := r.patchCulture(fix); err != nil {
		logger.Error("Ошибка сверки коллекции culture", slog.String("error", err.Error()))
	}
	if err := r.patchCompany(fix); err != nil {
		logger.Error("Ошибка сверки коллекции company_content", slog.String("error", err.Error()))
	}
}

// fixFunc — исправление одной ссылки: (коллекция, id записи, ссылка) →
// (новая ссылка, признак изменения).
type fixFunc func(collection, recordID, ref string) (string, bool)

func (r *Reconciler) patchApplications(fix fixFunc) error {
	mu := r.store.Locker(CollectionApplications)
	mu.Lock()
	defer mu.Unlock()

	apps, err := docstore.LoadList[model.Application](r.store, CollectionApplications)
	if err != nil {
		return err
	}

	changed := false
	for i := range apps {
		if ref, ok := fix(CollectionApplications, fmt.Sprint(apps[i].ID), apps[i].CVPath); ok {
			apps[i].CVPath = ref
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.store.Save(CollectionApplications, apps)
}

func (r *Reconciler) patchNews(fix fixFunc) error {
	mu := r.store.Locker(CollectionNews)
	mu.Lock()
	defer mu.Unlock()

	posts, err := docstore.LoadList[model.NewsPost](r.store, CollectionNews)
	if err != nil {
		return err
	}

	changed := false
	for i := range posts {
		if ref, ok := fix(CollectionNews, fmt.Sprint(posts[i].ID), posts[i].ImagePath); ok {
			posts[i].ImagePath = ref
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.store.Save(CollectionNews, posts)
}

func (r *Reconciler) patchSocial(fix fixFunc) error {
	mu := r.store.Locker(CollectionSocial)
	mu.Lock()
	defer mu.Unlock()

	posts, err := docstore.LoadList[model.SocialPost](r.store, CollectionSocial)
	if err != nil {
		return err
	}

	changed := false
	for i := range posts {
		if ref, ok := fix(CollectionSocial, fmt.Sprint(posts[i].ID), posts[i].ImagePath); ok {
			posts[i].ImagePath = ref
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.store.Save(CollectionSocial, posts)
}

func (r *Reconciler) patchCulture(fix fixFunc) error {
	mu := r.store.Locker(CollectionCulture)
	mu.Lock()
	defer mu.Unlock()

	entries, err := docstore.LoadList[model.CultureEntry](r.store, CollectionCulture)
	if err != nil {
		return err
	}

	changed := false
	for i := range entries {
		if ref, ok := fix(CollectionCulture, fmt.Sprint(entries[i].ID), entries[i].ImagePath); ok {
			entries[i].ImagePath = ref
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.store.Save(CollectionCulture, entries)
}

func (r *Reconciler) patchCompany(fix fixFunc) error {
	mu := r.store.Locker(CollectionCompany)
	mu.Lock()
	defer mu.Unlock()

	doc, err := docstore.LoadMap[model.CompanyContent](r.store, CollectionCompany)
	if err != nil {
		return err
	}

	changed := false
	for scopeID, content := range doc {
		if ref, ok := fix(CollectionCompany, scopeID, content.HeroImagePath); ok {
			content.HeroImagePath = ref
			changed = true
		}
		for i := range content.Brands {
			recordID := fmt.Sprintf("%s/brands/%d", scopeID, content.Brands[i].ID)
			if ref, ok := fix(CollectionCompany, recordID, content.Brands[i].LogoPath); ok {
				content.Brands[i].LogoPath = ref
				changed = true
			}
		}
		doc[scopeID] = content
	}
	if !changed {
		return nil
	}
	return r.store.Save(CollectionCompany, doc)
}
