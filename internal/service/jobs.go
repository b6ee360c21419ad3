// jobs.go — CRUD вакансий поверх docstore.
//
// Мутации держат мьютекс коллекции на протяжении всего цикла
// read-modify-write: конкурентные записи сериализуются, «последний
// победитель» исключён. Чтения идут без блокировки — атомарная
// подмена файла гарантирует консистентный снимок.
package service

import (
	"log/slog"

	"github.com/arturkryukov/corpsite/content-backend/internal/domain/model"
	"github.com/arturkryukov/corpsite/content-backend/internal/storage/docstore"
)

// JobsService — операции над коллекцией вакансий.
type JobsService struct {
	store  *docstore.Store
	logger *slog.Logger
}

// NewJobsService создаёт сервис вакансий.
func NewJobsService(store *docstore.Store, logger *slog.Logger) *JobsService {
	return &JobsService{
		store:  store,
		logger: logger.With(slog.String("component", "jobs_service")),
	}
}

// List возвращает вакансии, новые первыми. activeOnly оставляет
// только открытые вакансии.
func (s *JobsService) List(activeOnly bool) ([]model.Job, error) {
	jobs, err := docstore.LoadList[model.Job](s.store, CollectionJobs)
	if err != nil {
		return nil, err
	}

	result := make([]model.Job, 0, len(jobs))
	for i := len(jobs) - 1; i >= 0; i-- {
		if activeOnly && !jobs[i].IsActive {
			continue
		}
		result = append(result, jobs[i])
	}
	return result, nil
}

// Get возвращает вакансию по id.
func (s *JobsService) Get(id int64) (*model.Job, error) {
	jobs, err := docstore.LoadList[model.Job](s.store, CollectionJobs)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		if jobs[i].ID == id {
			return &jobs[i], nil
		}
	}
	return nil, ErrNotFound
}

// Create добавляет вакансию: переданные поля накладываются на
// запись по умолчанию (новая вакансия активна), ID — epoch millis
// момента создания.
func (s *JobsService) Create(fields model.JobPatch) (*model.Job, error) {
	mu := s.store.Locker(CollectionJobs)
	mu.Lock()
	defer mu.Unlock()

	jobs, err := docstore.LoadList[model.Job](s.store, CollectionJobs)
	if err != nil {
		return nil, err
	}

	job := model.Job{IsActive: true}
	fields.Apply(&job)
	job.ID = newRecordID(maxID(jobs, func(j model.Job) int64 { return j.ID }))
	jobs = append(jobs, job)

	if err := s.store.Save(CollectionJobs, jobs); err != nil {
		return nil, err
	}

	s.logger.Info("Вакансия создана",
		slog.Int64("id", job.ID),
		slog.String("title", job.Title),
	)
	return &job, nil
}

// Update накладывает частичное обновление на вакансию.
func (s *JobsService) Update(id int64, patch model.JobPatch) (*model.Job, error) {
	mu := s.store.Locker(CollectionJobs)
	mu.Lock()
	defer mu.Unlock()

	jobs, err := docstore.LoadList[model.Job](s.store, CollectionJobs)
	if err != nil {
		return nil, err
	}

	for i := range jobs {
		if jobs[i].ID != id {
			continue
		}
		patch.Apply(&jobs[i])
		if err := s.store.Save(CollectionJobs, jobs); err != nil {
			return nil, err
		}
		return &jobs[i], nil
	}
	return nil, ErrNotFound
}

// Delete удаляет вакансию. Идемпотентна: отсутствующий id — не ошибка.
// Файлы вложений записей не затрагиваются.
func (s *JobsService) Delete(id int64) error {
	mu := s.store.Locker(CollectionJobs)
	mu.Lock()
	defer mu.Unlock()

	jobs, err := docstore.LoadList[model.Job](s.store, CollectionJobs)
	if err != nil {
		return err
	}

	kept := jobs[:0]
	for _, j := range jobs {
		if j.ID != id {
			kept = append(kept, j)
		}
	}
	if len(kept) == len(jobs) {
		return nil
	}

	if err := s.store.Save(CollectionJobs, kept); err != nil {
		return err
	}

	s.logger.Info("Вакансия удалена", slog.Int64("id", id))
	return nil
}
