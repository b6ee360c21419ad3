// applications.go — CRUD откликов на вакансии поверх docstore.
package service

import (
	"log/slog"

	"github.com/arturkryukov/corpsite/content-backend/internal/domain/model"
	"github.com/arturkryukov/corpsite/content-backend/internal/storage/docstore"
)

// ApplicationsService — операции над коллекцией откликов.
type ApplicationsService struct {
	store  *docstore.Store
	logger *slog.Logger
}

// NewApplicationsService создаёт сервис откликов.
func NewApplicationsService(store *docstore.Store, logger *slog.Logger) *ApplicationsService {
	return &ApplicationsService{
		store:  store,
		logger: logger.With(slog.String("component", "applications_service")),
	}
}

// List возвращает отклики, новые первыми. jobID > 0 фильтрует по вакансии.
func (s *ApplicationsService) List(jobID int64) ([]model.Application, error) {
	apps, err := docstore.LoadList[model.Application](s.store, CollectionApplications)
	if err != nil {
		return nil, err
	}

	result := make([]model.Application, 0, len(apps))
	for i := len(apps) - 1; i >= 0; i-- {
		if jobID > 0 && apps[i].JobID != jobID {
			continue
		}
		result = append(result, apps[i])
	}
	return result, nil
}

// Get возвращает отклик по id.
func (s *ApplicationsService) Get(id int64) (*model.Application, error) {
	apps, err := docstore.LoadList[model.Application](s.store, CollectionApplications)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		if apps[i].ID == id {
			return &apps[i], nil
		}
	}
	return nil, ErrNotFound
}

// Create добавляет отклик. CVPath — хранимое имя уже принятого файла
// резюме: приём байтов и запись ссылки — два независимых шага.
func (s *ApplicationsService) Create(fields model.ApplicationPatch) (*model.Application, error) {
	mu := s.store.Locker(CollectionApplications)
	mu.Lock()
	defer mu.Unlock()

	apps, err := docstore.LoadList[model.Application](s.store, CollectionApplications)
	if err != nil {
		return nil, err
	}

	var app model.Application
	fields.Apply(&app)
	app.ID = newRecordID(maxID(apps, func(a model.Application) int64 { return a.ID }))
	apps = append(apps, app)

	if err := s.store.Save(CollectionApplications, apps); err != nil {
		return nil, err
	}

	s.logger.Info("Отклик создан",
		slog.Int64("id", app.ID),
		slog.Int64("job_id", app.JobID),
		slog.String("cv_path", app.CVPath),
	)
	return &app, nil
}

// Update накладывает частичное обновление на отклик.
func (s *ApplicationsService) Update(id int64, patch model.ApplicationPatch) (*model.Application, error) {
	mu := s.store.Locker(CollectionApplications)
	mu.Lock()
	defer mu.Unlock()

	apps, err := docstore.LoadList[model.Application](s.store, CollectionApplications)
	if err != nil {
		return nil, err
	}

	for i := range apps {
		if apps[i].ID != id {
			continue
		}
		patch.Apply(&apps[i])
		if err := s.store.Save(CollectionApplications, apps); err != nil {
			return nil, err
		}
		return &apps[i], nil
	}
	return nil, ErrNotFound
}

// Delete удаляет отклик. Идемпотентна; файл резюме остаётся на диске
// (намеренно — см. операцию GC).
func (s *ApplicationsService) Delete(id int64) error {
	mu := s.store.Locker(CollectionApplications)
	mu.Lock()
	defer mu.Unlock()

	apps, err := docstore.LoadList[model.Application](s.store, CollectionApplications)
	if err != nil {
		return err
	}

	kept := apps[:0]
	for _, a := range apps {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(apps) {
		return nil
	}

	if err := s.store.Save(CollectionApplications, kept); err != nil {
		return err
	}

	s.logger.Info("Отклик удалён", slog.Int64("id", id))
	return nil
}
