// culture.go — CRUD материалов «жизнь компании» поверх docstore.
package service

import (
	"log/slog"

	"github.com/arturkryukov/corpsite/content-backend/internal/domain/model"
	"github.com/arturkryukov/corpsite/content-backend/internal/storage/docstore"
)

// CultureService — операции над коллекцией материалов о культуре.
type CultureService struct {
	store  *docstore.Store
	logger *slog.Logger
}

// NewCultureService создаёт сервис материалов о культуре.
func NewCultureService(store *docstore.Store, logger *slog.Logger) *CultureService {
	return &CultureService{
		store:  store,
		logger: logger.With(slog.String("component", "culture_service")),
	}
}

// List возвращает материалы в порядке создания.
func (s *CultureService) List() ([]model.CultureEntry, error) {
	return docstore.LoadList[model.CultureEntry](s.store, CollectionCulture)
}

// Get возвращает материал по id.
func (s *CultureService) Get(id int64) (*model.CultureEntry, error) {
	entries, err := docstore.LoadList[model.CultureEntry](s.store, CollectionCulture)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], nil
		}
	}
	return nil, ErrNotFound
}

// Create добавляет материал.
func (s *CultureService) Create(fields model.CulturePatch) (*model.CultureEntry, error) {
	mu := s.store.Locker(CollectionCulture)
	mu.Lock()
	defer mu.Unlock()

	entries, err := docstore.LoadList[model.CultureEntry](s.store, CollectionCulture)
	if err != nil {
		return nil, err
	}

	var entry model.CultureEntry
	fields.Apply(&entry)
	entry.ID = newRecordID(maxID(entries, func(e model.CultureEntry) int64 { return e.ID }))
	entries = append(entries, entry)

	if err := s.store.Save(CollectionCulture, entries); err != nil {
		return nil, err
	}

	s.logger.Info("Материал о культуре создан",
		slog.Int64("id", entry.ID),
		slog.String("title", entry.Title),
	)
	return &entry, nil
}

// Update накладывает частичное обновление на материал.
func (s *CultureService) Update(id int64, patch model.CulturePatch) (*model.CultureEntry, error) {
	mu := s.store.Locker(CollectionCulture)
	mu.Lock()
	defer mu.Unlock()

	entries, err := docstore.LoadList[model.CultureEntry](s.store, CollectionCulture)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].ID != id {
			continue
		}
		patch.Apply(&entries[i])
		if err := s.store.Save(CollectionCulture, entries); err != nil {
			return nil, err
		}
		return &entries[i], nil
	}
	return nil, ErrNotFound
}

// Delete удаляет материал. Идемпотентна.
func (s *CultureService) Delete(id int64) error {
	mu := s.store.Locker(CollectionCulture)
	mu.Lock()
	defer mu.Unlock()

	entries, err := docstore.LoadList[model.CultureEntry](s.store, CollectionCulture)
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return s.store.Save(CollectionCulture, kept)
}
