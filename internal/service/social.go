// social.go — CRUD публикаций для социальных сетей поверх docstore.
package service

import (
	"log/slog"

	"github.com/arturkryukov/corpsite/content-backend/internal/domain/model"
	"github.com/arturkryukov/corpsite/content-backend/internal/storage/docstore"
)

// SocialService — операции над коллекцией социальных публикаций.
type SocialService struct {
	store  *docstore.Store
	logger *slog.Logger
}

// NewSocialService создаёт сервис социальных публикаций.
func NewSocialService(store *docstore.Store, logger *slog.Logger) *SocialService {
	return &SocialService{
		store:  store,
		logger: logger.With(slog.String("component", "social_service")),
	}
}

// List возвращает публикации в порядке создания.
func (s *SocialService) List() ([]model.SocialPost, error) {
	return docstore.LoadList[model.SocialPost](s.store, CollectionSocial)
}

// Get возвращает публикацию по id.
func (s *SocialService) Get(id int64) (*model.SocialPost, error) {
	posts, err := docstore.LoadList[model.SocialPost](s.store, CollectionSocial)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].ID == id {
			return &posts[i], nil
		}
	}
	return nil, ErrNotFound
}

// Create добавляет публикацию.
func (s *SocialService) Create(fields model.SocialPatch) (*model.SocialPost, error) {
	mu := s.store.Locker(CollectionSocial)
	mu.Lock()
	defer mu.Unlock()

	posts, err := docstore.LoadList[model.SocialPost](s.store, CollectionSocial)
	if err != nil {
		return nil, err
	}

	var post model.SocialPost
	fields.Apply(&post)
	post.ID = newRecordID(maxID(posts, func(p model.SocialPost) int64 { return p.ID }))
	posts = append(posts, post)

	if err := s.store.Save(CollectionSocial, posts); err != nil {
		return nil, err
	}

	s.logger.Info("Социальная публикация создана",
		slog.Int64("id", post.ID),
		slog.String("platform", post.Platform),
	)
	return &post, nil
}

// Update накладывает частичное обновление на публикацию.
func (s *SocialService) Update(id int64, patch model.SocialPatch) (*model.SocialPost, error) {
	mu := s.store.Locker(CollectionSocial)
	mu.Lock()
	defer mu.Unlock()

	posts, err := docstore.LoadList[model.SocialPost](s.store, CollectionSocial)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].ID != id {
			continue
		}
		patch.Apply(&posts[i])
		if err := s.store.Save(CollectionSocial, posts); err != nil {
			return nil, err
		}
		return &posts[i], nil
	}
	return nil, ErrNotFound
}

// Delete удаляет публикацию. Идемпотентна; изображение остаётся на диске.
func (s *SocialService) Delete(id int64) error {
	mu := s.store.Locker(CollectionSocial)
	mu.Lock()
	defer mu.Unlock()

	posts, err := docstore.LoadList[model.SocialPost](s.store, CollectionSocial)
	if err != nil {
		return err
	}

	kept := posts[:0]
	for _, p := range posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(posts) {
		return nil
	}
	return s.store.Save(CollectionSocial, kept)
}
