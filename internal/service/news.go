// news.go — CRUD новостей поверх docstore.
package service

import (
	"log/slog"
	"time"

	"github.com/arturkryukov/corpsite/content-backend/internal/domain/model"
	"github.com/arturkryukov/corpsite/content-backend/internal/storage/docstore"
)

// NewsService — операции над коллекцией новостей.
type NewsService struct {
	store  *docstore.Store
	logger *slog.Logger
}

// NewNewsService создаёт сервис новостей.
func NewNewsService(store *docstore.Store, logger *slog.Logger) *NewsService {
	return &NewsService{
		store:  store,
		logger: logger.With(slog.String("component", "news_service")),
	}
}

// List возвращает новости, новые первыми.
func (s *NewsService) List() ([]model.NewsPost, error) {
	posts, err := docstore.LoadList[model.NewsPost](s.store, CollectionNews)
	if err != nil {
		return nil, err
	}

	result := make([]model.NewsPost, 0, len(posts))
	for i := len(posts) - 1; i >= 0; i-- {
		result = append(result, posts[i])
	}
	return result, nil
}

// Get возвращает новость по id.
func (s *NewsService) Get(id int64) (*model.NewsPost, error) {
	posts, err := docstore.LoadList[model.NewsPost](s.store, CollectionNews)
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

// Create добавляет новость; момент публикации фиксируется при создании.
func (s *NewsService) Create(fields model.NewsPatch) (*model.NewsPost, error) {
	mu := s.store.Locker(CollectionNews)
	mu.Lock()
	defer mu.Unlock()

	posts, err := docstore.LoadList[model.NewsPost](s.store, CollectionNews)
	if err != nil {
		return nil, err
	}

	post := model.NewsPost{PublishedAt: time.Now().UTC()}
	fields.Apply(&post)
	post.ID = newRecordID(maxID(posts, func(p model.NewsPost) int64 { return p.ID }))
	posts = append(posts, post)

	if err := s.store.Save(CollectionNews, posts); err != nil {
		return nil, err
	}

	s.logger.Info("Новость создана",
		slog.Int64("id", post.ID),
		slog.String("title", post.Title),
	)
	return &post, nil
}

// Update накладывает частичное обновление на новость.
func (s *NewsService) Update(id int64, patch model.NewsPatch) (*model.NewsPost, error) {
	mu := s.store.Locker(CollectionNews)
	mu.Lock()
	defer mu.Unlock()

	posts, err := docstore.LoadList[model.NewsPost](s.store, CollectionNews)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].ID != id {
			continue
		}
		patch.Apply(&posts[i])
		if err := s.store.Save(CollectionNews, posts); err != nil {
			return nil, err
		}
		return &posts[i], nil
	}
	return nil, ErrNotFound
}

// Delete удаляет новость. Идемпотентна; иллюстрация остаётся на диске.
func (s *NewsService) Delete(id int64) error {
	mu := s.store.Locker(CollectionNews)
	mu.Lock()
	defer mu.Unlock()

	posts, err := docstore.LoadList[model.NewsPost](s.store, CollectionNews)
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
	return s.store.Save(CollectionNews, kept)
}
