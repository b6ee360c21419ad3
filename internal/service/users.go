// users.go — CRUD учётных записей поверх docstore.
package service

import (
	"log/slog"

	"github.com/arturkryukov/corpsite/content-backend/internal/domain/model"
	"github.com/arturkryukov/corpsite/content-backend/internal/storage/docstore"
)

// UsersService — операции над коллекцией учётных записей.
type UsersService struct {
	store  *docstore.Store
	logger *slog.Logger
}

// NewUsersService создаёт сервис учётных записей.
func NewUsersService(store *docstore.Store, logger *slog.Logger) *UsersService {
	return &UsersService{
		store:  store,
		logger: logger.With(slog.String("component", "users_service")),
	}
}

// List возвращает учётные записи в порядке создания.
func (s *UsersService) List() ([]model.User, error) {
	return docstore.LoadList[model.User](s.store, CollectionUsers)
}

// Get возвращает учётную запись по id.
func (s *UsersService) Get(id int64) (*model.User, error) {
	users, err := docstore.LoadList[model.User](s.store, CollectionUsers)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

// Create добавляет учётную запись.
func (s *UsersService) Create(fields model.UserPatch) (*model.User, error) {
	mu := s.store.Locker(CollectionUsers)
	mu.Lock()
	defer mu.Unlock()

	users, err := docstore.LoadList[model.User](s.store, CollectionUsers)
	if err != nil {
		return nil, err
	}

	var user model.User
	fields.Apply(&user)
	user.ID = newRecordID(maxID(users, func(u model.User) int64 { return u.ID }))
	users = append(users, user)

	if err := s.store.Save(CollectionUsers, users); err != nil {
		return nil, err
	}

	s.logger.Info("Учётная запись создана",
		slog.Int64("id", user.ID),
		slog.String("email", user.Email),
	)
	return &user, nil
}

// Update накладывает частичное обновление на учётную запись.
func (s *UsersService) Update(id int64, patch model.UserPatch) (*model.User, error) {
	mu := s.store.Locker(CollectionUsers)
	mu.Lock()
	defer mu.Unlock()

	users, err := docstore.LoadList[model.User](s.store, CollectionUsers)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].ID != id {
			continue
		}
		patch.Apply(&users[i])
		if err := s.store.Save(CollectionUsers, users); err != nil {
			return nil, err
		}
		return &users[i], nil
	}
	return nil, ErrNotFound
}

// Delete удаляет учётную запись. Идемпотентна.
func (s *UsersService) Delete(id int64) error {
	mu := s.store.Locker(CollectionUsers)
	mu.Lock()
	defer mu.Unlock()

	users, err := docstore.LoadList[model.User](s.store, CollectionUsers)
	if err != nil {
		return err
	}

	kept := users[:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return nil
	}
	return s.store.Save(CollectionUsers, kept)
}
