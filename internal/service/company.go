// company.go — контент страниц компании (map-образная коллекция).
//
// company_content.json хранит мапу scope id → CompanyContent.
// Запись по новому ключу инициализируется пустыми вложенными
// списками; операции над суббрендами/услугами/наградами работают
// в пределах своего scope.
package service

import (
	"log/slog"

	"github.com/arturkryukov/corpsite/content-backend/internal/domain/model"
	"github.com/arturkryukov/corpsite/content-backend/internal/storage/docstore"
)

// CompanyService — операции над контентом страниц компании.
type CompanyService struct {
	store  *docstore.Store
	logger *slog.Logger
}

// NewCompanyService создаёт сервис контента компании.
func NewCompanyService(store *docstore.Store, logger *slog.Logger) *CompanyService {
	return &CompanyService{
		store:  store,
		logger: logger.With(slog.String("component", "company_service")),
	}
}

// emptyContent — запись нового scope: пустые вложенные списки,
// а не nil — в JSON такой scope сразу получает "brands": [] и т.д.
func emptyContent() model.CompanyContent {
	return model.CompanyContent{
		Brands:   []model.Brand{},
		Services: []model.BrandService{},
		Awards:   []model.Award{},
	}
}

// Get возвращает контент scope. Отсутствующий scope — ErrNotFound.
func (s *CompanyService) Get(scopeID string) (*model.CompanyContent, error) {
	doc, err := docstore.LoadMap[model.CompanyContent](s.store, CollectionCompany)
	if err != nil {
		return nil, err
	}
	content, ok := doc[scopeID]
	if !ok {
		return nil, ErrNotFound
	}
	return &content, nil
}

// Scopes возвращает список известных scope id.
func (s *CompanyService) Scopes() ([]string, error) {
	doc, err := docstore.LoadMap[model.CompanyContent](s.store, CollectionCompany)
	if err != nil {
		return nil, err
	}
	scopes := make([]string, 0, len(doc))
	for id := range doc {
		scopes = append(scopes, id)
	}
	return scopes, nil
}

// Update накладывает частичное обновление на скалярные поля scope.
// Первый доступ к новому ключу создаёт запись с пустыми списками.
func (s *CompanyService) Update(scopeID string, patch model.CompanyPatch) (*model.CompanyContent, error) {
	var result *model.CompanyContent
	err := s.mutate(scopeID, func(content *model.CompanyContent) error {
		patch.Apply(content)
		result = content
		return nil
	})
	return result, err
}

// mutate выполняет защищённый цикл read-modify-write над одним scope,
// инициализируя его при первом обращении.
func (s *CompanyService) mutate(scopeID string, fn func(*model.CompanyContent) error) error {
	mu := s.store.Locker(CollectionCompany)
	mu.Lock()
	defer mu.Unlock()

	doc, err := docstore.LoadMap[model.CompanyContent](s.store, CollectionCompany)
	if err != nil {
		return err
	}

	content, ok := doc[scopeID]
	if !ok {
		content = emptyContent()
	}

	if err := fn(&content); err != nil {
		return err
	}

	doc[scopeID] = content
	return s.store.Save(CollectionCompany, doc)
}

// --- Суббренды ---

// AddBrand добавляет суббренд в scope.
func (s *CompanyService) AddBrand(scopeID string, fields model.BrandPatch) (*model.Brand, error) {
	var brand model.Brand
	err := s.mutate(scopeID, func(content *model.CompanyContent) error {
		fields.Apply(&brand)
		brand.ID = newRecordID(maxID(content.Brands, func(b model.Brand) int64 { return b.ID }))
		content.Brands = append(content.Brands, brand)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Суббренд создан",
		slog.String("scope_id", scopeID),
		slog.Int64("id", brand.ID),
		slog.String("name", brand.Name),
	)
	return &brand, nil
}

// UpdateBrand накладывает частичное обновление на суббренд.
func (s *CompanyService) UpdateBrand(scopeID string, id int64, patch model.BrandPatch) (*model.Brand, error) {
	var result *model.Brand
	err := s.mutate(scopeID, func(content *model.CompanyContent) error {
		for i := range content.Brands {
			if content.Brands[i].ID != id {
				continue
			}
			patch.Apply(&content.Brands[i])
			result = &content.Brands[i]
			return nil
		}
		return ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteBrand удаляет суббренд. Идемпотентна; логотип остаётся на диске.
func (s *CompanyService) DeleteBrand(scopeID string, id int64) error {
	return s.mutate(scopeID, func(content *model.CompanyContent) error {
		kept := content.Brands[:0]
		for _, b := range content.Brands {
			if b.ID != id {
				kept = append(kept, b)
			}
		}
		content.Brands = kept
		return nil
	})
}

// --- Услуги ---

// AddService добавляет услугу в scope.
func (s *CompanyService) AddService(scopeID string, fields model.BrandServicePatch) (*model.BrandService, error) {
	var svc model.BrandService
	err := s.mutate(scopeID, func(content *model.CompanyContent) error {
		fields.Apply(&svc)
		svc.ID = newRecordID(maxID(content.Services, func(v model.BrandService) int64 { return v.ID }))
		content.Services = append(content.Services, svc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

// UpdateService накладывает частичное обновление на услугу.
func (s *CompanyService) UpdateService(scopeID string, id int64, patch model.BrandServicePatch) (*model.BrandService, error) {
	var result *model.BrandService
	err := s.mutate(scopeID, func(content *model.CompanyContent) error {
		for i := range content.Services {
			if content.Services[i].ID != id {
				continue
			}
			patch.Apply(&content.Services[i])
			result = &content.Services[i]
			return nil
		}
		return ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteService удаляет услугу. Идемпотентна.
func (s *CompanyService) DeleteService(scopeID string, id int64) error {
	return s.mutate(scopeID, func(content *model.CompanyContent) error {
		kept := content.Services[:0]
		for _, v := range content.Services {
			if v.ID != id {
				kept = append(kept, v)
			}
		}
		content.Services = kept
		return nil
	})
}

// --- Награды ---

// AddAward добавляет награду в scope.
func (s *CompanyService) AddAward(scopeID string, fields model.AwardPatch) (*model.Award, error) {
	var award model.Award
	err := s.mutate(scopeID, func(content *model.CompanyContent) error {
		fields.Apply(&award)
		award.ID = newRecordID(maxID(content.Awards, func(a model.Award) int64 { return a.ID }))
		content.Awards = append(content.Awards, award)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &award, nil
}

// UpdateAward накладывает частичное обновление на награду.
func (s *CompanyService) UpdateAward(scopeID string, id int64, patch model.AwardPatch) (*model.Award, error) {
	var result *model.Award
	err := s.mutate(scopeID, func(content *model.CompanyContent) error {
		for i := range content.Awards {
			if content.Awards[i].ID != id {
				continue
			}
			patch.Apply(&content.Awards[i])
			result = &content.Awards[i]
			return nil
		}
		return ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteAward удаляет награду. Идемпотентна.
func (s *CompanyService) DeleteAward(scopeID string, id int64) error {
	return s.mutate(scopeID, func(content *model.CompanyContent) error {
		kept := content.Awards[:0]
		for _, a := range content.Awards {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		content.Awards = kept
		return nil
	})
}
