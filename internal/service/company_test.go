package service

import (
	"errors"
	"os"
	"sort"
	"testing"

	"github.com/arturkryukov/corpsite/content-backend/internal/domain/model"
)

// TestCompany_GetMissingScope — неизвестный scope — ErrNotFound.
func TestCompany_GetMissingScope(t *testing.T) {
	s := NewCompanyService(newTestStore(t), testLogger())

	if _, err := s.Get("нет_такого"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидалась ErrNotFound, получено %v", err)
	}
}

// TestCompany_UpdateOverNullDocument — документ "null" в файле
// коллекции не мешает созданию scope.
func TestCompany_UpdateOverNullDocument(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.Path(CollectionCompany), []byte("null"), 0o640); err != nil {
		t.Fatalf("ошибка записи файла коллекции: %v", err)
	}
	s := NewCompanyService(store, testLogger())

	if _, err := s.Update("holding", model.CompanyPatch{Title: strPtr("Холдинг")}); err != nil {
		t.Fatalf("Update: неожиданная ошибка: %v", err)
	}
	got, err := s.Get("holding")
	if err != nil {
		t.Fatalf("Get: неожиданная ошибка: %v", err)
	}
	if got.Title != "Холдинг" {
		t.Errorf("title: ожидалось %q, получено %q", "Холдинг", got.Title)
	}
}

// TestCompany_UpdateCreatesScope — первый Update создаёт scope
// с пустыми (не nil) вложенными списками.
func TestCompany_UpdateCreatesScope(t *testing.T) {
	s := NewCompanyService(newTestStore(t), testLogger())

	content, err := s.Update("holding", model.CompanyPatch{
		Title:       strPtr("Холдинг"),
		Description: strPtr("Группа компаний"),
	})
	if err != nil {
		t.Fatalf("Update: неожиданная ошибка: %v", err)
	}
	if content.Title != "Холдинг" || content.Description != "Группа компаний" {
		t.Errorf("патч применён некорректно: %+v", content)
	}
	if content.Brands == nil || content.Services == nil || content.Awards == nil {
		t.Error("вложенные списки нового scope должны быть пустыми, не nil")
	}
	if len(content.Brands)+len(content.Services)+len(content.Awards) != 0 {
		t.Errorf("новый scope должен быть без вложенных записей: %+v", content)
	}

	got, err := s.Get("holding")
	if err != nil {
		t.Fatalf("Get: неожиданная ошибка: %v", err)
	}
	if got.Title != "Холдинг" {
		t.Errorf("title после перечтения: ожидалось %q, получено %q", "Холдинг", got.Title)
	}
}

// TestCompany_Scopes — список известных scope id.
func TestCompany_Scopes(t *testing.T) {
	s := NewCompanyService(newTestStore(t), testLogger())

	for _, scope := range []string{"holding", "brand-a", "brand-b"} {
		if _, err := s.Update(scope, model.CompanyPatch{Title: strPtr(scope)}); err != nil {
			t.Fatalf("Update %s: неожиданная ошибка: %v", scope, err)
		}
	}

	scopes, err := s.Scopes()
	if err != nil {
		t.Fatalf("Scopes: неожиданная ошибка: %v", err)
	}
	sort.Strings(scopes)
	expected := []string{"brand-a", "brand-b", "holding"}
	if len(scopes) != len(expected) {
		t.Fatalf("ожидалось %d scope, получено %v", len(expected), scopes)
	}
	for i := range expected {
		if scopes[i] != expected[i] {
			t.Errorf("scope[%d]: ожидалось %q, получено %q", i, expected[i], scopes[i])
		}
	}
}

// TestCompany_BrandLifecycle — добавление, обновление и удаление суббренда.
func TestCompany_BrandLifecycle(t *testing.T) {
	s := NewCompanyService(newTestStore(t), testLogger())

	brand, err := s.AddBrand("holding", model.BrandPatch{
		Name:       strPtr("Бренд"),
		WebsiteURL: strPtr("https://brand.example.com"),
	})
	if err != nil {
		t.Fatalf("AddBrand: неожиданная ошибка: %v", err)
	}
	if brand.ID == 0 {
		t.Error("суббренду должен присваиваться id")
	}

	updated, err := s.UpdateBrand("holding", brand.ID, model.BrandPatch{
		Description: strPtr("Описание"),
	})
	if err != nil {
		t.Fatalf("UpdateBrand: неожиданная ошибка: %v", err)
	}
	if updated.Name != "Бренд" || updated.Description != "Описание" {
		t.Errorf("патч суббренда применён некорректно: %+v", updated)
	}

	if err := s.DeleteBrand("holding", brand.ID); err != nil {
		t.Fatalf("DeleteBrand: неожиданная ошибка: %v", err)
	}
	content, err := s.Get("holding")
	if err != nil {
		t.Fatalf("Get: неожиданная ошибка: %v", err)
	}
	if len(content.Brands) != 0 {
		t.Errorf("после удаления суббрендов быть не должно: %+v", content.Brands)
	}

	// Повторное удаление идемпотентно
	if err := s.DeleteBrand("holding", brand.ID); err != nil {
		t.Errorf("повторное удаление: неожиданная ошибка: %v", err)
	}
}

// TestCompany_UpdateMissingBrand — обновление несуществующего суббренда
// не создаёт scope побочным эффектом.
func TestCompany_UpdateMissingBrand(t *testing.T) {
	s := NewCompanyService(newTestStore(t), testLogger())

	if _, err := s.UpdateBrand("holding", 99, model.BrandPatch{Name: strPtr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидалась ErrNotFound, получено %v", err)
	}
	if _, err := s.Get("holding"); !errors.Is(err, ErrNotFound) {
		t.Error("неудачное обновление не должно создавать scope")
	}
}

// TestCompany_BrandIDsPerScope — id суббрендов назначаются независимо
// в каждом scope и монотонно внутри scope.
func TestCompany_BrandIDsPerScope(t *testing.T) {
	s := NewCompanyService(newTestStore(t), testLogger())

	first, err := s.AddBrand("holding", model.BrandPatch{Name: strPtr("Первый")})
	if err != nil {
		t.Fatalf("AddBrand: неожиданная ошибка: %v", err)
	}
	second, err := s.AddBrand("holding", model.BrandPatch{Name: strPtr("Второй")})
	if err != nil {
		t.Fatalf("AddBrand: неожиданная ошибка: %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("id внутри scope должны расти: %d затем %d", first.ID, second.ID)
	}
}

// TestCompany_ServiceLifecycle — услуги scope.
func TestCompany_ServiceLifecycle(t *testing.T) {
	s := NewCompanyService(newTestStore(t), testLogger())

	svc, err := s.AddService("holding", model.BrandServicePatch{
		Name: strPtr("Логистика"),
	})
	if err != nil {
		t.Fatalf("AddService: неожиданная ошибка: %v", err)
	}

	updated, err := s.UpdateService("holding", svc.ID, model.BrandServicePatch{
		Description: strPtr("Доставка по стране"),
	})
	if err != nil {
		t.Fatalf("UpdateService: неожиданная ошибка: %v", err)
	}
	if updated.Name != "Логистика" || updated.Description != "Доставка по стране" {
		t.Errorf("патч услуги применён некорректно: %+v", updated)
	}

	if _, err := s.UpdateService("holding", 99, model.BrandServicePatch{Name: strPtr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидалась ErrNotFound, получено %v", err)
	}

	if err := s.DeleteService("holding", svc.ID); err != nil {
		t.Fatalf("DeleteService: неожиданная ошибка: %v", err)
	}
	content, err := s.Get("holding")
	if err != nil {
		t.Fatalf("Get: неожиданная ошибка: %v", err)
	}
	if len(content.Services) != 0 {
		t.Errorf("после удаления услуг быть не должно: %+v", content.Services)
	}
}

// TestCompany_AwardLifecycle — награды scope.
func TestCompany_AwardLifecycle(t *testing.T) {
	s := NewCompanyService(newTestStore(t), testLogger())

	year := 2024
	award, err := s.AddAward("holding", model.AwardPatch{
		Title: strPtr("Работодатель года"),
		Year:  &year,
	})
	if err != nil {
		t.Fatalf("AddAward: неожиданная ошибка: %v", err)
	}
	if award.Year != 2024 {
		t.Errorf("год награды: ожидалось 2024, получено %d", award.Year)
	}

	newYear := 2025
	updated, err := s.UpdateAward("holding", award.ID, model.AwardPatch{Year: &newYear})
	if err != nil {
		t.Fatalf("UpdateAward: неожиданная ошибка: %v", err)
	}
	if updated.Title != "Работодатель года" || updated.Year != 2025 {
		t.Errorf("патч награды применён некорректно: %+v", updated)
	}

	if err := s.DeleteAward("holding", award.ID); err != nil {
		t.Fatalf("DeleteAward: неожиданная ошибка: %v", err)
	}
	content, err := s.Get("holding")
	if err != nil {
		t.Fatalf("Get: неожиданная ошибка: %v", err)
	}
	if len(content.Awards) != 0 {
		t.Errorf("после удаления наград быть не должно: %+v", content.Awards)
	}
}

// TestCompany_ScopesIsolated — записи разных scope не пересекаются.
func TestCompany_ScopesIsolated(t *testing.T) {
	s := NewCompanyService(newTestStore(t), testLogger())

	if _, err := s.AddBrand("holding", model.BrandPatch{Name: strPtr("Общий")}); err != nil {
		t.Fatalf("AddBrand: неожиданная ошибка: %v", err)
	}
	if _, err := s.AddBrand("brand-a", model.BrandPatch{Name: strPtr("Локальный")}); err != nil {
		t.Fatalf("AddBrand: неожиданная ошибка: %v", err)
	}

	holding, err := s.Get("holding")
	if err != nil {
		t.Fatalf("Get holding: неожиданная ошибка: %v", err)
	}
	if len(holding.Brands) != 1 || holding.Brands[0].Name != "Общий" {
		t.Errorf("суббренды holding: %+v", holding.Brands)
	}

	brandA, err := s.Get("brand-a")
	if err != nil {
		t.Fatalf("Get brand-a: неожиданная ошибка: %v", err)
	}
	if len(brandA.Brands) != 1 || brandA.Brands[0].Name != "Локальный" {
		t.Errorf("суббренды brand-a: %+v", brandA.Brands)
	}
}
