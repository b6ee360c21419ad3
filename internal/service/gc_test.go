package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arturkryukov/corpsite/content-backend/internal/domain/model"
)

// TestGC_DryRunListsOrphans — dry-run перечисляет сирот, но не удаляет.
func TestGC_DryRunListsOrphans(t *testing.T) {
	store := newTestStore(t)
	uploadsDir := t.TempDir()
	apps := NewApplicationsService(store, testLogger())

	writeUpload(t, uploadsDir, "1700000000000-42-Resume.pdf", "referenced")
	writeUpload(t, uploadsDir, "1700000000001-7-orphan.png", "orphan bytes")
	createApplication(t, apps, "1700000000000-42-Resume.pdf")

	gc := NewGCService(store, []string{uploadsDir}, testLogger())
	report, inProcess := gc.Run(false)
	if inProcess {
		t.Fatal("GC не должен считаться уже запущенным")
	}

	if report.Applied {
		t.Error("dry-run не должен помечаться как applied")
	}
	if report.FilesScanned != 2 {
		t.Errorf("FilesScanned: ожидалось 2, получено %d", report.FilesScanned)
	}
	orphanPath := filepath.Join(uploadsDir, "1700000000001-7-orphan.png")
	if len(report.Orphans) != 1 || report.Orphans[0] != orphanPath {
		t.Errorf("Orphans: ожидалось [%s], получено %v", orphanPath, report.Orphans)
	}
	if report.Deleted != 0 || report.FreedBytes != 0 {
		t.Errorf("dry-run не должен удалять: deleted=%d freed=%d",
			report.Deleted, report.FreedBytes)
	}

	// Оба файла на месте
	for _, name := range []string{"1700000000000-42-Resume.pdf", "1700000000001-7-orphan.png"} {
		if _, err := os.Stat(filepath.Join(uploadsDir, name)); err != nil {
			t.Errorf("файл %s должен остаться после dry-run: %v", name, err)
		}
	}
}

// TestGC_ApplyDeletesOrphans — apply удаляет сирот и считает байты,
// файлы со ссылками не трогаются.
func TestGC_ApplyDeletesOrphans(t *testing.T) {
	store := newTestStore(t)
	uploadsDir := t.TempDir()
	apps := NewApplicationsService(store, testLogger())

	writeUpload(t, uploadsDir, "1700000000000-42-Resume.pdf", "referenced")
	writeUpload(t, uploadsDir, "1700000000001-7-orphan.png", "orphan bytes")
	createApplication(t, apps, "1700000000000-42-Resume.pdf")

	gc := NewGCService(store, []string{uploadsDir}, testLogger())
	report, _ := gc.Run(true)

	if !report.Applied {
		t.Error("запуск с apply должен помечаться как applied")
	}
	if report.Deleted != 1 {
		t.Errorf("Deleted: ожидалось 1, получено %d", report.Deleted)
	}
	if expected := int64(len("orphan bytes")); report.FreedBytes != expected {
		t.Errorf("FreedBytes: ожидалось %d, получено %d", expected, report.FreedBytes)
	}

	if _, err := os.Stat(filepath.Join(uploadsDir, "1700000000001-7-orphan.png")); !os.IsNotExist(err) {
		t.Error("осиротевший файл должен быть удалён")
	}
	if _, err := os.Stat(filepath.Join(uploadsDir, "1700000000000-42-Resume.pdf")); err != nil {
		t.Errorf("файл со ссылкой должен остаться: %v", err)
	}
}

// TestGC_PrefixMatch — файл с устаревшим суффиксом, на который есть
// устаревшая ссылка, сиротой не считается: его чинит сверка.
func TestGC_PrefixMatch(t *testing.T) {
	store := newTestStore(t)
	uploadsDir := t.TempDir()
	apps := NewApplicationsService(store, testLogger())

	writeUpload(t, uploadsDir, "1700000000000-42-Resume__v2_.pdf", "cv bytes")
	createApplication(t, apps, "1700000000000-42-Resume.pdf")

	gc := NewGCService(store, []string{uploadsDir}, testLogger())
	report, _ := gc.Run(true)

	if len(report.Orphans) != 0 {
		t.Errorf("файл с совпадающим префиксом не сирота, получено %v", report.Orphans)
	}
	if _, err := os.Stat(filepath.Join(uploadsDir, "1700000000000-42-Resume__v2_.pdf")); err != nil {
		t.Errorf("файл должен остаться: %v", err)
	}
}

// TestGC_IgnoresForeignNames — не управляемые, temp и скрытые файлы
// никогда не удаляются.
func TestGC_IgnoresForeignNames(t *testing.T) {
	store := newTestStore(t)
	uploadsDir := t.TempDir()

	writeUpload(t, uploadsDir, "readme.txt", "не управляемый файл")
	writeUpload(t, uploadsDir, "upload.partial.tmp", "temp")
	writeUpload(t, uploadsDir, ".health_check", "")

	gc := NewGCService(store, []string{uploadsDir}, testLogger())
	report, _ := gc.Run(true)

	if report.FilesScanned != 0 || len(report.Orphans) != 0 || report.Deleted != 0 {
		t.Errorf("чужие файлы не участвуют в GC, получено %+v", report)
	}
	for _, name := range []string{"readme.txt", "upload.partial.tmp", ".health_check"} {
		if _, err := os.Stat(filepath.Join(uploadsDir, name)); err != nil {
			t.Errorf("файл %s должен остаться нетронутым: %v", name, err)
		}
	}
}

// TestGC_HeroAndLogoReferences — ссылки из company_content
// (hero и логотипы брендов) защищают файлы от удаления.
func TestGC_HeroAndLogoReferences(t *testing.T) {
	store := newTestStore(t)
	uploadsDir := t.TempDir()
	company := NewCompanyService(store, testLogger())

	writeUpload(t, uploadsDir, "1700000000010-1-hero.png", "hero")
	writeUpload(t, uploadsDir, "1700000000011-2-logo.png", "logo")

	if _, err := company.Update("holding", model.CompanyPatch{
		HeroImagePath: strPtr("1700000000010-1-hero.png"),
	}); err != nil {
		t.Fatalf("Update scope: неожиданная ошибка: %v", err)
	}
	if _, err := company.AddBrand("holding", model.BrandPatch{
		Name:     strPtr("Бренд"),
		LogoPath: strPtr("1700000000011-2-logo.png"),
	}); err != nil {
		t.Fatalf("AddBrand: неожиданная ошибка: %v", err)
	}

	gc := NewGCService(store, []string{uploadsDir}, testLogger())
	report, _ := gc.Run(true)

	if len(report.Orphans) != 0 || report.Deleted != 0 {
		t.Errorf("файлы со ссылками из company_content не сироты, получено %+v", report)
	}
}
