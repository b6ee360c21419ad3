package service

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arturkryukov/corpsite/content-backend/internal/storage/filename"
)

func receive(t *testing.T, svc *UploadService, dir, originalName string, data []byte) (string, error) {
	t.Helper()
	return svc.Receive(UploadParams{
		Reader:       bytes.NewReader(data),
		OriginalName: originalName,
		Size:         int64(len(data)),
		Dir:          dir,
	})
}

// TestUpload_Receive — файл записывается под управляемым именем,
// содержимое совпадает с присланным.
func TestUpload_Receive(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(1024, testLogger())

	data := []byte("содержимое резюме")
	storedName, err := receive(t, svc, dir, "Resume (v2).pdf", data)
	if err != nil {
		t.Fatalf("Receive: неожиданная ошибка: %v", err)
	}

	if !filename.IsManaged(storedName) {
		t.Errorf("хранимое имя %q не соответствует управляемой форме", storedName)
	}
	if !strings.HasSuffix(storedName, "-Resume__v2_.pdf") {
		t.Errorf("хранимое имя %q: ожидался санитизированный суффикс -Resume__v2_.pdf", storedName)
	}

	got, err := os.ReadFile(filepath.Join(dir, storedName))
	if err != nil {
		t.Fatalf("файл не записан: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("содержимое файла отличается от присланного")
	}
}

// TestUpload_SizeBoundary — ровно лимит проходит, лимит+1 отклоняется.
func TestUpload_SizeBoundary(t *testing.T) {
	const limit = 64
	dir := t.TempDir()
	svc := NewUploadService(limit, testLogger())

	if _, err := receive(t, svc, dir, "exact.bin", make([]byte, limit)); err != nil {
		t.Errorf("размер ровно в лимит должен проходить, получено: %v", err)
	}

	_, err := receive(t, svc, dir, "over.bin", make([]byte, limit+1))
	var tooLarge *PayloadTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("лимит+1: ожидалась PayloadTooLargeError, получено %v", err)
	}
	if tooLarge.Limit != limit {
		t.Errorf("PayloadTooLargeError.Limit: ожидалось %d, получено %d", limit, tooLarge.Limit)
	}
}

// TestUpload_UnderstatedSize — payload, фактический размер которого
// превышает заявленный, всё равно отклоняется при записи.
func TestUpload_UnderstatedSize(t *testing.T) {
	const limit = 64
	dir := t.TempDir()
	svc := NewUploadService(limit, testLogger())

	_, err := svc.Receive(UploadParams{
		Reader:       bytes.NewReader(make([]byte, limit+10)),
		OriginalName: "liar.bin",
		Size:         limit, // заявлено меньше фактического
		Dir:          dir,
	})
	var tooLarge *PayloadTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("ожидалась PayloadTooLargeError, получено %v", err)
	}

	// Временный файл не должен остаться
	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatalf("ошибка чтения директории: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("директория должна быть пустой после отклонённой загрузки, найдено %d файлов", len(entries))
	}
}

// TestUpload_MissingPayload — отсутствие payload отклоняется.
func TestUpload_MissingPayload(t *testing.T) {
	svc := NewUploadService(1024, testLogger())

	_, err := svc.Receive(UploadParams{
		Reader:       nil,
		OriginalName: "ghost.pdf",
		Dir:          t.TempDir(),
	})
	if !errors.Is(err, ErrMissingFile) {
		t.Errorf("ожидалась ErrMissingFile, получено %v", err)
	}
}

// TestUpload_CreatesDir — целевая директория создаётся рекурсивно.
func TestUpload_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads", "brands")
	svc := NewUploadService(1024, testLogger())

	storedName, err := receive(t, svc, dir, "logo.png", []byte("png"))
	if err != nil {
		t.Fatalf("Receive: неожиданная ошибка: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, storedName)); err != nil {
		t.Errorf("файл не найден в созданной директории: %v", err)
	}
}

// TestUpload_DistinctNames — две загрузки одного имени получают
// разные хранимые имена.
func TestUpload_DistinctNames(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(1024, testLogger())

	first, err := receive(t, svc, dir, "cv.pdf", []byte("a"))
	if err != nil {
		t.Fatalf("Receive: неожиданная ошибка: %v", err)
	}
	second, err := receive(t, svc, dir, "cv.pdf", []byte("b"))
	if err != nil {
		t.Fatalf("Receive: неожиданная ошибка: %v", err)
	}
	if first == second {
		t.Errorf("две загрузки получили одно хранимое имя %q", first)
	}
}

// TestUpload_NoTempLeftover — после успешной загрузки temp файлов нет.
func TestUpload_NoTempLeftover(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(1024, testLogger())

	if _, err := receive(t, svc, dir, "doc.pdf", []byte("data")); err != nil {
		t.Fatalf("Receive: неожиданная ошибка: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ошибка чтения директории: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("остался временный файл %s", entry.Name())
		}
	}
}
