package service

import (
	"log/slog"
	"testing"

	"github.com/arturkryukov/corpsite/content-backend/internal/storage/docstore"
)

// testLogger возвращает логгер, не пишущий никуда.
func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newTestStore создаёт хранилище во временной директории теста.
func newTestStore(t *testing.T) *docstore.Store {
	t.Helper()
	store, err := docstore.New(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("не удалось создать хранилище: %v", err)
	}
	return store
}

// strPtr упрощает заполнение patch-структур в тестах.
func strPtr(s string) *string {
	return &s
}

// boolPtr упрощает заполнение patch-структур в тестах.
func boolPtr(b bool) *bool {
	return &b
}

// int64Ptr упрощает заполнение patch-структур в тестах.
func int64Ptr(v int64) *int64 {
	return &v
}
