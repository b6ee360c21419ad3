// maintenance.go — обработчики endpoints обслуживания хранилища:
// сверка вложений и сборка осиротевших файлов.
package handlers

import (
	"net/http"

	apierrors "github.com/arturkryukov/corpsite/content-backend/internal/api/errors"
	"github.com/arturkryukov/corpsite/content-backend/internal/service"
)

// ReconcileRunner — интерфейс для запуска сверки.
// Позволяет тестировать handler без полного Reconciler.
type ReconcileRunner interface {
	// Run выполняет один цикл сверки.
	// Возвращает отчёт и флаг "уже выполняется".
	Run() (*service.Report, bool)
	// IsInProgress возвращает true, если сверка выполняется.
	IsInProgress() bool
}

// GCRunner — интерфейс для запуска сборки осиротевших файлов.
type GCRunner interface {
	Run(apply bool) (*service.GCReport, bool)
}

// MaintenanceHandler — обработчик endpoints обслуживания.
type MaintenanceHandler struct {
	reconciler ReconcileRunner
	gc         GCRunner
}

// NewMaintenanceHandler создаёт обработчик maintenance endpoints.
func NewMaintenanceHandler(reconciler ReconcileRunner, gc GCRunner) *MaintenanceHandler {
	return &MaintenanceHandler{
		reconciler: reconciler,
		gc:         gc,
	}
}

// Reconcile обрабатывает POST /api/v1/maintenance/reconcile.
// Запускает синхронный цикл сверки и возвращает отчёт.
// Если сверка уже выполняется — 409 RECONCILE_IN_PROGRESS.
func (h *MaintenanceHandler) Reconcile(w http.ResponseWriter, _ *http.Request) {
	report, inProgress := h.reconciler.Run()
	if inProgress {
		apierrors.ReconcileInProgress(w, "Сверка уже выполняется")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GC обрабатывает POST /api/v1/maintenance/gc.
// По умолчанию dry-run: отчёт перечисляет осиротевшие файлы, ничего
// не удаляя. Параметр apply=true включает фактическое удаление.
func (h *MaintenanceHandler) GC(w http.ResponseWriter, r *http.Request) {
	apply := r.URL.Query().Get("apply") == "true"

	report, inProgress := h.gc.Run(apply)
	if inProgress {
		apierrors.ReconcileInProgress(w, "Обслуживание хранилища уже выполняется")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
