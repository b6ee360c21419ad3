// metrics.go — Prometheus HTTP метрики контент-бэкенда.
// Регистрирует метрики: cms_http_requests_total, cms_http_request_duration_seconds.
// Бизнес-метрики (cms_uploads_total, cms_reconcile_* и др.) регистрируются
// в соответствующих пакетах и обновляются из сервисного слоя.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_http_requests_total",
			Help: "Общее количество HTTP-запросов к контент-бэкенду",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cms_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к контент-бэкенду в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Бизнес-метрики загрузок (экспортируются для обновления из сервисного слоя)
var (
	// UploadsTotal — количество принятых загрузок по результату.
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_uploads_total",
			Help: "Количество обработанных загрузок файлов",
		},
		[]string{"result"},
	)

	// UploadBytesTotal — суммарный объём принятых загрузок.
	UploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cms_upload_bytes_total",
			Help: "Суммарный объём принятых загрузок в байтах",
		},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик
			// (заменяем изменяемые сегменты на плейсхолдеры,
			// чтобы не раздувать кардинальность)
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath заменяет изменяемые сегменты пути на плейсхолдеры.
// /api/v1/jobs/1700000000123          → /api/v1/jobs/{id}
// /api/v1/uploads/brands/1700...-logo → /api/v1/uploads/brands/{name}
// /api/v1/company/mycorp              → /api/v1/company/{scope}
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/api/v1/uploads/") && strings.Count(path, "/") == 5 {
		// Категория остаётся, имя файла схлопывается
		rest := path[len("/api/v1/uploads/"):]
		category, _, ok := strings.Cut(rest, "/")
		if ok {
			return "/api/v1/uploads/" + category + "/{name}"
		}
	}
	if rest, ok := strings.CutPrefix(path, "/api/v1/company/"); ok && rest != "" {
		segments := strings.Split(rest, "/")
		segments[0] = "{scope}"
		// /company/{scope}/brands/{id} и аналогичные вложенные ресурсы
		if len(segments) == 3 && isNumericSegment(segments[2]) {
			segments[2] = "{id}"
		}
		return "/api/v1/company/" + strings.Join(segments, "/")
	}

	// Числовые идентификаторы записей коллекций
	segments := strings.Split(path, "/")
	changed := false
	for i, seg := range segments {
		if isNumericSegment(seg) {
			segments[i] = "{id}"
			changed = true
		}
	}
	if changed {
		return strings.Join(segments, "/")
	}
	return path
}

// isNumericSegment проверяет, состоит ли сегмент пути только из цифр.
func isNumericSegment(seg string) bool {
	if seg == "" {
		return false
	}
	for _, c := range seg {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
