package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setEnvVars устанавливает переменные окружения для теста и возвращает
// функцию очистки. Всегда вызывать defer cleanup().
func setEnvVars(t *testing.T, vars map[string]string) func() {
	t.Helper()

	// Сохраняем оригинальные значения
	originals := make(map[string]string)
	origSet := make(map[string]bool)
	for k := range vars {
		if v, ok := os.LookupEnv(k); ok {
			originals[k] = v
			origSet[k] = true
		}
	}

	// Устанавливаем новые
	for k, v := range vars {
		os.Setenv(k, v)
	}

	return func() {
		for k := range vars {
			if origSet[k] {
				os.Setenv(k, originals[k])
			} else {
				os.Unsetenv(k)
			}
		}
	}
}

// clearAllCMSEnvVars очищает все переменные окружения CMS_* для чистого теста.
func clearAllCMSEnvVars(t *testing.T) func() {
	t.Helper()
	keys := []string{
		"CMS_PORT", "CMS_DATA_DIR", "CMS_UPLOADS_DIR",
		"CMS_MAX_UPLOAD_SIZE", "CMS_LOGO_WIDTH", "CMS_LOGO_HEIGHT",
		"CMS_AUTH_SECRET", "CMS_LOG_LEVEL", "CMS_LOG_FORMAT",
		"CMS_TLS_CERT", "CMS_TLS_KEY", "CMS_SHUTDOWN_TIMEOUT",
	}
	originals := make(map[string]string)
	origSet := make(map[string]bool)
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			originals[k] = v
			origSet[k] = true
		}
		os.Unsetenv(k)
	}
	return func() {
		for _, k := range keys {
			if origSet[k] {
				os.Setenv(k, originals[k])
			} else {
				os.Unsetenv(k)
			}
		}
	}
}

// requiredEnvVars возвращает минимальный набор обязательных переменных.
func requiredEnvVars() map[string]string {
	return map[string]string{
		"CMS_DATA_DIR":    "/tmp/data",
		"CMS_UPLOADS_DIR": "/tmp/uploads",
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	cleanup := clearAllCMSEnvVars(t)
	defer cleanup()

	cleanupVars := setEnvVars(t, requiredEnvVars())
	defer cleanupVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	// Проверяем значения по умолчанию
	if cfg.Port != 8080 {
		t.Errorf("Port: ожидалось 8080, получено %d", cfg.Port)
	}
	if cfg.DataDir != "/tmp/data" {
		t.Errorf("DataDir: ожидалось '/tmp/data', получено %q", cfg.DataDir)
	}
	if cfg.UploadsDir != "/tmp/uploads" {
		t.Errorf("UploadsDir: ожидалось '/tmp/uploads', получено %q", cfg.UploadsDir)
	}
	if cfg.MaxUploadSize != 5*1024*1024 {
		t.Errorf("MaxUploadSize: ожидалось %d, получено %d", 5*1024*1024, cfg.MaxUploadSize)
	}
	if cfg.LogoWidth != 400 {
		t.Errorf("LogoWidth: ожидалось 400, получено %d", cfg.LogoWidth)
	}
	if cfg.LogoHeight != 200 {
		t.Errorf("LogoHeight: ожидалось 200, получено %d", cfg.LogoHeight)
	}
	if cfg.AuthSecret != "" {
		t.Errorf("AuthSecret: ожидалось пустую строку, получено %q", cfg.AuthSecret)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel: ожидалось INFO, получено %v", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: ожидалось 'json', получено %q", cfg.LogFormat)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout: ожидалось 5s, получено %v", cfg.ShutdownTimeout)
	}
}

func TestLoad_AllCustomValues(t *testing.T) {
	cleanup := clearAllCMSEnvVars(t)
	defer cleanup()

	vars := requiredEnvVars()
	vars["CMS_PORT"] = "9090"
	vars["CMS_MAX_UPLOAD_SIZE"] = "1048576"
	vars["CMS_LOGO_WIDTH"] = "800"
	vars["CMS_LOGO_HEIGHT"] = "400"
	vars["CMS_AUTH_SECRET"] = "s3cr3t"
	vars["CMS_LOG_LEVEL"] = "debug"
	vars["CMS_LOG_FORMAT"] = "text"
	vars["CMS_TLS_CERT"] = "/tmp/tls.crt"
	vars["CMS_TLS_KEY"] = "/tmp/tls.key"
	vars["CMS_SHUTDOWN_TIMEOUT"] = "30s"

	cleanupVars := setEnvVars(t, vars)
	defer cleanupVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port: ожидалось 9090, получено %d", cfg.Port)
	}
	if cfg.MaxUploadSize != 1048576 {
		t.Errorf("MaxUploadSize: ожидалось 1048576, получено %d", cfg.MaxUploadSize)
	}
	if cfg.LogoWidth != 800 {
		t.Errorf("LogoWidth: ожидалось 800, получено %d", cfg.LogoWidth)
	}
	if cfg.LogoHeight != 400 {
		t.Errorf("LogoHeight: ожидалось 400, получено %d", cfg.LogoHeight)
	}
	if cfg.AuthSecret != "s3cr3t" {
		t.Errorf("AuthSecret: ожидалось 's3cr3t', получено %q", cfg.AuthSecret)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel: ожидалось DEBUG, получено %v", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat: ожидалось 'text', получено %q", cfg.LogFormat)
	}
	if cfg.TLSCert != "/tmp/tls.crt" {
		t.Errorf("TLSCert: ожидалось '/tmp/tls.crt', получено %q", cfg.TLSCert)
	}
	if cfg.TLSKey != "/tmp/tls.key" {
		t.Errorf("TLSKey: ожидалось '/tmp/tls.key', получено %q", cfg.TLSKey)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout: ожидалось 30s, получено %v", cfg.ShutdownTimeout)
	}
}

func TestLoad_MissingRequiredVars(t *testing.T) {
	requiredKeys := []string{"CMS_DATA_DIR", "CMS_UPLOADS_DIR"}

	for _, missing := range requiredKeys {
		t.Run(missing, func(t *testing.T) {
			cleanup := clearAllCMSEnvVars(t)
			defer cleanup()

			vars := requiredEnvVars()
			delete(vars, missing)
			cleanupVars := setEnvVars(t, vars)
			defer cleanupVars()

			_, err := Load()
			if err == nil {
				t.Errorf("ожидалась ошибка при отсутствии %s", missing)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"порт не число", "CMS_PORT", "abc"},
		{"порт вне диапазона", "CMS_PORT", "70000"},
		{"нулевой лимит загрузки", "CMS_MAX_UPLOAD_SIZE", "0"},
		{"отрицательная ширина логотипа", "CMS_LOGO_WIDTH", "-1"},
		{"неизвестный уровень логов", "CMS_LOG_LEVEL", "verbose"},
		{"неизвестный формат логов", "CMS_LOG_FORMAT", "xml"},
		{"некорректный таймаут", "CMS_SHUTDOWN_TIMEOUT", "пять секунд"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := clearAllCMSEnvVars(t)
			defer cleanup()

			vars := requiredEnvVars()
			vars[tt.key] = tt.value
			cleanupVars := setEnvVars(t, vars)
			defer cleanupVars()

			_, err := Load()
			if err == nil {
				t.Errorf("ожидалась ошибка для %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_TLSOnlyCert(t *testing.T) {
	cleanup := clearAllCMSEnvVars(t)
	defer cleanup()

	vars := requiredEnvVars()
	vars["CMS_TLS_CERT"] = "/tmp/tls.crt"
	cleanupVars := setEnvVars(t, vars)
	defer cleanupVars()

	_, err := Load()
	if err == nil {
		t.Error("ожидалась ошибка: сертификат без ключа")
	}
}

func TestUploadDirs(t *testing.T) {
	cfg := &Config{UploadsDir: "/srv/uploads"}

	if got := cfg.UploadDir(UploadsCategoryGeneral); got != "/srv/uploads" {
		t.Errorf("UploadDir(general): ожидалось '/srv/uploads', получено %q", got)
	}
	if got := cfg.UploadDir(UploadsCategoryBrands); got != filepath.Join("/srv/uploads", "brands") {
		t.Errorf("UploadDir(brands): получено %q", got)
	}

	dirs := cfg.UploadDirs()
	if len(dirs) != 4 {
		t.Fatalf("UploadDirs: ожидалось 4 директории, получено %d", len(dirs))
	}
	if dirs[0] != "/srv/uploads" {
		t.Errorf("UploadDirs[0]: ожидалось корень загрузок, получено %q", dirs[0])
	}
}
