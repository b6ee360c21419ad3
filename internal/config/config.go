// Пакет config — загрузка и валидация конфигурации контент-бэкенда
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Поддиректории загрузок по категориям вложений.
const (
	// UploadsCategoryGeneral — общие загрузки (резюме, hero-изображения)
	UploadsCategoryGeneral = "general"
	// UploadsCategoryBrands — логотипы суббрендов
	UploadsCategoryBrands = "brands"
	// UploadsCategoryNews — иллюстрации новостей
	UploadsCategoryNews = "news"
	// UploadsCategorySocial — изображения социальных публикаций
	UploadsCategorySocial = "social"
)

// Config содержит все параметры конфигурации контент-бэкенда.
type Config struct {
	// Порт HTTP-сервера
	Port int
	// Путь к директории файлов коллекций (jobs.json и т.д.)
	DataDir string
	// Корневая директория загрузок
	UploadsDir string
	// Максимальный размер загружаемого файла в байтах
	MaxUploadSize int64
	// Целевой размер логотипа суббренда (contain, прозрачный фон)
	LogoWidth  int
	LogoHeight int
	// Секрет HS256 для bearer-токенов админ-API; пустой — без аутентификации
	AuthSecret string
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Путь к TLS сертификату и ключу (опционально, вместе)
	TLSCert string
	TLSKey  string
	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}

	// CMS_PORT — порт HTTP-сервера (по умолчанию 8080)
	port, err := getEnvInt("CMS_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("CMS_PORT: %w", err)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("CMS_PORT: значение %d вне допустимого диапазона 1-65535", port)
	}
	cfg.Port = port

	// CMS_DATA_DIR — обязательный
	cfg.DataDir, err = getEnvRequired("CMS_DATA_DIR")
	if err != nil {
		return nil, err
	}

	// CMS_UPLOADS_DIR — обязательный
	cfg.UploadsDir, err = getEnvRequired("CMS_UPLOADS_DIR")
	if err != nil {
		return nil, err
	}

	// CMS_MAX_UPLOAD_SIZE — лимит размера файла (по умолчанию 5 МиБ)
	maxUploadSize, err := getEnvInt64("CMS_MAX_UPLOAD_SIZE", 5*1024*1024)
	if err != nil {
		return nil, fmt.Errorf("CMS_MAX_UPLOAD_SIZE: %w", err)
	}
	if maxUploadSize <= 0 {
		return nil, fmt.Errorf("CMS_MAX_UPLOAD_SIZE: значение должно быть положительным")
	}
	cfg.MaxUploadSize = maxUploadSize

	// CMS_LOGO_WIDTH / CMS_LOGO_HEIGHT — целевой бокс логотипа (400×200)
	cfg.LogoWidth, err = getEnvInt("CMS_LOGO_WIDTH", 400)
	if err != nil {
		return nil, fmt.Errorf("CMS_LOGO_WIDTH: %w", err)
	}
	cfg.LogoHeight, err = getEnvInt("CMS_LOGO_HEIGHT", 200)
	if err != nil {
		return nil, fmt.Errorf("CMS_LOGO_HEIGHT: %w", err)
	}
	if cfg.LogoWidth <= 0 || cfg.LogoHeight <= 0 {
		return nil, fmt.Errorf("CMS_LOGO_WIDTH/CMS_LOGO_HEIGHT: значения должны быть положительными")
	}

	// CMS_AUTH_SECRET — опциональный; пустой отключает аутентификацию
	cfg.AuthSecret = getEnvDefault("CMS_AUTH_SECRET", "")

	// CMS_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("CMS_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("CMS_LOG_LEVEL: %w", err)
	}

	// CMS_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("CMS_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("CMS_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// CMS_TLS_CERT / CMS_TLS_KEY — опционально, но только вместе
	cfg.TLSCert = getEnvDefault("CMS_TLS_CERT", "")
	cfg.TLSKey = getEnvDefault("CMS_TLS_KEY", "")
	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return nil, fmt.Errorf("CMS_TLS_CERT и CMS_TLS_KEY задаются только вместе")
	}

	// CMS_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("CMS_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CMS_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// UploadDir возвращает директорию для категории вложений.
// Общая категория живёт в корне загрузок, остальные — в поддиректориях.
func (c *Config) UploadDir(category string) string {
	if category == UploadsCategoryGeneral {
		return c.UploadsDir
	}
	return filepath.Join(c.UploadsDir, category)
}

// UploadDirs возвращает все директории загрузок (для сверки и GC).
func (c *Config) UploadDirs() []string {
	return []string{
		c.UploadDir(UploadsCategoryGeneral),
		c.UploadDir(UploadsCategoryBrands),
		c.UploadDir(UploadsCategoryNews),
		c.UploadDir(UploadsCategorySocial),
	}
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvInt64 возвращает int64 значение переменной окружения или значение по умолчанию.
func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
