// Точка входа контент-бэкенда корпоративного сайта.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/arturkryukov/corpsite/content-backend/internal/api/handlers"
	"github.com/arturkryukov/corpsite/content-backend/internal/config"
	"github.com/arturkryukov/corpsite/content-backend/internal/server"
	"github.com/arturkryukov/corpsite/content-backend/internal/service"
	"github.com/arturkryukov/corpsite/content-backend/internal/storage/docstore"
)

func main() {
	// Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	// Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("Контент-бэкенд запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("data_dir", cfg.DataDir),
		slog.String("uploads_dir", cfg.UploadsDir),
	)

	// --- Инициализация компонентов ---

	// 1. Хранилище JSON-коллекций
	store, err := docstore.New(cfg.DataDir, logger)
	if err != nil {
		logger.Error("Ошибка инициализации хранилища", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Директории загрузок создаются заранее: health-проверки и сверка
	// ожидают их существования
	for _, dir := range cfg.UploadDirs() {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			logger.Error("Ошибка создания директории загрузок",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// 2. Сервисы коллекций
	jobsSvc := service.NewJobsService(store, logger)
	applicationsSvc := service.NewApplicationsService(store, logger)
	usersSvc := service.NewUsersService(store, logger)
	newsSvc := service.NewNewsService(store, logger)
	socialSvc := service.NewSocialService(store, logger)
	cultureSvc := service.NewCultureService(store, logger)
	companySvc := service.NewCompanyService(store, logger)

	// 3. Приём и обработка вложений
	uploadSvc := service.NewUploadService(cfg.MaxUploadSize, logger)
	normalizer := service.NewImageNormalizer(logger)

	// 4. Обслуживание хранилища
	reconciler := service.NewReconciler(store, cfg.UploadDirs(), logger)
	gcSvc := service.NewGCService(store, cfg.UploadDirs(), logger)

	// 5. Handlers
	h := server.Handlers{
		Jobs: handlers.NewJobsHandler(jobsSvc, logger),
		Applications: handlers.NewApplicationsHandler(
			applicationsSvc, uploadSvc, cfg.UploadDir(config.UploadsCategoryGeneral), logger),
		Users: handlers.NewUsersHandler(usersSvc, logger),
		News: handlers.NewNewsHandler(
			newsSvc, uploadSvc, cfg.UploadDir(config.UploadsCategoryNews), logger),
		Social: handlers.NewSocialHandler(
			socialSvc, uploadSvc, cfg.UploadDir(config.UploadsCategorySocial), logger),
		Culture: handlers.NewCultureHandler(cultureSvc, logger),
		Company: handlers.NewCompanyHandler(
			companySvc, uploadSvc, normalizer,
			cfg.UploadDir(config.UploadsCategoryBrands),
			cfg.LogoWidth, cfg.LogoHeight, logger),
		Uploads:     handlers.NewUploadsHandler(uploadSvc, cfg, logger),
		Maintenance: handlers.NewMaintenanceHandler(reconciler, gcSvc),
		System:      handlers.NewSystemHandler(cfg, logger),
		Health:      handlers.NewHealthHandler(cfg.DataDir, cfg.UploadsDir),
	}

	// 6. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, h)

	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Контент-бэкенд остановлен")
}
