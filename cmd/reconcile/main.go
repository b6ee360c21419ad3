// Офлайновый инструмент обслуживания хранилища вложений:
// сверка имён файлов со ссылками коллекций и, по желанию,
// сборка осиротевших файлов.
//
// Запуск поверх тех же директорий, что и у сервера:
//
//	reconcile -data-dir /srv/cms/data -uploads-dir /srv/cms/uploads
//	reconcile -data-dir ... -uploads-dir ... -gc -apply
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/arturkryukov/corpsite/content-backend/internal/config"
	"github.com/arturkryukov/corpsite/content-backend/internal/service"
	"github.com/arturkryukov/corpsite/content-backend/internal/storage/docstore"
)

func main() {
	dataDir := flag.String("data-dir", "", "директория файлов коллекций (обязательно)")
	uploadsDir := flag.String("uploads-dir", "", "корневая директория загрузок (обязательно)")
	runGC := flag.Bool("gc", false, "после сверки собрать осиротевшие файлы")
	apply := flag.Bool("apply", false, "фактически удалять осиротевшие файлы (иначе dry-run)")
	logLevel := flag.String("log-level", "info", "уровень логирования (debug, info, warn, error)")
	flag.Parse()

	if *dataDir == "" || *uploadsDir == "" {
		fmt.Fprintln(os.Stderr, "флаги -data-dir и -uploads-dir обязательны")
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "некорректный -log-level %q\n", *logLevel)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Инструмент работает с той же раскладкой категорий, что и сервер
	cfg := &config.Config{DataDir: *dataDir, UploadsDir: *uploadsDir}

	store, err := docstore.New(cfg.DataDir, logger)
	if err != nil {
		logger.Error("Ошибка инициализации хранилища", slog.String("error", err.Error()))
		os.Exit(1)
	}

	reconciler := service.NewReconciler(store, cfg.UploadDirs(), logger)
	report, inProgress := reconciler.Run()
	if inProgress {
		logger.Error("Сверка уже выполняется")
		os.Exit(1)
	}
	printReport("reconcile", report)

	if !*runGC {
		return
	}

	gc := service.NewGCService(store, cfg.UploadDirs(), logger)
	gcReport, inProgress := gc.Run(*apply)
	if inProgress {
		logger.Error("Сборка осиротевших файлов уже выполняется")
		os.Exit(1)
	}
	printReport("gc", gcReport)
}

// printReport печатает отчёт операции в stdout как JSON.
func printReport(name string, report any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	fmt.Printf("--- %s ---\n", name)
	_ = enc.Encode(report)
}
