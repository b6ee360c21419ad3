// Пакет docstore — файловое хранилище JSON-коллекций.
//
// Каждая коллекция — один JSON-файл {dataDir}/{collection}.json.
// Чтение отсутствующего файла возвращает пустое значение (пустой
// список или пустую мапу), запись заменяет файл целиком и выполняется
// атомарно: temp → fsync → rename. Формат — отступы в два пробела,
// пригодный для чтения человеком и diff-а.
//
// Хранилище выдаёт per-collection мьютекс (Locker): сервисы обязаны
// держать его на протяжении всего цикла read-modify-write, что
// сериализует конкурентные записи в одну коллекцию.
package docstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Store — доступ к JSON-коллекциям в директории данных.
type Store struct {
	// dataDir — директория файлов коллекций (CMS_DATA_DIR)
	dataDir string
	logger  *slog.Logger

	mu      sync.Mutex
	lockers map[string]*sync.Mutex // collection → мьютекс read-modify-write
}

// New создаёт Store. Создаёт директорию данных, если её нет.
func New(dataDir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию данных %s: %w", dataDir, err)
	}

	return &Store{
		dataDir: dataDir,
		logger:  logger.With(slog.String("component", "docstore")),
		lockers: make(map[string]*sync.Mutex),
	}, nil
}

// DataDir возвращает путь к директории данных.
func (s *Store) DataDir() string {
	return s.dataDir
}

// Path возвращает путь к файлу коллекции.
func (s *Store) Path(collection string) string {
	return filepath.Join(s.dataDir, collection+".json")
}

// Locker возвращает мьютекс коллекции. Вызывающий сервис держит его
// от чтения до записи: две конкурентные мутации одной коллекции
// выполняются строго последовательно.
func (s *Store) Locker(collection string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lockers[collection]
	if !ok {
		l = &sync.Mutex{}
		s.lockers[collection] = l
	}
	return l
}

// LoadList читает list-образную коллекцию. Отсутствующий файл — не
// ошибка: возвращается пустой срез. Нечитаемый или повреждённый
// файл — ошибка ввода-вывода.
func LoadList[T any](s *Store, collection string) ([]T, error) {
	data, err := os.ReadFile(s.Path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("ошибка чтения коллекции %s: %w", collection, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("повреждённая коллекция %s: %w", collection, err)
	}
	if records == nil {
		// Документ "null" эквивалентен пустой коллекции
		records = []T{}
	}
	return records, nil
}

// LoadMap читает map-образную коллекцию (внешний ключ → объект).
// Отсутствующий файл возвращает пустую мапу.
func LoadMap[T any](s *Store, collection string) (map[string]T, error) {
	data, err := os.ReadFile(s.Path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]T{}, nil
		}
		return nil, fmt.Errorf("ошибка чтения коллекции %s: %w", collection, err)
	}

	var doc map[string]T
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("повреждённая коллекция %s: %w", collection, err)
	}
	if doc == nil {
		// Документ "null" эквивалентен пустой коллекции; запись
		// по новому ключу в nil-мапу привела бы к панике
		doc = map[string]T{}
	}
	return doc, nil
}

// Save атомарно заменяет содержимое коллекции.
// Паттерн: JSON с отступами → temp файл → fsync → rename.
// При сбое на любом шаге старое содержимое файла остаётся нетронутым.
func (s *Store) Save(collection string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации коллекции %s: %w", collection, err)
	}

	path := s.Path(collection)
	tmpPath := path + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка записи коллекции %s: %w", collection, err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	s.logger.Debug("Коллекция сохранена",
		slog.String("collection", collection),
		slog.Int("bytes", len(data)),
	)

	return nil
}
