// Пакет filename — политика именования загруженных файлов.
//
// Хранимое имя файла: {uniquePrefix}-{sanitizedOriginalName},
// где uniquePrefix = {epochMillis}-{randomInt}.
// Префикс однозначно идентифицирует событие загрузки даже после
// изменения правила санитизации суффикса — на этом построена
// сверка (reconciliation) хранилища.
//
// Все функции чистые и детерминированные (кроме NewPrefix).
package filename

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
)

// ErrMalformed — хранимое имя не соответствует ожидаемой форме
// (меньше трёх сегментов, разделённых дефисом).
var ErrMalformed = errors.New("некорректная форма хранимого имени файла")

// prefixRe — форма уникального префикса: 13 цифр epoch millis,
// дефис, случайное неотрицательное число.
var prefixRe = regexp.MustCompile(`^\d{13}-\d+$`)

// Sanitize заменяет каждый символ вне [A-Za-z0-9.] на '_'.
// Правило намеренно жёсткое: имя после санитизации безопасно
// для любой файловой системы и URL.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// NewPrefix генерирует уникальный префикс {epochMillis}-{randomInt}.
// Случайная компонента защищает от коллизий в пределах одной
// миллисекунды; криптографическая стойкость не требуется.
func NewPrefix() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixMilli(), rand.Int64N(1<<62))
}

// Derive составляет хранимое имя из оригинального имени и префикса.
// Детерминированная: одинаковые входы всегда дают одинаковый результат.
func Derive(originalName, prefix string) string {
	return prefix + "-" + Sanitize(originalName)
}

// Split разбирает хранимое имя на префикс и санитизированное
// оригинальное имя. Имя обязано содержать минимум три сегмента,
// разделённых дефисом: epochMillis-randomInt-rest. Остаток
// склеивается дефисами обратно — оригинальное имя само может
// содержать дефисы.
func Split(storedName string) (prefix, rest string, err error) {
	parts := strings.Split(storedName, "-")
	if len(parts) < 3 {
		return "", "", fmt.Errorf("%w: %q", ErrMalformed, storedName)
	}
	return parts[0] + "-" + parts[1], strings.Join(parts[2:], "-"), nil
}

// IsManaged проверяет, что имя имеет форму управляемого файла:
// минимум три сегмента и префикс вида \d{13}-\d+.
func IsManaged(storedName string) bool {
	prefix, _, err := Split(storedName)
	if err != nil {
		return false
	}
	return prefixRe.MatchString(prefix)
}

// Canonical возвращает каноническое имя для существующего хранимого
// имени: префикс сохраняется, остаток заново прогоняется через
// текущее правило санитизации. Используется сверкой для вычисления
// «правильного» имени файлов, названных по устаревшему правилу.
func Canonical(storedName string) (string, error) {
	prefix, rest, err := Split(storedName)
	if err != nil {
		return "", err
	}
	return Derive(rest, prefix), nil
}
