// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — запись с таким id отсутствует в коллекции.
	ErrNotFound = errors.New("запись не найдена")
	// ErrMissingFile — endpoint требует файл, но он не передан.
	ErrMissingFile = errors.New("файл не передан")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
)

// PayloadTooLargeError — размер загружаемого файла превышает лимит.
// Отдельный тип: внешнему слою нужны оба значения, чтобы сообщить
// пользователю, какой именно лимит нарушен.
type PayloadTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("размер файла %d байт превышает максимум %d байт", e.Size, e.Limit)
}
