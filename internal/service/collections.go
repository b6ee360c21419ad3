// collections.go — имена коллекций и генерация идентификаторов записей.
package service

import "time"

// Имена коллекций в директории данных (файл {имя}.json).
const (
	CollectionJobs         = "jobs"
	CollectionApplications = "applications"
	CollectionUsers        = "users"
	CollectionNews         = "news"
	CollectionSocial       = "social"
	CollectionCulture      = "culture"
	CollectionCompany      = "company_content"
)

// newRecordID возвращает id новой записи: epoch millis момента создания.
// Если в коллекции уже есть запись с таким или большим id (две записи
// в одну миллисекунду), id сдвигается на единицу вверх — уникальность
// и монотонность в пределах коллекции сохраняются.
func newRecordID(maxExisting int64) int64 {
	id := time.Now().UnixMilli()
	if id <= maxExisting {
		id = maxExisting + 1
	}
	return id
}

// maxID возвращает максимальный id в срезе записей.
func maxID[T any](records []T, id func(T) int64) int64 {
	var maxV int64
	for _, r := range records {
		if v := id(r); v > maxV {
			maxV = v
		}
	}
	return maxV
}
