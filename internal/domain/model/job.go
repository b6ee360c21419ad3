// Пакет model — доменные модели контент-бэкенда.
// Каждая list-образная запись несёт числовой ID — epoch millis момента
// создания. ID уникален и монотонно растёт в пределах своей коллекции;
// уникальность между коллекциями не гарантируется и не требуется.
//
// Patch-структуры содержат указатели: nil-поле означает «не трогать»,
// ненулевой указатель (в том числе на пустое значение) перезаписывает
// поле записи. Это типизированная форма shallow merge.
package model

// Job — вакансия.
type Job struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Department     string `json:"department"`
	Location       string `json:"location"`
	EmploymentType string `json:"employmentType"`
	Description    string `json:"description"`
	// IsActive — вакансия открыта. Новые вакансии активны по умолчанию.
	IsActive bool `json:"isActive"`
}

// JobPatch — частичное обновление вакансии.
type JobPatch struct {
	Title          *string `json:"title"`
	Department     *string `json:"department"`
	Location       *string `json:"location"`
	EmploymentType *string `json:"employmentType"`
	Description    *string `json:"description"`
	IsActive       *bool   `json:"isActive"`
}

// Apply накладывает частичное обновление на запись.
func (p JobPatch) Apply(j *Job) {
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Department != nil {
		j.Department = *p.Department
	}
	if p.Location != nil {
		j.Location = *p.Location
	}
	if p.EmploymentType != nil {
		j.EmploymentType = *p.EmploymentType
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.IsActive != nil {
		j.IsActive = *p.IsActive
	}
}
