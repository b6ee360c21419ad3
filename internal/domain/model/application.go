package model

// Application — отклик на вакансию.
type Application struct {
	ID    int64  `json:"id"`
	JobID int64  `json:"jobId"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	// CoverLetter — сопроводительное письмо (опционально)
	CoverLetter string `json:"coverLetter"`
	// CVPath — хранимое имя файла резюме в общей директории загрузок.
	// Непустое значение означает, что файл должен существовать на диске;
	// расхождения чинит сверка (reconcile).
	CVPath string `json:"cvPath"`
}

// ApplicationPatch — частичное обновление отклика.
type ApplicationPatch struct {
	JobID       *int64  `json:"jobId"`
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	CoverLetter *string `json:"coverLetter"`
	CVPath      *string `json:"cvPath"`
}

// Apply накладывает частичное обновление на запись.
func (p ApplicationPatch) Apply(a *Application) {
	if p.JobID != nil {
		a.JobID = *p.JobID
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.Phone != nil {
		a.Phone = *p.Phone
	}
	if p.CoverLetter != nil {
		a.CoverLetter = *p.CoverLetter
	}
	if p.CVPath != nil {
		a.CVPath = *p.CVPath
	}
}
