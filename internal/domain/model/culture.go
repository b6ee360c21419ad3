package model

// CultureEntry — материал раздела «жизнь компании».
type CultureEntry struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	// ImagePath — хранимое имя изображения в общей директории загрузок
	ImagePath string `json:"imagePath"`
}

// CulturePatch — частичное обновление материала.
type CulturePatch struct {
	Title     *string `json:"title"`
	Body      *string `json:"body"`
	ImagePath *string `json:"imagePath"`
}

// Apply накладывает частичное обновление на запись.
func (p CulturePatch) Apply(c *CultureEntry) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Body != nil {
		c.Body = *p.Body
	}
	if p.ImagePath != nil {
		c.ImagePath = *p.ImagePath
	}
}
