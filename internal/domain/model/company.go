package model

// CompanyContent — содержимое страницы компании/бренд-зоны.
// Коллекция company_content.json — map-образная: внешний ключ
// (scope id) → CompanyContent. Вложенные списки инициализируются
// пустыми при первом обращении к ключу.
type CompanyContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	// HeroImagePath — хранимое имя hero-изображения в общей директории загрузок
	HeroImagePath string `json:"heroImagePath"`

	Brands   []Brand        `json:"brands"`
	Services []BrandService `json:"services"`
	Awards   []Award        `json:"awards"`
}

// Brand — суббренд компании.
type Brand struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	WebsiteURL  string `json:"websiteUrl"`
	// LogoPath — хранимое имя логотипа в uploads/brands.
	// Логотип нормализуется в 400×200 PNG после загрузки.
	LogoPath string `json:"logoPath"`
}

// BrandService — услуга/направление деятельности.
type BrandService struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Award — награда компании.
type Award struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year"`
}

// CompanyPatch — частичное обновление скалярных полей страницы.
// Вложенные списки меняются собственными операциями, не патчем.
type CompanyPatch struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	HeroImagePath *string `json:"heroImagePath"`
}

// Apply накладывает частичное обновление на страницу.
func (p CompanyPatch) Apply(c *CompanyContent) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.HeroImagePath != nil {
		c.HeroImagePath = *p.HeroImagePath
	}
}

// BrandPatch — частичное обновление суббренда.
type BrandPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	WebsiteURL  *string `json:"websiteUrl"`
	LogoPath    *string `json:"logoPath"`
}

// Apply накладывает частичное обновление на суббренд.
func (p BrandPatch) Apply(b *Brand) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.WebsiteURL != nil {
		b.WebsiteURL = *p.WebsiteURL
	}
	if p.LogoPath != nil {
		b.LogoPath = *p.LogoPath
	}
}

// BrandServicePatch — частичное обновление услуги.
type BrandServicePatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Apply накладывает частичное обновление на услугу.
func (p BrandServicePatch) Apply(s *BrandService) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
}

// AwardPatch — частичное обновление награды.
type AwardPatch struct {
	Title *string `json:"title"`
	Year  *int    `json:"year"`
}

// Apply накладывает частичное обновление на награду.
func (p AwardPatch) Apply(a *Award) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Year != nil {
		a.Year = *p.Year
	}
}
