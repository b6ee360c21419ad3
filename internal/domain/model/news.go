package model

import "time"

// NewsPost — новость компании.
type NewsPost struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	// ImagePath — хранимое имя иллюстрации в uploads/news
	ImagePath string `json:"imagePath"`
	// PublishedAt — момент публикации (UTC), выставляется при создании
	PublishedAt time.Time `json:"publishedAt"`
}

// NewsPatch — частичное обновление новости.
type NewsPatch struct {
	Title     *string `json:"title"`
	Body      *string `json:"body"`
	ImagePath *string `json:"imagePath"`
}

// Apply накладывает частичное обновление на запись.
func (p NewsPatch) Apply(n *NewsPost) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Body != nil {
		n.Body = *p.Body
	}
	if p.ImagePath != nil {
		n.ImagePath = *p.ImagePath
	}
}
