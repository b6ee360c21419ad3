package model

// SocialPost — публикация для социальных сетей.
type SocialPost struct {
	ID       int64  `json:"id"`
	Platform string `json:"platform"`
	Text     string `json:"text"`
	LinkURL  string `json:"linkUrl"`
	// ImagePath — хранимое имя изображения в uploads/social
	ImagePath string `json:"imagePath"`
}

// SocialPatch — частичное обновление публикации.
type SocialPatch struct {
	Platform  *string `json:"platform"`
	Text      *string `json:"text"`
	LinkURL   *string `json:"linkUrl"`
	ImagePath *string `json:"imagePath"`
}

// Apply накладывает частичное обновление на запись.
func (p SocialPatch) Apply(sp *SocialPost) {
	if p.Platform != nil {
		sp.Platform = *p.Platform
	}
	if p.Text != nil {
		sp.Text = *p.Text
	}
	if p.LinkURL != nil {
		sp.LinkURL = *p.LinkURL
	}
	if p.ImagePath != nil {
		sp.ImagePath = *p.ImagePath
	}
}
