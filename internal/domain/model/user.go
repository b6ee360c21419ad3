package model

// User — учётная запись администратора контента.
// Аутентификация и сессии живут во внешнем слое; здесь только
// данные, которые хранит коллекция users.json.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// UserPatch — частичное обновление учётной записи.
type UserPatch struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
	Role  *string `json:"role"`
}

// Apply накладывает частичное обновление на запись.
func (p UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}
