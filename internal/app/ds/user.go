package ds

// Таблица пользователей
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"type:varchar(50);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Roles        []Role `gorm:"many2many:user_roles;"`
}

// Таблица ролей (фиксированный каталог, см. пакет role)
type Role struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null"`
}

// RoleNames возвращает имена ролей пользователя
func (u *User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = r.Name
	}
	return names
}

// HasRole проверяет наличие роли по имени
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
