package role

// Фиксированный набор ролей системы. Создаются один раз при старте,
// в рантайме не удаляются.
const (
	RegularUser   = "RegularUser"
	FoodProducer  = "FoodProducer"
	Administrator = "Administrator"
)

// All возвращает полный каталог ролей (для сидирования и админки)
func All() []string {
	return []string{RegularUser, FoodProducer, Administrator}
}

// IsValid проверяет, что имя роли входит в каталог
func IsValid(name string) bool {
	for _, r := range All() {
		if r == name {
			return true
		}
	}
	return false
}
