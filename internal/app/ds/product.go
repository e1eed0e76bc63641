package ds

// Таблица продуктов. Пищевая ценность указывается на 100 г.
type Product struct {
	ID            uint       `gorm:"primaryKey"`
	Name          string     `gorm:"type:varchar(100);not null"`
	Description   string     `gorm:"type:text"`
	Categories    StringList `gorm:"type:text"`
	Allergens     StringList `gorm:"type:text"` // Nullable
	Calories      float64    `gorm:"not null;check:calories >= 0"`
	Protein       float64    `gorm:"not null;check:protein >= 0"`
	Carbohydrates float64    `gorm:"not null;check:carbohydrates >= 0"`
	Fat           float64    `gorm:"not null;check:fat >= 0"`
	ProducerID    *uint      `gorm:"index;default:null"`
	ImageURL      *string    `gorm:"type:varchar(255)"` // Nullable

	Producer *User `gorm:"foreignKey:ProducerID"`
}
