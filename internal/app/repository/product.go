package repository

import (
	"backend/internal/app/ds"
)

// Статические справочники каталога
var (
	AvailableCategories = []string{"Meat", "Fish", "Vegetable", "Fruit", "Pasta", "Legume", "Drink"}
	AvailableAllergens  = []string{"Milk", "Egg", "Peanut", "Soy", "Wheat", "Tree Nut", "Shellfish", "Fish", "Sesame", "None"}
)

// Допустимые ключи сортировки; всё остальное — сортировка по id
var sortColumns = map[string]string{
	"name":          "name ASC",
	"calories":      "calories ASC",
	"protein":       "protein ASC",
	"fat":           "fat ASC",
	"carbohydrates": "carbohydrates ASC",
}

// Методы для продуктов (ORM)

func (r *Repository) GetAllProducts() ([]ds.Product, error) {
	var products []ds.Product
	err := r.db.Order("id ASC").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) GetProductByID(id uint) (*ds.Product, error) {
	var product ds.Product
	err := r.db.First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) CreateProduct(product *ds.Product) error {
	return r.db.Create(product).Error
}

func (r *Repository) UpdateProduct(product *ds.Product) error {
	// Save перезаписывает все колонки, включая обнуляемые
	return r.db.Save(product).Error
}

func (r *Repository) DeleteProduct(id uint) error {
	result := r.db.Delete(&ds.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) CountProducts() (int64, error) {
	var count int64
	err := r.db.Model(&ds.Product{}).Count(&count).Error
	return count, err
}

// GetUserProducts возвращает продукты производителя, опционально
// отфильтрованные по категории
func (r *Repository) GetUserProducts(producerID uint, category string) ([]ds.Product, error) {
	var products []ds.Product
	err := r.db.Where("producer_id = ?", producerID).Order("id ASC").Find(&products).Error
	if err != nil {
		return nil, err
	}
	if category == "" {
		return products, nil
	}
	return filterByCategory(products, category), nil
}

// GetProductsByCategory возвращает все продукты с данной категорией
func (r *Repository) GetProductsByCategory(category string) ([]ds.Product, error) {
	products, err := r.GetAllProducts()
	if err != nil {
		return nil, err
	}
	return filterByCategory(products, category), nil
}

// GetSortedProducts сортирует по одному из ключей справочника sortColumns;
// неизвестный ключ даёт порядок по возрастанию id
func (r *Repository) GetSortedProducts(sortBy string) ([]ds.Product, error) {
	order, ok := sortColumns[sortBy]
	if !ok {
		order = "id ASC"
	}

	var products []ds.Product
	err := r.db.Order(order).Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// GetAllProductsAdmin — админский листинг с фильтром и сортировкой.
// Исторически сложившееся поведение: при заданном sortBy выборка
// перечитывается целиком и фильтр по категории не применяется.
func (r *Repository) GetAllProductsAdmin(sortBy, category string) ([]ds.Product, error) {
	products, err := r.GetAllProducts()
	if err != nil {
		return nil, err
	}

	if category != "" {
		products = filterByCategory(products, category)
	}

	if sortBy != "" {
		products, err = r.GetSortedProducts(sortBy)
		if err != nil {
			return nil, err
		}
	}

	return products, nil
}

func filterByCategory(products []ds.Product, category string) []ds.Product {
	filtered := make([]ds.Product, 0, len(products))
	for _, p := range products {
		if p.Categories.Contains(category) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
