package seed

import (
	"backend/internal/app/config"
	"backend/internal/app/ds"
	"backend/internal/app/repository"
	"backend/internal/app/role"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	AdminUsername    = "Admin"
	ProducerUsername = "Default_Producer"
)

// Run сидирует базу при старте: роли, служебные аккаунты и стартовый
// каталог продуктов. Повторный запуск ничего не дублирует.
func Run(repo *repository.Repository, cfg *config.Config) error {
	for _, name := range role.All() {
		if err := repo.EnsureRole(name); err != nil {
			return err
		}
	}

	if err := ensureUser(repo, AdminUsername, cfg.Seed.AdminPassword, role.Administrator); err != nil {
		return err
	}
	if err := ensureUser(repo, ProducerUsername, cfg.Seed.ProducerPassword, role.FoodProducer); err != nil {
		return err
	}

	return seedProducts(repo)
}

// ensureUser создаёт аккаунт с ролью, если его ещё нет, и гарантирует
// наличие роли у уже существующего
func ensureUser(repo *repository.Repository, username, password, roleName string) error {
	user, err := repo.GetUserByUsername(username)
	if err == nil {
		if user.HasRole(roleName) {
			return nil
		}
		return repo.ReplaceUserRoles(user.ID, append(user.RoleNames(), roleName))
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = repo.CreateUser(username, string(hash), roleName)
	if err != nil {
		return err
	}
	logrus.Infof("seeded account %s", username)
	return nil
}

// seedProducts вставляет стартовый каталог, только если таблица пуста
func seedProducts(repo *repository.Repository) error {
	count, err := repo.CountProducts()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	producer, err := repo.GetUserByUsername(ProducerUsername)
	if err != nil {
		return err
	}

	products := SampleProducts(producer.ID)
	for i := range products {
		if err := repo.CreateProduct(&products[i]); err != nil {
			return err
		}
	}

	logrus.Infof("seeded %d products", len(products))
	return nil
}

// SampleProducts — стартовый каталог. Пищевая ценность на 100 г.
func SampleProducts(producerID uint) []ds.Product {
	pid := &producerID
	return []ds.Product{
		{Name: "Chicken Breast", Description: "Skinless chicken breast fillet", Categories: ds.StringList{"Meat"}, Allergens: ds.StringList{"None"}, Calories: 165, Protein: 31, Carbohydrates: 0, Fat: 3.6, ProducerID: pid},
		{Name: "Ground Beef", Description: "Lean ground beef, 14% fat", Categories: ds.StringList{"Meat"}, Allergens: ds.StringList{"None"}, Calories: 250, Protein: 26, Carbohydrates: 0, Fat: 15, ProducerID: pid},
		{Name: "Pork Chop", Description: "Bone-in pork loin chop", Categories: ds.StringList{"Meat"}, Allergens: ds.StringList{"None"}, Calories: 231, Protein: 25, Carbohydrates: 0, Fat: 14, ProducerID: pid},
		{Name: "Lamb Leg", Description: "Roasting leg of lamb", Categories: ds.StringList{"Meat"}, Allergens: ds.StringList{"None"}, Calories: 234, Protein: 25, Carbohydrates: 0, Fat: 14, ProducerID: pid},
		{Name: "Turkey Fillet", Description: "Lean turkey breast fillet", Categories: ds.StringList{"Meat"}, Allergens: ds.StringList{"None"}, Calories: 147, Protein: 30, Carbohydrates: 0, Fat: 2, ProducerID: pid},
		{Name: "Atlantic Salmon", Description: "Farmed salmon fillet", Categories: ds.StringList{"Fish"}, Allergens: ds.StringList{"Fish"}, Calories: 208, Protein: 20, Carbohydrates: 0, Fat: 13, ProducerID: pid},
		{Name: "Cod Fillet", Description: "Wild-caught cod", Categories: ds.StringList{"Fish"}, Allergens: ds.StringList{"Fish"}, Calories: 82, Protein: 18, Carbohydrates: 0, Fat: 0.7, ProducerID: pid},
		{Name: "Canned Tuna", Description: "Tuna chunks in brine", Categories: ds.StringList{"Fish"}, Allergens: ds.StringList{"Fish"}, Calories: 116, Protein: 26, Carbohydrates: 0, Fat: 1, ProducerID: pid},
		{Name: "Smoked Mackerel", Description: "Hot-smoked mackerel fillet", Categories: ds.StringList{"Fish"}, Allergens: ds.StringList{"Fish"}, Calories: 305, Protein: 19, Carbohydrates: 0, Fat: 25, ProducerID: pid},
		{Name: "Shrimp", Description: "Peeled cooked shrimp", Categories: ds.StringList{"Fish"}, Allergens: ds.StringList{"Shellfish"}, Calories: 99, Protein: 24, Carbohydrates: 0.2, Fat: 0.3, ProducerID: pid},
		{Name: "Broccoli", Description: "Fresh broccoli florets", Categories: ds.StringList{"Vegetable"}, Allergens: ds.StringList{"None"}, Calories: 34, Protein: 2.8, Carbohydrates: 7, Fat: 0.4, ProducerID: pid},
		{Name: "Carrot", Description: "Raw carrots", Categories: ds.StringList{"Vegetable"}, Allergens: ds.StringList{"None"}, Calories: 41, Protein: 0.9, Carbohydrates: 10, Fat: 0.2, ProducerID: pid},
		{Name: "Spinach", Description: "Baby spinach leaves", Categories: ds.StringList{"Vegetable"}, Allergens: ds.StringList{"None"}, Calories: 23, Protein: 2.9, Carbohydrates: 3.6, Fat: 0.4, ProducerID: pid},
		{Name: "Bell Pepper", Description: "Red bell pepper", Categories: ds.StringList{"Vegetable"}, Allergens: ds.StringList{"None"}, Calories: 31, Protein: 1, Carbohydrates: 6, Fat: 0.3, ProducerID: pid},
		{Name: "Potato", Description: "Starchy white potatoes", Categories: ds.StringList{"Vegetable"}, Allergens: ds.StringList{"None"}, Calories: 77, Protein: 2, Carbohydrates: 17, Fat: 0.1, ProducerID: pid},
		{Name: "Tomato", Description: "Vine-ripened tomatoes", Categories: ds.StringList{"Vegetable", "Fruit"}, Allergens: ds.StringList{"None"}, Calories: 18, Protein: 0.9, Carbohydrates: 3.9, Fat: 0.2, ProducerID: pid},
		{Name: "Apple", Description: "Crisp red apples", Categories: ds.StringList{"Fruit"}, Allergens: ds.StringList{"None"}, Calories: 52, Protein: 0.3, Carbohydrates: 14, Fat: 0.2, ProducerID: pid},
		{Name: "Banana", Description: "Ripe bananas", Categories: ds.StringList{"Fruit"}, Allergens: ds.StringList{"None"}, Calories: 89, Protein: 1.1, Carbohydrates: 23, Fat: 0.3, ProducerID: pid},
		{Name: "Orange", Description: "Seedless navel oranges", Categories: ds.StringList{"Fruit"}, Allergens: ds.StringList{"None"}, Calories: 47, Protein: 0.9, Carbohydrates: 12, Fat: 0.1, ProducerID: pid},
		{Name: "Strawberries", Description: "Fresh strawberries", Categories: ds.StringList{"Fruit"}, Allergens: ds.StringList{"None"}, Calories: 32, Protein: 0.7, Carbohydrates: 7.7, Fat: 0.3, ProducerID: pid},
		{Name: "Blueberries", Description: "Fresh blueberries", Categories: ds.StringList{"Fruit"}, Allergens: ds.StringList{"None"}, Calories: 57, Protein: 0.7, Carbohydrates: 14, Fat: 0.3, ProducerID: pid},
		{Name: "Spaghetti", Description: "Durum wheat spaghetti", Categories: ds.StringList{"Pasta"}, Allergens: ds.StringList{"Wheat"}, Calories: 158, Protein: 5.8, Carbohydrates: 31, Fat: 0.9, ProducerID: pid},
		{Name: "Penne", Description: "Durum wheat penne rigate", Categories: ds.StringList{"Pasta"}, Allergens: ds.StringList{"Wheat"}, Calories: 157, Protein: 5.7, Carbohydrates: 31, Fat: 0.9, ProducerID: pid},
		{Name: "Egg Noodles", Description: "Broad egg noodles", Categories: ds.StringList{"Pasta"}, Allergens: ds.StringList{"Wheat", "Egg"}, Calories: 138, Protein: 4.5, Carbohydrates: 25, Fat: 2.1, ProducerID: pid},
		{Name: "Lasagne Sheets", Description: "Oven-ready lasagne sheets", Categories: ds.StringList{"Pasta"}, Allergens: ds.StringList{"Wheat"}, Calories: 160, Protein: 5.5, Carbohydrates: 32, Fat: 1, ProducerID: pid},
		{Name: "Chickpeas", Description: "Cooked chickpeas", Categories: ds.StringList{"Legume"}, Allergens: ds.StringList{"None"}, Calories: 164, Protein: 8.9, Carbohydrates: 27, Fat: 2.6, ProducerID: pid},
		{Name: "Lentils", Description: "Cooked green lentils", Categories: ds.StringList{"Legume"}, Allergens: ds.StringList{"None"}, Calories: 116, Protein: 9, Carbohydrates: 20, Fat: 0.4, ProducerID: pid},
		{Name: "Peanut Butter", Description: "Smooth peanut butter", Categories: ds.StringList{"Legume"}, Allergens: ds.StringList{"Peanut"}, Calories: 588, Protein: 25, Carbohydrates: 20, Fat: 50, ProducerID: pid},
		{Name: "Whole Milk", Description: "Whole cow's milk, 3.5% fat", Categories: ds.StringList{"Drink"}, Allergens: ds.StringList{"Milk"}, Calories: 61, Protein: 3.2, Carbohydrates: 4.8, Fat: 3.3, ProducerID: pid},
		{Name: "Soy Drink", Description: "Unsweetened soy drink", Categories: ds.StringList{"Drink"}, Allergens: ds.StringList{"Soy"}, Calories: 33, Protein: 3.3, Carbohydrates: 1.8, Fat: 1.6, ProducerID: pid},
	}
}
