package repository

import (
	"fmt"
	"sync/atomic"
	"testing"

	"backend/internal/app/ds"
	"backend/internal/app/role"

	"gorm.io/gorm"
)

var dbSeq int64

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	repo, err := New(dsn)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	for _, name := range role.All() {
		if err := repo.EnsureRole(name); err != nil {
			t.Fatalf("failed to ensure role %s: %v", name, err)
		}
	}
	return repo
}

func createTestUser(t *testing.T, repo *Repository, username string, roles ...string) *ds.User {
	t.Helper()
	user, err := repo.CreateUser(username, "hash", roles...)
	if err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func createTestProduct(t *testing.T, repo *Repository, name string, producerID uint, calories float64, categories ...string) *ds.Product {
	t.Helper()
	product := &ds.Product{
		Name:       name,
		Categories: ds.StringList(categories),
		Calories:   calories,
		ProducerID: &producerID,
	}
	if err := repo.CreateProduct(product); err != nil {
		t.Fatalf("failed to create product %s: %v", name, err)
	}
	return product
}

func TestGetUserByUsernameCaseInsensitive(t *testing.T) {
	repo := newTestRepository(t)
	createTestUser(t, repo, "Alice", role.RegularUser)

	user, err := repo.GetUserByUsername("aLiCe")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if user.Username != "Alice" {
		t.Fatalf("unexpected username: %s", user.Username)
	}

	exists, err := repo.UserExistsByUsername("ALICE")
	if err != nil || !exists {
		t.Fatalf("expected user to exist, got exists=%v err=%v", exists, err)
	}
}

func TestReplaceUserRoles(t *testing.T) {
	repo := newTestRepository(t)
	user := createTestUser(t, repo, "bob", role.RegularUser)

	err := repo.ReplaceUserRoles(user.ID, []string{role.FoodProducer, role.Administrator})
	if err != nil {
		t.Fatalf("ReplaceUserRoles failed: %v", err)
	}

	reloaded, err := repo.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	names := reloaded.RoleNames()
	if len(names) != 2 || !reloaded.HasRole(role.FoodProducer) || !reloaded.HasRole(role.Administrator) {
		t.Fatalf("unexpected roles after replace: %v", names)
	}
}

func TestReplaceUserRolesUnknownRoleKeepsSet(t *testing.T) {
	repo := newTestRepository(t)
	user := createTestUser(t, repo, "carol", role.RegularUser)

	err := repo.ReplaceUserRoles(user.ID, []string{role.FoodProducer, "Moderator"})
	if err == nil {
		t.Fatal("expected error for unknown role")
	}

	// Транзакция откатилась, старый набор ролей не тронут
	reloaded, err := repo.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(reloaded.Roles) != 1 || !reloaded.HasRole(role.RegularUser) {
		t.Fatalf("role set must be unchanged, got %v", reloaded.RoleNames())
	}
}

func TestDeleteUserCascadesProducts(t *testing.T) {
	repo := newTestRepository(t)
	owner := createTestUser(t, repo, "dave", role.FoodProducer)
	other := createTestUser(t, repo, "erin", role.FoodProducer)

	createTestProduct(t, repo, "Owned 1", owner.ID, 100, "Meat")
	createTestProduct(t, repo, "Owned 2", owner.ID, 200, "Fish")
	kept := createTestProduct(t, repo, "Kept", other.ID, 300, "Drink")

	if err := repo.DeleteUser(owner.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	if _, err := repo.GetUserByID(owner.ID); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected user to be gone, got %v", err)
	}

	products, err := repo.GetAllProducts()
	if err != nil {
		t.Fatalf("GetAllProducts failed: %v", err)
	}
	if len(products) != 1 || products[0].ID != kept.ID {
		t.Fatalf("expected only the other producer's product to survive, got %d products", len(products))
	}
}

func TestGetSortedProductsByCalories(t *testing.T) {
	repo := newTestRepository(t)
	owner := createTestUser(t, repo, "frank", role.FoodProducer)

	createTestProduct(t, repo, "High", owner.ID, 500, "Meat")
	createTestProduct(t, repo, "Low", owner.ID, 50, "Fruit")
	createTestProduct(t, repo, "Mid", owner.ID, 250, "Pasta")

	products, err := repo.GetSortedProducts("calories")
	if err != nil {
		t.Fatalf("GetSortedProducts failed: %v", err)
	}
	for i := 1; i < len(products); i++ {
		if products[i-1].Calories > products[i].Calories {
			t.Fatalf("products not in non-decreasing calorie order: %v > %v",
				products[i-1].Calories, products[i].Calories)
		}
	}
}

func TestGetSortedProductsUnknownKey(t *testing.T) {
	repo := newTestRepository(t)
	owner := createTestUser(t, repo, "grace", role.FoodProducer)

	createTestProduct(t, repo, "B", owner.ID, 500, "Meat")
	createTestProduct(t, repo, "A", owner.ID, 50, "Fruit")

	products, err := repo.GetSortedProducts("popularity")
	if err != nil {
		t.Fatalf("GetSortedProducts failed: %v", err)
	}
	for i := 1; i < len(products); i++ {
		if products[i-1].ID > products[i].ID {
			t.Fatalf("fallback order must be ascending id")
		}
	}
}

func TestGetUserProductsCategoryFilter(t *testing.T) {
	repo := newTestRepository(t)
	owner := createTestUser(t, repo, "heidi", role.FoodProducer)
	other := createTestUser(t, repo, "ivan", role.FoodProducer)

	createTestProduct(t, repo, "Steak", owner.ID, 250, "Meat")
	createTestProduct(t, repo, "Apple", owner.ID, 52, "Fruit")
	createTestProduct(t, repo, "Foreign", other.ID, 100, "Meat")

	all, err := repo.GetUserProducts(owner.ID, "")
	if err != nil {
		t.Fatalf("GetUserProducts failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 own products, got %d", len(all))
	}

	meat, err := repo.GetUserProducts(owner.ID, "Meat")
	if err != nil {
		t.Fatalf("GetUserProducts with filter failed: %v", err)
	}
	if len(meat) != 1 || meat[0].Name != "Steak" {
		t.Fatalf("unexpected filtered result: %v", meat)
	}
}

func TestGetAllProductsAdminFilterOnly(t *testing.T) {
	repo := newTestRepository(t)
	owner := createTestUser(t, repo, "judy", role.FoodProducer)

	createTestProduct(t, repo, "Steak", owner.ID, 250, "Meat")
	createTestProduct(t, repo, "Apple", owner.ID, 52, "Fruit")

	products, err := repo.GetAllProductsAdmin("", "Fruit")
	if err != nil {
		t.Fatalf("GetAllProductsAdmin failed: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Apple" {
		t.Fatalf("unexpected filter result: %v", products)
	}
}

// Исторический контракт: sortBy перечитывает выборку и сбрасывает фильтр
func TestGetAllProductsAdminSortDiscardsFilter(t *testing.T) {
	repo := newTestRepository(t)
	owner := createTestUser(t, repo, "mallory", role.FoodProducer)

	createTestProduct(t, repo, "Steak", owner.ID, 250, "Meat")
	createTestProduct(t, repo, "Apple", owner.ID, 52, "Fruit")
	createTestProduct(t, repo, "Cod", owner.ID, 82, "Fish")

	products, err := repo.GetAllProductsAdmin("calories", "Fruit")
	if err != nil {
		t.Fatalf("GetAllProductsAdmin failed: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("sortBy must discard the category filter, got %d products", len(products))
	}
	for i := 1; i < len(products); i++ {
		if products[i-1].Calories > products[i].Calories {
			t.Fatal("products not sorted by calories")
		}
	}
}
