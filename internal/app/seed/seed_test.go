package seed

import (
	"fmt"
	"sync/atomic"
	"testing"

	"backend/internal/app/config"
	"backend/internal/app/repository"
	"backend/internal/app/role"
)

var dbSeq int64

func newTestSetup(t *testing.T) (*repository.Repository, *config.Config) {
	t.Helper()
	dsn := fmt.Sprintf("file:seed_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	repo, err := repository.New(dsn)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	cfg := &config.Config{
		Seed: config.SeedConfig{
			AdminPassword:    "Admin123!",
			ProducerPassword: "Producer123!",
		},
	}
	return repo, cfg
}

func TestSeedCreatesBaseline(t *testing.T) {
	repo, cfg := newTestSetup(t)

	if err := Run(repo, cfg); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	roles, err := repo.GetAllRoles()
	if err != nil {
		t.Fatalf("GetAllRoles failed: %v", err)
	}
	if len(roles) != 3 {
		t.Fatalf("expected 3 roles, got %d", len(roles))
	}

	admin, err := repo.GetUserByUsername(AdminUsername)
	if err != nil {
		t.Fatalf("admin account missing: %v", err)
	}
	if !admin.HasRole(role.Administrator) {
		t.Fatalf("admin must hold Administrator, has %v", admin.RoleNames())
	}

	producer, err := repo.GetUserByUsername(ProducerUsername)
	if err != nil {
		t.Fatalf("default producer missing: %v", err)
	}
	if !producer.HasRole(role.FoodProducer) {
		t.Fatalf("producer must hold FoodProducer, has %v", producer.RoleNames())
	}

	products, err := repo.GetAllProducts()
	if err != nil {
		t.Fatalf("GetAllProducts failed: %v", err)
	}
	if len(products) != 30 {
		t.Fatalf("expected 30 seeded products, got %d", len(products))
	}
	for _, p := range products {
		if p.ProducerID == nil || *p.ProducerID != producer.ID {
			t.Fatalf("product %s must belong to %s", p.Name, ProducerUsername)
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	repo, cfg := newTestSetup(t)

	if err := Run(repo, cfg); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if err := Run(repo, cfg); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	users, err := repo.GetAllUsers()
	if err != nil {
		t.Fatalf("GetAllUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected exactly 2 seeded accounts, got %d", len(users))
	}

	count, err := repo.CountProducts()
	if err != nil {
		t.Fatalf("CountProducts failed: %v", err)
	}
	if count != 30 {
		t.Fatalf("expected 30 products after reseed, got %d", count)
	}
}

func TestSeedDoesNotOverwriteExistingCatalog(t *testing.T) {
	repo, cfg := newTestSetup(t)

	if err := Run(repo, cfg); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	products, _ := repo.GetAllProducts()
	if err := repo.DeleteProduct(products[0].ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	// Непустая таблица не перезаливается
	if err := Run(repo, cfg); err != nil {
		t.Fatalf("reseed failed: %v", err)
	}
	count, _ := repo.CountProducts()
	if count != 29 {
		t.Fatalf("expected 29 products, got %d", count)
	}
}
