package repository

import (
	"backend/internal/app/ds"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Автоматическая миграция всех таблиц
	err = db.AutoMigrate(
		&ds.User{},
		&ds.Role{},
		&ds.Product{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}

// DB отдаёт соединение (нужно сидированию)
func (r *Repository) DB() *gorm.DB {
	return r.db
}
