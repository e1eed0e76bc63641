package main

import (
	"backend/internal/app/ds"
	"backend/internal/app/dsn"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	// Загрузка переменных окружения из .env файла
	_ = godotenv.Load()

	path := dsn.FromEnv()

	// Подключение к базе данных (файл создаётся при первом обращении)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Connected to database successfully")

	// Миграция всех моделей
	err = db.AutoMigrate(
		&ds.User{},
		&ds.Role{},
		&ds.Product{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database migration completed successfully")
}
