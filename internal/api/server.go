package api

import (
	"log"

	"backend/internal/app/config"
	"backend/internal/app/dsn"
	"backend/internal/app/handler"
	"backend/internal/app/middleware"
	"backend/internal/app/repository"
	"backend/internal/app/seed"
	"backend/internal/app/storage"
	"backend/internal/pkg"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func StartServer() {
	log.Println("Starting server")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		logrus.Fatalf("failed to init repository: %v", err)
	}

	// MinIO не критичен для старта: без него каталог работает, но без картинок
	minioClient, err := storage.NewMinIOClient(
		cfg.Minio.Endpoint,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.Bucket,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		logrus.Warnf("minio unavailable, image upload disabled: %v", err)
		minioClient = nil
	}

	if err := seed.Run(repo, cfg); err != nil {
		logrus.Fatalf("failed to seed database: %v", err)
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg)
	h := handler.NewHandler(
		handler.NewAuthHandler(repo, cfg),
		handler.NewAdminHandler(repo),
		handler.NewProductHandler(repo, minioClient),
	)

	r := gin.Default()
	// CORS для дев-сервера React
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	app := pkg.NewApp(cfg, r, h, authMiddleware)
	app.RunApp()

	log.Println("Server down")
}
