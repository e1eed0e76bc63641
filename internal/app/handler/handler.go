package handler

import (
	"net/http"

	"backend/internal/app/dto"
	"backend/internal/app/middleware"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler объединяет обработчики всех контроллеров API
type Handler struct {
	Auth     *AuthHandler
	Admin    *AdminHandler
	Products *ProductHandler
}

func NewHandler(auth *AuthHandler, admin *AdminHandler, products *ProductHandler) *Handler {
	return &Handler{
		Auth:     auth,
		Admin:    admin,
		Products: products,
	}
}

// Регистрация статических файлов (сборка SPA)
func (h *Handler) RegisterStatic(router *gin.Engine) {
	router.Static("/static", "./static")
	router.StaticFile("/", "./static/index.html")
}

// RegisterRoutes регистрирует все REST API маршруты с авторизацией
func (h *Handler) RegisterRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// ============ Аккаунт (Account) ============
	account := api.Group("/Account")
	{
		// Публичные эндпоинты
		account.POST("/login", h.Auth.Login)
		account.POST("/register", h.Auth.Register)

		// Защищенные эндпоинты
		account.POST("/logout", authMiddleware.WithAuthCheck(), h.Auth.Logout)
		account.POST("/changepassword", authMiddleware.WithAuthCheck(), h.Auth.ChangePassword)
		account.DELETE("/deleteaccount", authMiddleware.WithAuthCheck(), h.Auth.DeleteAccount)
	}

	// ============ Администрирование (Admin) ============
	admin := api.Group("/Admin")
	admin.Use(authMiddleware.WithAuthCheck(role.Administrator))
	{
		admin.GET("/usermanager", h.Admin.ListUsers)
		admin.GET("/edituser/:id", h.Admin.GetUser)
		admin.PUT("/edituser", h.Admin.UpdateUserRoles)
		admin.DELETE("/deleteuser/:id", h.Admin.DeleteUser)
	}

	// ============ Каталог продуктов (Products) ============
	products := api.Group("/Products")
	{
		// Публичные эндпоинты (без авторизации)
		products.GET("/GetAllProducts", h.Products.GetAllProducts)
		products.GET("/categories", h.Products.GetAvailableCategories)
		products.GET("/allergens", h.Products.GetAvailableAllergens)
		products.GET("/:id", h.Products.GetProductByID)

		// Для авторизованных пользователей
		products.POST("/CreateProduct", authMiddleware.WithAuthCheck(), h.Products.CreateProduct)
		products.PUT("/UpdateProduct/:id", authMiddleware.WithAuthCheck(), h.Products.UpdateProduct)
		products.DELETE("/DeleteProduct/:id", authMiddleware.WithAuthCheck(), h.Products.DeleteProduct)
		products.GET("/user-products", authMiddleware.WithAuthCheck(), h.Products.GetUserProducts)
		products.POST("/:id/image", authMiddleware.WithAuthCheck(), h.Products.UploadProductImage)

		// Только для администраторов (без проверки владельца)
		products.PUT("/admin/products/:id", authMiddleware.WithAuthCheck(role.Administrator), h.Products.AdminUpdateProduct)
		products.DELETE("/admin/products/:id", authMiddleware.WithAuthCheck(role.Administrator), h.Products.AdminDeleteProduct)
		products.GET("/admin/all-products", authMiddleware.WithAuthCheck(role.Administrator), h.Products.GetAllProductsAdmin)
	}

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Description Возвращает простой ответ для проверки работы сервера
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *Handler) Ping(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "pong"})
}

// errorHandler централизованная обработка ошибок
func errorHandler(ctx *gin.Context, errorStatusCode int, err error) {
	logrus.Error(err.Error())
	message := err.Error()
	if errorStatusCode == http.StatusInternalServerError {
		// Детали внутренних ошибок наружу не отдаём
		message = "internal server error"
	}
	ctx.JSON(errorStatusCode, dto.ErrorResponse{
		Message: message,
	})
}
