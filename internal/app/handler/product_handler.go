package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"backend/internal/app/ds"
	"backend/internal/app/dto"
	"backend/internal/app/middleware"
	"backend/internal/app/repository"
	"backend/internal/app/role"
	"backend/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Максимальный размер загружаемого изображения
const maxImageSize = 5 << 20

// ProductHandler — CRUD каталога продуктов
type ProductHandler struct {
	Repository  *repository.Repository
	MinIOClient *storage.MinIOClient
}

func NewProductHandler(r *repository.Repository, minioClient *storage.MinIOClient) *ProductHandler {
	return &ProductHandler{
		Repository:  r,
		MinIOClient: minioClient,
	}
}

// toProductResponse маппит сущность в DTO; для изображения подставляется
// временная ссылка MinIO
func (h *ProductHandler) toProductResponse(p *ds.Product) dto.ProductResponse {
	response := dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Categories:    p.Categories,
		Allergens:     p.Allergens,
		Calories:      p.Calories,
		Protein:       p.Protein,
		Carbohydrates: p.Carbohydrates,
		Fat:           p.Fat,
		ProducerID:    p.ProducerID,
	}
	if p.ImageURL != nil && h.MinIOClient != nil {
		url, err := h.MinIOClient.GetImageURL(*p.ImageURL)
		if err != nil {
			logrus.Warnf("failed to presign image %s: %v", *p.ImageURL, err)
		} else {
			response.ImageURL = url
		}
	}
	return response
}

func (h *ProductHandler) toProductResponses(products []ds.Product) []dto.ProductResponse {
	responses := make([]dto.ProductResponse, len(products))
	for i := range products {
		responses[i] = h.toProductResponse(&products[i])
	}
	return responses
}

// canManageProduct: продукт меняет его производитель или администратор
func canManageProduct(identity ds.Identity, product *ds.Product) bool {
	if identity.HasRole(role.Administrator) {
		return true
	}
	return product.ProducerID != nil && *product.ProducerID == identity.UserID
}

func parseProductID(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return 0, errors.New("invalid product id")
	}
	return uint(id), nil
}

// GetAllProducts список всех продуктов
// @Summary Список продуктов
// @Tags Products
// @Produce json
// @Success 200 {array} dto.ProductResponse
// @Router /api/Products/GetAllProducts [get]
func (h *ProductHandler) GetAllProducts(ctx *gin.Context) {
	products, err := h.Repository.GetAllProducts()
	if err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}
	ctx.JSON(http.StatusOK, h.toProductResponses(products))
}

// GetProductByID один продукт
// @Summary Продукт по ID
// @Tags Products
// @Produce json
// @Param id path int true "ID продукта"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/Products/{id} [get]
func (h *ProductHandler) GetProductByID(ctx *gin.Context) {
	id, err := parseProductID(ctx)
	if err != nil {
		errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	product, err := h.Repository.GetProductByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errorHandler(ctx, http.StatusNotFound, errors.New("product not found"))
			return
		}
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}
	ctx.JSON(http.StatusOK, h.toProductResponse(product))
}

// CreateProduct создание продукта авторизованным пользователем
// @Summary Создание продукта
// @Description Создатель автоматически становится производителем продукта
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProductRequest true "Данные продукта"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/Products/CreateProduct [post]
func (h *ProductHandler) CreateProduct(ctx *gin.Context) {
	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		errorHandler(ctx, http.StatusBadRequest, errors.New("identity claim missing"))
		return
	}

	var request dto.CreateProductRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	producerID := identity.UserID
	product := ds.Product{
		Name:          request.Name,
		Description:   request.Description,
		Categories:    request.Categories,
		Allergens:     request.Allergens,
		Calories:      request.Calories,
		Protein:       request.Protein,
		Carbohydrates: request.Carbohydrates,
		Fat:           request.Fat,
		ProducerID:    &producerID,
	}

	if err := h.Repository.CreateProduct(&product); err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.JSON(http.StatusCreated, h.toProductResponse(&product))
}

// applyUpdate переносит поля запроса в сущность
func applyUpdate(product *ds.Product, request *dto.UpdateProductRequest) {
	product.Name = request.Name
	product.Description = request.Description
	product.Categories = request.Categories
	product.Allergens = request.Allergens
	product.Calories = request.Calories
	product.Protein = request.Protein
	product.Carbohydrates = request.Carbohydrates
	product.Fat = request.Fat
}

// updateProduct — общий код обновления; checkOwner выключен для админских
// маршрутов
func (h *ProductHandler) updateProduct(ctx *gin.Context, checkOwner bool) {
	id, err := parseProductID(ctx)
	if err != nil {
		errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	var request dto.UpdateProductRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	if request.ID != id {
		errorHandler(ctx, http.StatusBadRequest, errors.New("product id mismatch"))
		return
	}

	product, err := h.Repository.GetProductByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errorHandler(ctx, http.StatusNotFound, errors.New("product not found"))
			return
		}
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	if checkOwner {
		identity, ok := middleware.IdentityFromContext(ctx)
		if !ok {
			errorHandler(ctx, http.StatusBadRequest, errors.New("identity claim missing"))
			return
		}
		if !canManageProduct(identity, product) {
			errorHandler(ctx, http.StatusForbidden, errors.New("you are not the producer of this product"))
			return
		}
	}

	applyUpdate(product, &request)
	if err := h.Repository.UpdateProduct(product); err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// deleteProduct — общий код удаления
func (h *ProductHandler) deleteProduct(ctx *gin.Context, checkOwner bool) {
	id, err := parseProductID(ctx)
	if err != nil {
		errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	product, err := h.Repository.GetProductByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errorHandler(ctx, http.StatusNotFound, errors.New("product not found"))
			return
		}
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	if checkOwner {
		identity, ok := middleware.IdentityFromContext(ctx)
		if !ok {
			errorHandler(ctx, http.StatusBadRequest, errors.New("identity claim missing"))
			return
		}
		if !canManageProduct(identity, product) {
			errorHandler(ctx, http.StatusForbidden, errors.New("you are not the producer of this product"))
			return
		}
	}

	if err := h.Repository.DeleteProduct(id); err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// UpdateProduct обновление продукта производителем или администратором
// @Summary Обновление продукта
// @Tags Products
// @Accept json
// @Security BearerAuth
// @Param id path int true "ID продукта"
// @Param request body dto.UpdateProductRequest true "Данные продукта"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/Products/UpdateProduct/{id} [put]
func (h *ProductHandler) UpdateProduct(ctx *gin.Context) {
	h.updateProduct(ctx, true)
}

// DeleteProduct удаление продукта производителем или администратором
// @Summary Удаление продукта
// @Tags Products
// @Security BearerAuth
// @Param id path int true "ID продукта"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/Products/DeleteProduct/{id} [delete]
func (h *ProductHandler) DeleteProduct(ctx *gin.Context) {
	h.deleteProduct(ctx, true)
}

// AdminUpdateProduct обновление без проверки владельца
// @Summary Обновление продукта (админ)
// @Tags Products
// @Accept json
// @Security BearerAuth
// @Param id path int true "ID продукта"
// @Param request body dto.UpdateProductRequest true "Данные продукта"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/Products/admin/products/{id} [put]
func (h *ProductHandler) AdminUpdateProduct(ctx *gin.Context) {
	h.updateProduct(ctx, false)
}

// AdminDeleteProduct удаление без проверки владельца
// @Summary Удаление продукта (админ)
// @Tags Products
// @Security BearerAuth
// @Param id path int true "ID продукта"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/Products/admin/products/{id} [delete]
func (h *ProductHandler) AdminDeleteProduct(ctx *gin.Context) {
	h.deleteProduct(ctx, false)
}

// GetAvailableCategories статический справочник категорий
// @Summary Справочник категорий
// @Tags Products
// @Produce json
// @Success 200 {array} string
// @Router /api/Products/categories [get]
func (h *ProductHandler) GetAvailableCategories(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, repository.AvailableCategories)
}

// GetAvailableAllergens статический справочник аллергенов
// @Summary Справочник аллергенов
// @Tags Products
// @Produce json
// @Success 200 {array} string
// @Router /api/Products/allergens [get]
func (h *ProductHandler) GetAvailableAllergens(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, repository.AvailableAllergens)
}

// GetUserProducts продукты текущего пользователя
// @Summary Мои продукты
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param category query string false "Фильтр по категории"
// @Success 200 {array} dto.ProductResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/Products/user-products [get]
func (h *ProductHandler) GetUserProducts(ctx *gin.Context) {
	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		errorHandler(ctx, http.StatusBadRequest, errors.New("identity claim missing"))
		return
	}

	products, err := h.Repository.GetUserProducts(identity.UserID, ctx.Query("category"))
	if err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}
	ctx.JSON(http.StatusOK, h.toProductResponses(products))
}

// GetAllProductsAdmin админский листинг с фильтром и сортировкой
// @Summary Все продукты (админ)
// @Description Сортировка по name/calories/protein/fat/carbohydrates, фильтр по категории
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param sortBy query string false "Ключ сортировки"
// @Param category query string false "Фильтр по категории"
// @Success 200 {array} dto.ProductResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/Products/admin/all-products [get]
func (h *ProductHandler) GetAllProductsAdmin(ctx *gin.Context) {
	products, err := h.Repository.GetAllProductsAdmin(ctx.Query("sortBy"), ctx.Query("category"))
	if err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}
	ctx.JSON(http.StatusOK, h.toProductResponses(products))
}

// UploadProductImage загрузка изображения продукта в MinIO
// @Summary Изображение продукта
// @Tags Products
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID продукта"
// @Param image formData file true "Файл изображения (jpeg/png/webp)"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/Products/{id}/image [post]
func (h *ProductHandler) UploadProductImage(ctx *gin.Context) {
	if h.MinIOClient == nil {
		errorHandler(ctx, http.StatusInternalServerError, errors.New("image storage is not configured"))
		return
	}

	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		errorHandler(ctx, http.StatusBadRequest, errors.New("identity claim missing"))
		return
	}

	id, err := parseProductID(ctx)
	if err != nil {
		errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	product, err := h.Repository.GetProductByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errorHandler(ctx, http.StatusNotFound, errors.New("product not found"))
			return
		}
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	if !canManageProduct(identity, product) {
		errorHandler(ctx, http.StatusForbidden, errors.New("you are not the producer of this product"))
		return
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		errorHandler(ctx, http.StatusBadRequest, errors.New("image file is required"))
		return
	}
	if fileHeader.Size > maxImageSize {
		errorHandler(ctx, http.StatusBadRequest, errors.New("image is too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	objectName, err := h.MinIOClient.UploadProductImage(product.ID, data, fileHeader.Filename)
	if err != nil {
		errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	// Старое изображение больше не нужно
	if product.ImageURL != nil {
		if err := h.MinIOClient.DeleteImage(*product.ImageURL); err != nil {
			logrus.Warnf("failed to delete old image %s: %v", *product.ImageURL, err)
		}
	}

	product.ImageURL = &objectName
	if err := h.Repository.UpdateProduct(product); err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	url, err := h.MinIOClient.GetImageURL(objectName)
	if err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"imageUrl": url})
}
