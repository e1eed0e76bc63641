package handler

import (
	"errors"
	"net/http"
	"strconv"

	"backend/internal/app/dto"
	"backend/internal/app/repository"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler — управление пользователями и их ролями
type AdminHandler struct {
	Repository *repository.Repository
}

func NewAdminHandler(r *repository.Repository) *AdminHandler {
	return &AdminHandler{Repository: r}
}

// ListUsers список всех пользователей с ролями
// @Summary Список пользователей
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.UserResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/Admin/usermanager [get]
func (h *AdminHandler) ListUsers(ctx *gin.Context) {
	users, err := h.Repository.GetAllUsers()
	if err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	response := make([]dto.UserResponse, len(users))
	for i, u := range users {
		response[i] = dto.UserResponse{
			ID:       u.ID,
			Username: u.Username,
			Roles:    u.RoleNames(),
		}
	}
	ctx.JSON(http.StatusOK, response)
}

// GetUser данные пользователя для редактирования
// @Summary Пользователь по ID
// @Description Возвращает пользователя с его ролями и полный каталог ролей
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Success 200 {object} dto.EditUserResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/Admin/edituser/{id} [get]
func (h *AdminHandler) GetUser(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		errorHandler(ctx, http.StatusBadRequest, errors.New("invalid user id"))
		return
	}

	user, err := h.Repository.GetUserByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errorHandler(ctx, http.StatusNotFound, errors.New("user not found"))
			return
		}
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.EditUserResponse{
		User: dto.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Roles:    user.RoleNames(),
		},
		AllRoles: role.All(),
	})
}

// UpdateUserRoles полная замена набора ролей пользователя
// @Summary Изменение ролей пользователя
// @Description Заменяет весь набор ролей одной транзакцией
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateUserRolesRequest true "Новый набор ролей"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/Admin/edituser [put]
func (h *AdminHandler) UpdateUserRoles(ctx *gin.Context) {
	var request dto.UpdateUserRolesRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	for _, name := range request.Roles {
		if !role.IsValid(name) {
			errorHandler(ctx, http.StatusBadRequest, errors.New("unknown role: "+name))
			return
		}
	}

	if _, err := h.Repository.GetUserByID(request.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errorHandler(ctx, http.StatusNotFound, errors.New("user not found"))
			return
		}
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	if err := h.Repository.ReplaceUserRoles(request.UserID, request.Roles); err != nil {
		errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "roles updated"})
}

// DeleteUser удаление пользователя администратором
// @Summary Удаление пользователя
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/Admin/deleteuser/{id} [delete]
func (h *AdminHandler) DeleteUser(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		errorHandler(ctx, http.StatusBadRequest, errors.New("invalid user id"))
		return
	}

	if _, err := h.Repository.GetUserByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errorHandler(ctx, http.StatusNotFound, errors.New("user not found"))
			return
		}
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	if err := h.Repository.DeleteUser(uint(id)); err != nil {
		errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
