package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode"

	"backend/internal/app/config"
	"backend/internal/app/ds"
	"backend/internal/app/dto"
	"backend/internal/app/middleware"
	"backend/internal/app/repository"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	Repository *repository.Repository
	Config     *config.Config
}

func NewAuthHandler(r *repository.Repository, config *config.Config) *AuthHandler {
	return &AuthHandler{
		Repository: r,
		Config:     config,
	}
}

// Логины, зарезервированные за системой (сравнение без учёта регистра)
var reservedUsernames = []string{"admin", "administrator", "superuser", "root", "default_producer"}

func isReservedUsername(username string) bool {
	lower := strings.ToLower(username)
	for _, reserved := range reservedUsernames {
		if lower == reserved {
			return true
		}
	}
	return false
}

// validatePassword проверяет парольную политику: минимум 8 символов,
// заглавная и строчная буквы, цифра. Спецсимволы не обязательны.
func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password must contain an uppercase letter, a lowercase letter and a digit")
	}
	return nil
}

// issueToken подписывает JWT с ролями пользователя на момент входа
func (h *AuthHandler) issueToken(user *ds.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(h.Config.JWT.SigningMethod, ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   user.Username,
			Id:        uuid.New().String(),
			ExpiresAt: now.Add(h.Config.JWT.ExpiresIn).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    h.Config.JWT.Issuer,
			Audience:  h.Config.JWT.Audience,
		},
		UserID: user.ID,
		Roles:  user.RoleNames(),
	})

	return token.SignedString([]byte(h.Config.JWT.Secret))
}

// Login аутентификация пользователя
// @Summary Вход в систему
// @Description Аутентификация пользователя с возвратом JWT токена и списка ролей
// @Tags Account
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Данные для входа"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/Account/login [post]
func (h *AuthHandler) Login(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	user, err := h.Repository.GetUserByUsername(request.Username)
	if err != nil {
		errorHandler(ctx, http.StatusUnauthorized, errors.New("invalid username or password"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)) != nil {
		errorHandler(ctx, http.StatusUnauthorized, errors.New("invalid username or password"))
		return
	}

	accessToken, err := h.issueToken(user)
	if err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		Token: accessToken,
		Roles: user.RoleNames(),
	})
}

// Register регистрация нового пользователя
// @Summary Регистрация пользователя
// @Description Создание нового пользователя. Роль Administrator при регистрации запрещена.
// @Tags Account
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные для регистрации"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/Account/register [post]
func (h *AuthHandler) Register(ctx *gin.Context) {
	var request dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	if request.Password != request.ConfirmPassword {
		errorHandler(ctx, http.StatusBadRequest, errors.New("passwords do not match"))
		return
	}

	if isReservedUsername(request.Username) {
		errorHandler(ctx, http.StatusBadRequest, errors.New("this username is not allowed"))
		return
	}

	// Роль по умолчанию — обычный пользователь. Administrator через
	// регистрацию получить нельзя, все проверки выполняются до создания
	// записи, чтобы неудачная попытка не оставляла аккаунт.
	requestedRole := request.Role
	if requestedRole == "" {
		requestedRole = role.RegularUser
	}
	if requestedRole == role.Administrator {
		errorHandler(ctx, http.StatusBadRequest, errors.New("cannot register with the Administrator role"))
		return
	}
	exists, err := h.Repository.RoleExists(requestedRole)
	if err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}
	if !exists {
		errorHandler(ctx, http.StatusBadRequest, errors.New("unknown role: "+requestedRole))
		return
	}

	if err := validatePassword(request.Password); err != nil {
		errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	taken, err := h.Repository.UserExistsByUsername(request.Username)
	if err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}
	if taken {
		errorHandler(ctx, http.StatusBadRequest, errors.New("username is already taken"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	user, err := h.Repository.CreateUser(request.Username, string(hash), requestedRole)
	if err != nil {
		logrus.Error("Error creating user: ", err)
		errorHandler(ctx, http.StatusInternalServerError, errors.New("failed to register user"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "user registered successfully",
		"username": user.Username,
	})
}

// Logout выход пользователя из системы
// @Summary Выход из системы
// @Description Токен не отзывается на сервере, клиент удаляет его у себя
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/Account/logout [post]
func (h *AuthHandler) Logout(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "logged out, discard the token on the client",
	})
}

// ChangePassword смена пароля текущего пользователя
// @Summary Смена пароля
// @Tags Account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/Account/changepassword [post]
func (h *AuthHandler) ChangePassword(ctx *gin.Context) {
	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		errorHandler(ctx, http.StatusUnauthorized, errors.New("not authenticated"))
		return
	}

	var request dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	if request.NewPassword != request.ConfirmPassword {
		errorHandler(ctx, http.StatusBadRequest, errors.New("passwords do not match"))
		return
	}

	if err := validatePassword(request.NewPassword); err != nil {
		errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	user, err := h.Repository.GetUserByID(identity.UserID)
	if err != nil {
		errorHandler(ctx, http.StatusUnauthorized, errors.New("user not found"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.CurrentPassword)) != nil {
		errorHandler(ctx, http.StatusBadRequest, errors.New("current password is incorrect"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	if err := h.Repository.UpdatePasswordHash(user.ID, string(hash)); err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "password changed successfully"})
}

// DeleteAccount удаление собственного аккаунта
// @Summary Удаление аккаунта
// @Description Требует повторного ввода пароля. Продукты пользователя удаляются вместе с ним.
// @Tags Account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/Account/deleteaccount [delete]
func (h *AuthHandler) DeleteAccount(ctx *gin.Context) {
	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		errorHandler(ctx, http.StatusUnauthorized, errors.New("not authenticated"))
		return
	}

	var request dto.DeleteAccountRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	user, err := h.Repository.GetUserByID(identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errorHandler(ctx, http.StatusUnauthorized, errors.New("user not found"))
			return
		}
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)) != nil {
		errorHandler(ctx, http.StatusBadRequest, errors.New("password is incorrect"))
		return
	}

	if err := h.Repository.DeleteUser(user.ID); err != nil {
		errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
