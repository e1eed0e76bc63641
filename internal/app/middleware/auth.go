package middleware

import (
	"errors"
	"strings"

	"backend/internal/app/config"
	"backend/internal/app/ds"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const identityKey = "identity"

type AuthMiddleware struct {
	Config *config.Config
}

func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		Config: cfg,
	}
}

// WithAuthCheck middleware для проверки авторизации с ролями.
// Без аргументов пропускает любого аутентифицированного пользователя.
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...string) gin.HandlerFunc {
	return gin.HandlerFunc(func(gCtx *gin.Context) {
		jwtStr := gCtx.GetHeader("Authorization")
		if jwtStr == "" {
			gCtx.AbortWithStatusJSON(401, gin.H{"message": "authorization header missing"})
			return
		}

		// Убираем префикс "Bearer " если он есть
		jwtStr = strings.TrimPrefix(jwtStr, "Bearer ")

		claims, err := am.ParseToken(jwtStr)
		if err != nil {
			gCtx.AbortWithStatusJSON(401, gin.H{"message": "invalid or expired token"})
			return
		}

		// Проверяем роли пользователя
		if len(assignedRoles) > 0 && !hasRequiredRole(claims.Roles, assignedRoles) {
			gCtx.AbortWithStatusJSON(403, gin.H{"message": "insufficient permissions"})
			return
		}

		// Identity формируется ровно один раз и дальше передаётся явно
		gCtx.Set(identityKey, ds.Identity{
			UserID:   claims.UserID,
			Username: claims.Subject,
			Roles:    claims.Roles,
		})

		gCtx.Next()
	})
}

// ParseToken парсит и валидирует JWT токен
func (am *AuthMiddleware) ParseToken(tokenString string) (*ds.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != am.Config.JWT.SigningMethod {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(am.Config.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Issuer != am.Config.JWT.Issuer || claims.Audience != am.Config.JWT.Audience {
		return nil, errors.New("invalid token issuer or audience")
	}
	return claims, nil
}

// IdentityFromContext извлекает проверенного пользователя из контекста запроса
func IdentityFromContext(c *gin.Context) (ds.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return ds.Identity{}, false
	}
	identity, ok := value.(ds.Identity)
	return identity, ok
}

func hasRequiredRole(userRoles, requiredRoles []string) bool {
	for _, required := range requiredRoles {
		for _, userRole := range userRoles {
			if userRole == required {
				return true
			}
		}
	}
	return false
}
