package ds

import (
	"github.com/golang-jwt/jwt"
)

type JWTClaims struct {
	jwt.StandardClaims
	UserID uint     `json:"user_id"`
	Roles  []string `json:"roles"`
}

// Identity — проверенные данные пользователя из токена. Формируется
// один раз в middleware и передаётся в обработчики явным параметром.
type Identity struct {
	UserID   uint
	Username string
	Roles    []string
}

// HasRole проверяет наличие роли в токене
func (i Identity) HasRole(name string) bool {
	for _, r := range i.Roles {
		if r == name {
			return true
		}
	}
	return false
}
