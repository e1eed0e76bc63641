package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/internal/app/config"
	"backend/internal/app/ds"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:        "test-secret",
			Issuer:        "food-catalog",
			Audience:      "food-catalog-client",
			ExpiresIn:     time.Hour,
			SigningMethod: jwt.SigningMethodHS256,
		},
	}
}

func signToken(t *testing.T, cfg *config.Config, ttl time.Duration, roles ...string) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(cfg.JWT.SigningMethod, ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   "tester",
			Id:        "test-jti",
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    cfg.JWT.Issuer,
			Audience:  cfg.JWT.Audience,
		},
		UserID: 42,
		Roles:  roles,
	})
	signed, err := token.SignedString([]byte(cfg.JWT.Secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func newTestRouter(cfg *config.Config, requiredRoles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(cfg)
	router := gin.New()
	router.GET("/protected", am.WithAuthCheck(requiredRoles...), func(c *gin.Context) {
		identity, _ := IdentityFromContext(c)
		c.JSON(http.StatusOK, gin.H{"username": identity.Username, "userId": identity.UserID})
	})
	return router
}

func requestWithToken(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestWithAuthCheckNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	if resp := requestWithToken(router, ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestWithAuthCheckValidToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := signToken(t, cfg, time.Hour, role.RegularUser)

	resp := requestWithToken(router, token)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestWithAuthCheckExpiredToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := signToken(t, cfg, -time.Minute, role.RegularUser)

	if resp := requestWithToken(router, token); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", resp.Code)
	}
}

func TestWithAuthCheckWrongSecret(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	other := testConfig()
	other.JWT.Secret = "other-secret"
	token := signToken(t, other, time.Hour, role.RegularUser)

	if resp := requestWithToken(router, token); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for foreign signature, got %d", resp.Code)
	}
}

func TestWithAuthCheckWrongIssuer(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	other := testConfig()
	other.JWT.Issuer = "someone-else"
	token := signToken(t, other, time.Hour, role.RegularUser)

	if resp := requestWithToken(router, token); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong issuer, got %d", resp.Code)
	}
}

func TestWithAuthCheckRoleGate(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, role.Administrator)

	userToken := signToken(t, cfg, time.Hour, role.RegularUser)
	if resp := requestWithToken(router, userToken); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for missing role, got %d", resp.Code)
	}

	adminToken := signToken(t, cfg, time.Hour, role.RegularUser, role.Administrator)
	if resp := requestWithToken(router, adminToken); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", resp.Code)
	}
}

func TestIdentityFromContextRoles(t *testing.T) {
	identity := ds.Identity{UserID: 1, Username: "x", Roles: []string{role.FoodProducer}}
	if !identity.HasRole(role.FoodProducer) {
		t.Fatal("expected HasRole(FoodProducer)")
	}
	if identity.HasRole(role.Administrator) {
		t.Fatal("did not expect Administrator")
	}
}
