package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskhub/backend/internal/config"
	"taskhub/backend/internal/middleware"
	"taskhub/backend/internal/models"
	"taskhub/backend/internal/services"
)

func setupAuthnRouter(t *testing.T) (*gin.Engine, *services.TokenCodec, *gorm.DB, models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	user := models.User{Email: "alice@example.com", PasswordHash: "x", FullName: "Alice"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	codec := services.NewTokenCodec(config.AuthConfig{
		JWTSecret:      "test-secret",
		Issuer:         "taskhub-backend",
		AccessTokenTTL: time.Hour,
	})
	resolver := services.NewSessionResolver(db, codec)

	router := gin.New()
	router.Use(middleware.AuthnMiddleware(resolver))
	router.GET("/protected", func(c *gin.Context) {
		current, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": current.Email})
	})

	return router, codec, db, user
}

func TestAuthnMiddleware_NoHeader(t *testing.T) {
	router, _, _, _ := setupAuthnRouter(t)

	req, _ := http.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthnMiddleware_WrongScheme(t *testing.T) {
	router, _, _, _ := setupAuthnRouter(t)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthnMiddleware_ValidToken(t *testing.T) {
	router, codec, _, user := setupAuthnRouter(t)

	token, err := codec.Issue(user.ID, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
}

func TestAuthnMiddleware_ExpiredToken(t *testing.T) {
	router, codec, _, user := setupAuthnRouter(t)

	token, err := codec.Issue(user.ID, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthnMiddleware_MalformedToken(t *testing.T) {
	router, _, _, _ := setupAuthnRouter(t)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthnMiddleware_DeletedUser(t *testing.T) {
	router, codec, db, user := setupAuthnRouter(t)

	token, err := codec.Issue(user.ID, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	if err := db.Delete(&user).Error; err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}
