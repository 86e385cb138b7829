package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medstock_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func setupAuthTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		hospitalID := c.GetInt64("hospitalID")
		c.JSON(http.StatusOK, gin.H{"hospital_id": hospitalID})
	})
	return engine
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	utils.InitJWT("middleware-test-secret", time.Hour)
	engine := setupAuthTestEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	utils.InitJWT("middleware-test-secret", time.Hour)
	engine := setupAuthTestEngine()

	for _, header := range []string{"Basic abc123", "Bearer", "Bearer a b"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	utils.InitJWT("middleware-test-secret", time.Hour)
	engine := setupAuthTestEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	utils.InitJWT("middleware-test-secret", time.Hour)
	engine := setupAuthTestEngine()

	token, err := utils.GenerateToken(7, "clinic@example.test")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); body != `{"hospital_id":7}` {
		t.Fatalf("unexpected body: %s", body)
	}
}
