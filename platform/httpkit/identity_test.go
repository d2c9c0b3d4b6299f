package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestGetIdentityUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, ok := GetIdentity(c); ok {
		t.Fatal("expected no identity on a bare context")
	}
}

func TestGetIdentityReturnsUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	userID := uuid.New()
	c.Set(ContextUserIDKey, userID)

	id, ok := GetIdentity(c)
	if !ok {
		t.Fatal("expected an identity")
	}
	if id.UserID != userID {
		t.Errorf("UserID = %s, want %s", id.UserID, userID)
	}
}

func TestGetIdentityRejectsWrongType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(ContextUserIDKey, "not-a-uuid")

	if _, ok := GetIdentity(c); ok {
		t.Fatal("expected no identity when the context value is not a uuid")
	}
}

func TestMustGetIdentityAbortsUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	if _, ok := MustGetIdentity(c); ok {
		t.Fatal("expected no identity")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
