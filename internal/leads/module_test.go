package leads

import (
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "leadconvert/internal/http"
	"leadconvert/platform/httpkit"
	"leadconvert/platform/logger"
	"leadconvert/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// newTestEngine mounts the module's routes behind a stub identity middleware
// carrying the given role.
func newTestEngine(role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	protected := engine.Group("/api")
	protected.Use(func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, uuid.New())
		c.Set(httpkit.ContextRoleKey, role)
	})

	module := NewModule(nil, nil, validator.New(), logger.New("test"))
	module.RegisterRoutes(&apphttp.RouterContext{Engine: engine, Protected: protected})
	return engine
}

func TestDeleteLead_AdminOnly(t *testing.T) {
	for _, role := range []string{"manager", "agent"} {
		engine := newTestEngine(role)

		req := httptest.NewRequest(http.MethodDelete, "/api/leads/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("role %s: expected 403 on lead delete, got %d", role, rec.Code)
		}
	}
}

func TestDeleteLead_UnauthenticatedRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	protected := engine.Group("/api")

	module := NewModule(nil, nil, validator.New(), logger.New("test"))
	module.RegisterRoutes(&apphttp.RouterContext{Engine: engine, Protected: protected})

	req := httptest.NewRequest(http.MethodDelete, "/api/leads/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without an identity, got %d", rec.Code)
	}
}
