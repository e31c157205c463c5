package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"legalaid-backend/models"
	"legalaid-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	users map[string]*models.User
	err   error
}

func (f fakeAuth) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, service.ErrInvalidToken
}

func newRouter(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireAuth(auth, nil), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Username)
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "asha", IsActive: true}
	r := newRouter(fakeAuth{users: map[string]*models.User{"good": user}})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "ok", header: "Bearer good", status: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "asha", w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
			}
		})
	}
}

func TestRequireAuthInactiveAndFailure(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer x")
	newRouter(fakeAuth{err: service.ErrInactiveUser}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	newRouter(fakeAuth{err: errors.New("db down")}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type recorded struct {
	method, route string
	status        int
}

type fakeRecorder struct{ seen []recorded }

func (f *fakeRecorder) ObserveHTTP(method, route string, status int, d time.Duration) {
	f.seen = append(f.seen, recorded{method, route, status})
}

func TestObserveUsesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &fakeRecorder{}
	r := gin.New()
	r.Use(Observe(nil, rec))
	r.GET("/api/cases/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/cases/123", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Len(t, rec.seen, 2)
	assert.Equal(t, recorded{"GET", "/api/cases/:id", http.StatusNotFound}, rec.seen[0])
	assert.Equal(t, "unmatched", rec.seen[1].route)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
