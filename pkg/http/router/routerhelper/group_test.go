package routerhelper

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestRouteGroup(t *testing.T) {
	router := httprouter.New()
	api := NewRouteGroup(router, "/api")
	v1 := api.Group("/v1")

	var hit string
	api.GET("/health", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		hit = "health"
	})
	v1.POST("/routes", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		hit = "routes"
	})

	tests := []struct {
		method string
		target string
		want   string
		status int
	}{
		{http.MethodGet, "/api/health", "health", http.StatusOK},
		{http.MethodPost, "/api/v1/routes", "routes", http.StatusOK},
		{http.MethodGet, "/health", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		hit = ""
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))
		assert.Equal(t, tt.status, rec.Code, tt.target)
		assert.Equal(t, tt.want, hit, tt.target)
	}
}
