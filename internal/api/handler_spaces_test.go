package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/tushy123/minyan-now/internal/model"
)

// Requests below fail binding or tefillah validation, so the handler never
// reaches its dependencies and nil ones are safe.
func setupSpaceRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(nil, nil, nil, nil, nil)
	r.POST("/api/spaces", handler.PostSpace)
	r.POST("/api/spaces/:space_id/join", handler.PostJoin)
	r.POST("/api/spaces/:space_id/cancel", handler.PostCancelSpace)
	return r
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestPostSpace_BadRequests(t *testing.T) {
	router := setupSpaceRouter()

	testCases := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"missing coordinates", `{"tefillah":"mincha","start_time":"2026-09-01T16:30:00Z","host_id":"6f1f64a0-3c71-4e9b-9210-91f4f2a14d10"}`},
		{"host id not a uuid", `{"tefillah":"mincha","start_time":"2026-09-01T16:30:00Z","lat":31.7,"lng":35.2,"host_id":"host-1"}`},
		{"unknown tefillah", `{"tefillah":"neilah","start_time":"2026-09-01T16:30:00Z","lat":31.7,"lng":35.2,"host_id":"6f1f64a0-3c71-4e9b-9210-91f4f2a14d10"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(router, "/api/spaces", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestPostJoin_BadRequests(t *testing.T) {
	router := setupSpaceRouter()

	w := postJSON(router, "/api/spaces/abc/join", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(router, "/api/spaces/abc/join", `{"user_id":"not-a-uuid"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostCancelSpace_RequiresHostID(t *testing.T) {
	router := setupSpaceRouter()

	w := postJSON(router, "/api/spaces/abc/cancel", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTefillahFromParam(t *testing.T) {
	assert.Equal(t, model.TefillahShacharis, tefillahFromParam("shacharis"))
	assert.Equal(t, model.TefillahMincha, tefillahFromParam("MINCHA"))
	assert.Equal(t, model.TefillahMaariv, tefillahFromParam("Maariv"))
	assert.Equal(t, model.Tefillah(""), tefillahFromParam("neilah"))
}
