package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecoquest-api/internal/middleware"
	"github.com/noah-isme/ecoquest-api/internal/models"
)

var (
	teacherActor = &models.Actor{ID: "teacher-1", FullName: "Tara Teacher", Role: models.RoleTeacher}
	studentActor = &models.Actor{ID: "student-1", FullName: "Sam Student", Role: models.RoleStudent}
	ngoActor     = &models.Actor{ID: "ngo-1", FullName: "Green Earth", Role: models.RoleNGO}
)

type testEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta map[string]interface{} `json:"meta"`
}

// newTestRouter injects actor the way the identity middleware would.
func newTestRouter(actor *models.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ContextActorKey, actor)
		}
		c.Next()
	})
	return r
}

func serve(r http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func serveJSON(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	return serve(r, method, target, reader, "application/json")
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}
