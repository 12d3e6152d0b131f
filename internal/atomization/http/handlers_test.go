package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	atomhttp "github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/http"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/repository"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/service"
)

const dimerYAML = "name: dimer\nreactions:\n  - {reactants: [A, B], products: [C], classification: Binding}\n"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	svc := service.NewRunService(repository.NewRunRepository(client, time.Hour), nil, service.Options{})
	r := gin.New()
	atomhttp.New(svc, nil).Register(r.Group("/api/v1/atomizer"))
	return r
}

func do(r *gin.Engine, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createRun(t *testing.T, r *gin.Engine, body []byte, contentType string) string {
	t.Helper()
	w := do(r, http.MethodPost, "/api/v1/atomizer/runs", body, contentType)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Run struct {
			RunID   string `json:"run_id"`
			Network string `json:"network"`
		} `json:"run"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "dimer", resp.Run.Network)
	require.NotEmpty(t, resp.Run.RunID)
	return resp.Run.RunID
}

func TestCreateRun(t *testing.T) {
	r := setupRouter(t)

	t.Run("raw yaml", func(t *testing.T) {
		createRun(t, r, []byte(dimerYAML), "application/x-yaml")
	})

	t.Run("wrapped yaml", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"network_yaml": dimerYAML})
		createRun(t, r, body, "application/json")
	})

	t.Run("json document", func(t *testing.T) {
		body := `{"name":"dimer","reactions":[{"reactants":["A","B"],"products":["C"],"classification":"Binding"}]}`
		createRun(t, r, []byte(body), "application/json")
	})

	t.Run("invalid network", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/v1/atomizer/runs", []byte("name: empty\n"), "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid network")
	})

	t.Run("malformed document", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/v1/atomizer/runs", []byte("species: [A"), "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/v1/atomizer/runs", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oversized document", func(t *testing.T) {
		// The first reaction alone still parses if the body gets cut short.
		doc := dimerYAML + "# " + strings.Repeat("x", 4<<20) + "\n" +
			"  - {reactants: [C, E], products: [F], classification: Binding}\n"
		w := do(r, http.MethodPost, "/api/v1/atomizer/runs", []byte(doc), "application/x-yaml")
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "exceeds")
		assert.NotContains(t, w.Body.String(), "run_id")
	})
}

func TestRunLifecycle(t *testing.T) {
	r := setupRouter(t)
	id := createRun(t, r, []byte(dimerYAML), "")

	w := do(r, http.MethodGet, "/api/v1/atomizer/runs/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"completed"`)
	assert.Contains(t, w.Body.String(), "A(b!1).B(a!1)")

	w = do(r, http.MethodGet, "/api/v1/atomizer/runs?limit=5", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), id))

	w = do(r, http.MethodGet, "/api/v1/atomizer/runs/"+id+"/summary", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code, "no summary store configured")

	w = do(r, http.MethodDelete, "/api/v1/atomizer/runs/"+id, nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/api/v1/atomizer/runs/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(r, http.MethodDelete, "/api/v1/atomizer/runs/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
