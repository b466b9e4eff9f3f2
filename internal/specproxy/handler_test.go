package specproxy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := newService(t, "http://127.0.0.1:1", nil) // upstream down: fallback path
	r := chi.NewRouter()
	NewHandler(svc).MountRoutes(r)
	return r
}

func TestLookupBrandsAlwaysAnswers200(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/devicespecs?mode=brands", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, SourceFallback, res.Source)

	var brands []string
	require.NoError(t, json.Unmarshal(res.Data, &brands))
	require.NotEmpty(t, brands)
}

func TestLookupSpecsRequiresBrandAndModel(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/devicespecs?mode=specs&brand=Apple", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/devicespecs?mode=specs&brand=Apple&model=iPhone+13", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLookupUnknownModeRejected(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/devicespecs?mode=firmware", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
