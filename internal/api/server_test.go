package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/arenarium/mapmarkers/internal/api"
	"github.com/arenarium/mapmarkers/internal/coordinator/mocks"
	"github.com/arenarium/mapmarkers/internal/engine/headless"
	"github.com/arenarium/mapmarkers/internal/marker"
	"github.com/arenarium/mapmarkers/internal/selection"
)

func newServer(t *testing.T, opts ...api.ServerOption) (http.Handler, *mocks.MockCoordinator) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockCoord := mocks.NewMockCoordinator(ctrl)
	return api.NewServer(mockCoord, headless.New(), opts...), mockCoord
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	server, _ := newServer(t)

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"healthy"}`, rr.Body.String())
}

func TestReadinessEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		gen     marker.Generation
		markers []marker.Marker
		want    string
	}{
		{
			name: "before the first update",
			want: `{"status":"ready","generation":0,"markers":0}`,
		},
		{
			name:    "with a drawn generation",
			gen:     3,
			markers: []marker.Marker{{ID: "0"}, {ID: "1"}},
			want:    `{"status":"ready","generation":3,"markers":2}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server, mockCoord := newServer(t)
			mockCoord.EXPECT().Markers().Return(tt.gen, tt.markers)

			req, err := http.NewRequest("GET", "/readiness", nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			server.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, tt.want, rr.Body.String())
		})
	}
}

func TestVersionEndpoint(t *testing.T) {
	t.Parallel()

	server, _ := newServer(t)

	req, err := http.NewRequest("GET", "/version", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response api.VersionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Version)
	assert.NotEmpty(t, response.GoVersion)
	assert.NotEmpty(t, response.Platform)
}

func TestV1Mounted(t *testing.T) {
	t.Parallel()

	server, mockCoord := newServer(t)
	mockCoord.EXPECT().Selection().Return(selection.Shown("7"))

	req, err := http.NewRequest("GET", "/v1/selection", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"shown":true,"markerId":"7"}`, rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("not registered without a handler", func(t *testing.T) {
		t.Parallel()

		server, _ := newServer(t, api.WithMetricsHandler(nil))

		req, err := http.NewRequest("GET", "/metrics", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("served when configured", func(t *testing.T) {
		t.Parallel()

		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		})
		server, _ := newServer(t, api.WithMetricsHandler(handler))

		req, err := http.NewRequest("GET", "/metrics", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "# metrics", rr.Body.String())
	})
}

func TestWithMiddlewares(t *testing.T) {
	t.Parallel()

	var calls int
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Header().Set("X-Test", "applied")
			next.ServeHTTP(w, r)
		})
	}

	server, _ := newServer(t, api.WithMiddlewares(mw, api.LoggingMiddleware))

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "applied", rr.Header().Get("X-Test"))
	assert.Equal(t, 1, calls)
}
