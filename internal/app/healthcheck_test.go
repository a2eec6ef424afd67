package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	a, _, _ := SetupAppTest(t, Config{InputPath: "s.csv"})

	rec := httptest.NewRecorder()
	a.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())
}

func TestHealthCheckServer_Lifecycle(t *testing.T) {
	// Arrange
	a, _, logs := SetupAppTest(t, Config{InputPath: "s.csv"})
	ctx := context.Background()

	// Act
	require.NoError(t, a.startHealthCheckServer(ctx, "127.0.0.1:0"))
	resp, err := http.Get("http://" + a.healthAddr + "/health")

	// Assert
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK\n", string(body))

	require.NoError(t, a.closeHealthCheckServer(ctx))
	require.NoError(t, a.closeHealthCheckServer(ctx), "closing twice is a no-op")
	assert.Contains(t, logs.String(), "Health check endpoint hit.")
}
