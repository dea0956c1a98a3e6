package api

import (
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	authdomain "lms-backend/internal/auth/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *Handler {
	gin.SetMode(gin.TestMode)
	return NewHandler(&stubAuth{users: map[string]*authdomain.User{}}, nil, nil, nil, stubExam{})
}

func waitServe(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
		return nil
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	h := newTestHandler()
	require.NoError(t, h.Shutdown(testContext(t)))

	done := make(chan error, 1)
	go func() { done <- h.Start("127.0.0.1:0") }()
	assert.NoError(t, waitServe(t, done))
}

func TestShutdownStopsServe(t *testing.T) {
	h := newTestHandler()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- h.Serve(ln) }()

	url := fmt.Sprintf("http://%s/api/health", ln.Addr())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, h.Shutdown(testContext(t)))
	assert.NoError(t, waitServe(t, done))
}
