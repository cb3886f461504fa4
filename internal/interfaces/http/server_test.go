package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DPR-Intelligence/internal/config"
	"github.com/turtacn/DPR-Intelligence/internal/testutil"
)

func TestNewServer(t *testing.T) {
	t.Parallel()
	s := NewServer(config.ServerConfig{Port: 8080, ReadTimeout: time.Second}, http.NewServeMux(), nil)
	assert.Equal(t, ":8080", s.Addr())
	assert.Equal(t, defaultShutdownTimeout, s.shutdownTimeout)
	assert.Equal(t, time.Second, s.httpServer.ReadTimeout)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })

	log := testutil.NewMockLogger()
	s := NewServer(config.ServerConfig{Port: 1, ShutdownTimeout: 2 * time.Second}, mux, log)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	require.NoError(t, s.Shutdown(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
	assert.True(t, log.HasMessage("info", "HTTP server stopped"))
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	t.Parallel()
	s := NewServer(config.ServerConfig{Port: 0}, http.NewServeMux(), nil)
	assert.NoError(t, s.Shutdown(context.Background()))
}

//Personal.AI order the ending
