package server_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailform/internal/server"
)

func TestApp_Run(t *testing.T) {
	t.Parallel()

	app := server.New(server.WithHealthChecks())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan net.Addr, 1)
	hookErr := errors.New("flush failed")
	var hooks []string

	done := make(chan error, 1)
	go func() {
		done <- app.Run("127.0.0.1:0",
			server.WithContext(ctx),
			server.ShutdownTimeout(2*time.Second),
			server.OnReady(func(a net.Addr) { addrCh <- a }),
			server.ShutdownHook(func(context.Context) error {
				hooks = append(hooks, "first")
				return hookErr
			}),
			server.ShutdownHook(func(context.Context) error {
				hooks = append(hooks, "second")
				return nil
			}),
		)
	}()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case err := <-done:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr.String() + "/health/live")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, hookErr)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Equal(t, []string{"first", "second"}, hooks)
}

func TestApp_RunListenError(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	err = server.New().Run(ln.Addr().String(), server.WithContext(context.Background()))
	require.Error(t, err)
}
