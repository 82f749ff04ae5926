package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/MKhiriev/ubuntu-pools/internal/config"
	"github.com/MKhiriev/ubuntu-pools/internal/handler"
	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandlers(t *testing.T, address string) *handler.Handlers {
	t.Helper()
	h, err := handler.NewHandlers(nil, config.ClientCallback{Address: address}, logger.Nop())
	require.NoError(t, err)
	return h
}

func TestNewServer_NoHandlers(t *testing.T) {
	s, err := NewServer(nil, config.ClientCallback{Address: "127.0.0.1:0"}, logger.Nop())

	assert.ErrorIs(t, err, errNoCallbackServer)
	assert.Nil(t, s)
}

func TestNewServer_NoAddress(t *testing.T) {
	s, err := NewServer(testHandlers(t, "127.0.0.1:0"), config.ClientCallback{}, logger.Nop())

	assert.ErrorIs(t, err, errNoCallbackServer)
	assert.Nil(t, s)
}

func TestRunServer_StopsOnContextCancel(t *testing.T) {
	cfg := config.ClientCallback{Address: "127.0.0.1:0"}
	s, err := NewServer(testHandlers(t, cfg.Address), cfg, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.RunServer(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunServer_AddressInUse(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := config.ClientCallback{Address: l.Addr().String()}
	s, err := NewServer(testHandlers(t, cfg.Address), cfg, logger.Nop())
	require.NoError(t, err)

	err = s.RunServer(context.Background())
	assert.Error(t, err)
}
