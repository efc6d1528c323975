package grpc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	daemongrpc "github.com/andrescamacho/antbot-go/internal/adapters/grpc"
)

func TestHealthServer_ReportsServingStatus(t *testing.T) {
	// Arrange
	server, err := daemongrpc.NewHealthServer("127.0.0.1:0")
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() { served <- server.Serve() }()

	client, err := daemongrpc.NewHealthClient(server.Addr())
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Act & Assert: starts not serving
	status, err := client.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, "NOT_SERVING", status)

	server.SetServing(true)
	status, err = client.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SERVING", status)

	raw, err := client.CheckJSON(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"SERVING"}`, string(raw))

	// Act: shut down
	server.Stop(ctx)

	// Assert
	assert.NoError(t, <-served)
}

func TestNewHealthServer_BadAddress(t *testing.T) {
	_, err := daemongrpc.NewHealthServer("not-an-address")
	assert.Error(t, err)
}
