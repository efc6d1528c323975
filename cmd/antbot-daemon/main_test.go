package main

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/antbot-go/internal/adapters/metrics"
	"github.com/andrescamacho/antbot-go/internal/application/scheduler"
	"github.com/andrescamacho/antbot-go/internal/domain/tuning"
	"github.com/andrescamacho/antbot-go/internal/infrastructure/config"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func daemonConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Metrics.Host = "127.0.0.1"
	cfg.Metrics.Port = freePort(t)
	cfg.Metrics.PollInterval = 10 * time.Millisecond
	cfg.Daemon.HealthAddress = "127.0.0.1:0"
	return cfg
}

func enableMetrics(t *testing.T) *metrics.Collectors {
	t.Helper()
	engine := scheduler.NewTurnEngine(tuning.Default())
	collectors, err := metrics.Enable(engine.State)
	require.NoError(t, err)
	t.Cleanup(metrics.Disable)
	return collectors
}

func TestStartServers_HealthFailureStopsMetricsServer(t *testing.T) {
	// Arrange
	cfg := daemonConfig(t)
	cfg.Daemon.HealthAddress = "127.0.0.1:-1"
	collectors := enableMetrics(t)

	// Act
	servers, err := startServers(context.Background(), cfg, collectors)

	// Assert: the error comes back and the metrics port is free again
	require.Error(t, err)
	assert.Nil(t, servers)
	l, listenErr := net.Listen("tcp", net.JoinHostPort(cfg.Metrics.Host, strconv.Itoa(cfg.Metrics.Port)))
	require.NoError(t, listenErr)
	assert.NoError(t, l.Close())
}

func TestStartServers_ShutdownStopsEverything(t *testing.T) {
	// Arrange
	cfg := daemonConfig(t)
	servers, err := startServers(context.Background(), cfg, enableMetrics(t))
	require.NoError(t, err)

	// Act
	done := make(chan error, 1)
	go func() { done <- servers.shutdown(time.Second) }()

	// Assert
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not return")
	}
	assert.Error(t, servers.ctx.Err())
}
