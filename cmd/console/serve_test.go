package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/intellibridge-console/internal/infra"
)

func loadTestConfig(t *testing.T, body string) *infra.Config {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(body), 0o600))

	cfg, err := infra.LoadConfig(file)
	require.NoError(t, err)
	return cfg
}

func TestServeWithDisabledListeners(t *testing.T) {
	cfg := loadTestConfig(t, `
server:
  addr: "127.0.0.1:0"
  shutdown_timeout: 1s
metrics:
  addr: ""
grpc:
  addr: ""
`)
	require.Empty(t, cfg.Metrics.Addr)
	require.Empty(t, cfg.GRPC.Addr)

	assert.Nil(t, newMetricsServer(cfg.Metrics.Addr, prometheus.NewRegistry()))

	hl, err := newHealthListener(cfg.GRPC.Addr)
	require.NoError(t, err)
	assert.Nil(t, hl)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	assert.NoError(t, serve(ctx, cfg, zap.NewNop()))
}

func TestListenersEnabled(t *testing.T) {
	srv := newMetricsServer("127.0.0.1:0", prometheus.NewRegistry())
	require.NotNil(t, srv)
	assert.Equal(t, "127.0.0.1:0", srv.Addr)

	hl, err := newHealthListener("127.0.0.1:0")
	require.NoError(t, err)
	require.NotNil(t, hl)
	assert.NotEmpty(t, hl.lis.Addr().String())
	require.NoError(t, hl.lis.Close())
}
