package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/techmarket/pkg/logging"
)

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddCaller)
	assert.NotNil(t, cfg.Fields)
}

func TestNewLoggerFromConfig(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	tests := []struct {
		name     string
		cfg      *logging.Config
		contains []string
		excludes []string
	}{
		{
			name:     "json at warn drops info",
			cfg:      &logging.Config{Level: "warn", Format: "json"},
			contains: []string{`"level":"warn"`, "warn line"},
			excludes: []string{"info line"},
		},
		{
			name:     "console uses short level names",
			cfg:      &logging.Config{Level: "info", Format: "console", NoColor: true},
			contains: []string{"INF", "info line"},
		},
		{
			name: "default fields are attached",
			cfg: &logging.Config{
				Level:  "info",
				Format: "json",
				Fields: map[string]any{"service": "techmarket", "replica": 2},
			},
			contains: []string{`"service":"techmarket"`, `"replica":2`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.log")
			tt.cfg.Output = path

			logger := logging.NewLoggerFromConfig(tt.cfg)
			logger.Info().Msg("info line")
			logger.Warn().Msg("warn line")

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, string(content), want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, string(content), unwanted)
			}
		})
	}
}

func TestContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := logging.WithLogger(context.Background(), &base)
	ctx = logging.WithEntity(ctx, "device", 17718)
	ctx = logging.WithRelation(ctx, "add_ons")
	ctx = logging.WithOperation(ctx, "sell")

	logging.FromContext(ctx).Info().Msg("form loaded")

	out := buf.String()
	for _, want := range []string{
		`"entity":"device"`,
		`"entity_id":17718`,
		`"relation":"add_ons"`,
		`"operation":"sell"`,
		"form loaded",
	} {
		assert.Contains(t, out, want)
	}
}

func TestContextFieldsDoNotLeakToParent(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	parent := logging.WithLogger(context.Background(), &base)
	_ = logging.WithOperation(parent, "sync")

	logging.FromContext(parent).Info().Msg("plain")
	assert.NotContains(t, buf.String(), "operation")
}

func TestWithDefaultLogger(t *testing.T) {
	var reqBuf, svcBuf bytes.Buffer
	reqLogger := zerolog.New(&reqBuf)
	svcLogger := zerolog.New(&svcBuf)

	ctx := logging.WithDefaultLogger(context.Background(), &svcLogger)
	logging.FromContext(ctx).Info().Msg("to service")
	assert.Contains(t, svcBuf.String(), "to service")

	ctx = logging.WithLogger(context.Background(), &reqLogger)
	ctx = logging.WithDefaultLogger(ctx, &svcLogger)
	logging.FromContext(ctx).Info().Msg("to request")
	assert.Contains(t, reqBuf.String(), "to request")
	assert.NotContains(t, svcBuf.String(), "to request")
}

func TestRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := logging.WithLogger(context.Background(), &base)
	ctx = logging.WithRequestID(ctx, "req-42")

	assert.Equal(t, "req-42", logging.RequestID(ctx))
	assert.Empty(t, logging.RequestID(context.Background()))

	logging.FromContext(ctx).Info().Msg("handled")
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck
	assert.Same(t, logging.Default(), logging.FromContext(nil))
	assert.Same(t, logging.Default(), logging.FromContext(logging.WithLogger(context.Background(), nil)))
}

func TestSetDefault(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	var buf bytes.Buffer
	logging.SetDefault(zerolog.New(&buf))
	logging.FromContext(context.Background()).Warn().Msg("through default")

	assert.Contains(t, buf.String(), "through default")
}

func TestNewNopLogger(t *testing.T) {
	logger := logging.NewNopLogger()
	require.NotNil(t, logger)
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}
