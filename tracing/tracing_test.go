package tracing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitNoop(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	shutdown, err := Init(context.Background(), Config{ServiceName: "test"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spans.json")

	ctx := context.Background()
	shutdown, err := Init(ctx, Config{ServiceName: "test", File: path})
	require.NoError(t, err)

	_, span := Tracer("tracing-test").Start(ctx, "test-span")
	span.End()

	require.NoError(t, shutdown(ctx))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "test-span")
}
