package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupWithoutExporters(t *testing.T) {
	ctx := context.Background()
	tel, err := Setup(ctx, "test:telemetry", Config{})
	require.NoError(t, err)
	require.NotNil(t, tel.TracerProvider)
	require.NotNil(t, tel.MeterProvider)

	_, span := tel.TracerProvider.Tracer("test").Start(ctx, "span")
	span.End()

	require.NoError(t, tel.Shutdown(ctx))
}

func TestShutdownEmpty(t *testing.T) {
	require.NoError(t, Telemetry{}.Shutdown(context.Background()))
}
