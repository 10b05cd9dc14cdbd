package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_DisabledIsNoop(t *testing.T) {
	cases := map[string]Config{
		"disabled":         {ServiceName: "expense-web", OTLPEndpoint: "localhost:4318"},
		"enabled, no sink": {ServiceName: "expense-web", Enabled: true},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			p, err := Init(context.Background(), cfg)
			require.NoError(t, err)
			assert.False(t, p.Enabled())
			assert.NotNil(t, p.Tracer())
			assert.NoError(t, p.Shutdown(context.Background()))
		})
	}
}

func TestStartSpan_WithoutProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "funds")
	defer span.End()

	assert.NotNil(t, ctx)
	assert.False(t, span.SpanContext().IsSampled())
}
