package profiler_test

import (
	"context"
	"testing"

	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/lisp/x/profiler"
	"github.com/luthersystems/rlisp/lisptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestTracerProvider(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)
	return exporter
}

func spanNames(spans tracetest.SpanStubs) []string {
	names := make([]string, len(spans))
	for i, s := range spans {
		names[i] = s.Name
	}
	return names
}

func TestNewOpenTelemetryAnnotator(t *testing.T) {
	exporter := newTestTracerProvider(t)

	env, logger, err := lisptest.NewEnv(t)
	require.NoError(t, err)
	defer logger.Flush()
	ppa := profiler.NewOpenTelemetryAnnotator(env.Runtime, context.Background())
	require.NoError(t, ppa.Enable())
	assert.True(t, ppa.IsEnabled())
	assert.Error(t, ppa.Enable(), "enabled twice")
	runTestLisp(t, env)
	assert.NoError(t, ppa.Complete())

	spans := exporter.GetSpans()
	assert.Equal(t, []string{"defun", "defun", "mul", "square", "mul", "square", "add", "sumsq"}, spanNames(spans))

	sumsq := spans[7]
	assert.False(t, sumsq.Parent.IsValid())
	assert.Equal(t, sumsq.SpanContext.SpanID(), spans[6].Parent.SpanID())
	assert.Equal(t, spans[3].SpanContext.SpanID(), spans[2].Parent.SpanID())

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range sumsq.Attributes {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "sumsq", attrs["code.function"].AsString())
	assert.Equal(t, "user", attrs["code.namespace"].AsString())
	assert.Equal(t, "test.lisp", attrs["code.filepath"].AsString())
	assert.Equal(t, int64(3), attrs["code.lineno"].AsInt64())
	assert.Equal(t, int64(2), attrs["code.column"].AsInt64())
}

func TestNewOpenTelemetryAnnotatorSkip(t *testing.T) {
	exporter := newTestTracerProvider(t)

	env, logger, err := lisptest.NewEnv(t)
	require.NoError(t, err)
	defer logger.Flush()
	ppa := profiler.NewOpenTelemetryAnnotator(env.Runtime, context.Background(),
		profiler.WithUserFunctionFilter(),
		profiler.WithSourceLabeler())
	require.NoError(t, lisp.InitializeUserEnv(env, lisp.WithProfiler(ppa)))
	runTestLisp(t, env)
	assert.NoError(t, ppa.Complete())

	spans := exporter.GetSpans()
	assert.Equal(t, []string{"square@test.lisp:2", "square@test.lisp:2", "sumsq@test.lisp:3"}, spanNames(spans))
	assert.Equal(t, spans[2].SpanContext.SpanID(), spans[0].Parent.SpanID())
}

func TestNewOpenTelemetryAnnotatorSymbols(t *testing.T) {
	exporter := newTestTracerProvider(t)

	env, logger, err := lisptest.NewEnv(t)
	require.NoError(t, err)
	defer logger.Flush()
	ppa := profiler.NewOpenTelemetryAnnotator(env.Runtime, context.Background(),
		profiler.WithFunctionFilter("square", "*"),
		profiler.WithSymbolLabeler())
	require.NoError(t, ppa.Enable())
	runTestLisp(t, env)
	assert.NoError(t, ppa.Complete())

	assert.Equal(t, []string{"*", "square", "*", "square"}, spanNames(exporter.GetSpans()))
}

func TestOpenTelemetryAnnotatorRequiresContext(t *testing.T) {
	env := lisp.NewEnv(nil)
	//nolint:staticcheck // a nil context is the failure under test
	ppa := profiler.NewOpenTelemetryAnnotator(env.Runtime, nil)
	assert.Error(t, ppa.Enable())
}
