package profiler_test

import (
	"context"
	"testing"

	"github.com/luthersystems/rlisp/lisp/x/profiler"
	"github.com/luthersystems/rlisp/lisptest"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
)

func TestLoggingTracerProvider(t *testing.T) {
	log, hook := test.NewNullLogger()
	tp := profiler.NewLoggingTracerProvider(log)
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		assert.NoError(t, tp.Shutdown(context.Background()))
	})

	env, logger, err := lisptest.NewEnv(t)
	require.NoError(t, err)
	defer logger.Flush()
	ppa := profiler.NewOpenTelemetryAnnotator(env.Runtime, context.Background(), profiler.WithUserFunctionFilter())
	require.NoError(t, ppa.Enable())
	runTestLisp(t, env)
	require.NoError(t, ppa.Complete())

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, "span", e.Message)
		assert.Equal(t, logrus.InfoLevel, e.Level)
		assert.NotEmpty(t, e.Data["trace_id"])
		assert.NotEmpty(t, e.Data["duration"])
	}
	assert.Equal(t, "square", entries[0].Data["span"])
	assert.Equal(t, "test.lisp", entries[0].Data["code.filepath"])
	assert.Contains(t, entries[0].Data, "parent_id")
	assert.Equal(t, "sumsq", entries[2].Data["span"])
	assert.NotContains(t, entries[2].Data, "parent_id")
}

func TestLogExporterLevel(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	exporter := &profiler.LogExporter{Logger: log, Level: logrus.DebugLevel}
	require.NoError(t, exporter.ExportSpans(context.Background(), nil))
	assert.Empty(t, hook.AllEntries())
	assert.NoError(t, exporter.Shutdown(context.Background()))
}

func TestCensusLogExporter(t *testing.T) {
	log, hook := test.NewNullLogger()
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	exporter := &profiler.CensusLogExporter{Logger: log}
	trace.RegisterExporter(exporter)
	defer trace.UnregisterExporter(exporter)

	env, logger, err := lisptest.NewEnv(t)
	require.NoError(t, err)
	defer logger.Flush()
	ppa := profiler.NewOpenCensusAnnotator(env.Runtime, context.Background(), profiler.WithUserFunctionFilter())
	require.NoError(t, ppa.Enable())
	runTestLisp(t, env)
	require.NoError(t, ppa.Complete())

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, "span", entries[0].Message)
	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, "square", entries[0].Data["span"])
	assert.Equal(t, "test.lisp", entries[0].Data["file"])
	assert.Equal(t, int64(2), entries[0].Data["line"])
	assert.Contains(t, entries[0].Data, "parent_id")
	assert.Equal(t, "sumsq", entries[2].Data["span"])
	assert.NotContains(t, entries[2].Data, "parent_id")
}
