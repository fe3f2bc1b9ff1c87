package profiler

import (
	"context"

	"github.com/sirupsen/logrus"
	octrace "go.opencensus.io/trace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogExporter is an opentelemetry span exporter which writes each finished
// span as a structured log entry.
type LogExporter struct {
	Logger logrus.FieldLogger
	Level  logrus.Level
}

var _ sdktrace.SpanExporter = &LogExporter{}

// NewLoggingTracerProvider returns a TracerProvider which samples every span
// and logs it through logger at info level.
func NewLoggingTracerProvider(logger logrus.FieldLogger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(&LogExporter{Logger: logger, Level: logrus.InfoLevel}),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
}

func (e *LogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		if err := ctx.Err(); err != nil {
			return err
		}
		fields := logrus.Fields{
			"span":     s.Name(),
			"trace_id": s.SpanContext().TraceID().String(),
			"span_id":  s.SpanContext().SpanID().String(),
			"duration": s.EndTime().Sub(s.StartTime()).String(),
		}
		if parent := s.Parent(); parent.IsValid() {
			fields["parent_id"] = parent.SpanID().String()
		}
		for _, kv := range s.Attributes() {
			fields[string(kv.Key)] = kv.Value.Emit()
		}
		e.Logger.WithFields(fields).Log(e.level(), "span")
	}
	return nil
}

func (e *LogExporter) Shutdown(ctx context.Context) error {
	return nil
}

func (e *LogExporter) level() logrus.Level {
	return exportLevel(e.Level)
}

// exportLevel treats the zero Level, panic, as unset.
func exportLevel(l logrus.Level) logrus.Level {
	if l == logrus.PanicLevel {
		return logrus.InfoLevel
	}
	return l
}

// CensusLogExporter is an opencensus exporter which writes each finished
// span as a structured log entry, with the same fields as LogExporter.
// Annotation attributes are merged into the entry.
type CensusLogExporter struct {
	Logger logrus.FieldLogger
	Level  logrus.Level
}

var _ octrace.Exporter = &CensusLogExporter{}

func (e *CensusLogExporter) ExportSpan(s *octrace.SpanData) {
	fields := logrus.Fields{
		"span":     s.Name,
		"trace_id": s.TraceID.String(),
		"span_id":  s.SpanID.String(),
		"duration": s.EndTime.Sub(s.StartTime).String(),
	}
	if s.ParentSpanID != (octrace.SpanID{}) {
		fields["parent_id"] = s.ParentSpanID.String()
	}
	for k, v := range s.Attributes {
		fields[k] = v
	}
	for _, a := range s.Annotations {
		for k, v := range a.Attributes {
			fields[k] = v
		}
	}
	e.Logger.WithFields(fields).Log(exportLevel(e.Level), "span")
}
