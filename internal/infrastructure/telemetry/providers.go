package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/retailpos/backend/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Providers owns the OTLP pipelines for the three signals. A signal that is
// disabled in config has a nil provider and callers get the global no-op.
type Providers struct {
	cfg    config.TelemetryConfig
	traces *sdktrace.TracerProvider
	meters *sdkmetric.MeterProvider
	logs   *sdklog.LoggerProvider
}

// Setup starts an OTLP/gRPC exporter for each enabled signal and installs it
// as the global provider. On error, anything already started is shut down.
func Setup(ctx context.Context, cfg config.TelemetryConfig, log *zap.Logger) (*Providers, error) {
	p := &Providers{cfg: cfg}
	if !cfg.Enabled && !cfg.MetricsEnabled && !cfg.LogsEnabled {
		log.Info("Telemetry disabled")
		return p, nil
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	starts := []struct {
		on    bool
		start func(context.Context, *resource.Resource) error
	}{
		{cfg.Enabled, p.startTraces},
		{cfg.MetricsEnabled, p.startMetrics},
		{cfg.LogsEnabled, p.startLogs},
	}
	for _, s := range starts {
		if !s.on {
			continue
		}
		if err := s.start(ctx, res); err != nil {
			_ = p.Shutdown(ctx)
			return nil, err
		}
	}

	log.Info("OpenTelemetry export started",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Bool("traces", p.TracingEnabled()),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
		zap.Bool("metrics", p.MetricsEnabled()),
		zap.Duration("metrics_interval", cfg.MetricsInterval),
		zap.Bool("logs", p.LogsEnabled()),
	)
	return p, nil
}

func (p *Providers) startTraces(ctx context.Context, res *resource.Resource) error {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(p.cfg.CollectorEndpoint)}
	if p.cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exp, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("trace exporter: %w", err)
	}
	p.traces = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(newSampler(p.cfg.SamplingRatio))),
	)
	otel.SetTracerProvider(p.traces)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return nil
}

func (p *Providers) startMetrics(ctx context.Context, res *resource.Resource) error {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(p.cfg.CollectorEndpoint)}
	if p.cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("metric exporter: %w", err)
	}
	p.meters = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(p.cfg.MetricsInterval))),
	)
	otel.SetMeterProvider(p.meters)
	return nil
}

func (p *Providers) startLogs(ctx context.Context, res *resource.Resource) error {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(p.cfg.CollectorEndpoint)}
	if p.cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exp, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("log exporter: %w", err)
	}
	p.logs = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)),
	)
	global.SetLoggerProvider(p.logs)
	return nil
}

func newSampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	}
	return sdktrace.TraceIDRatioBased(ratio)
}

func (p *Providers) TracingEnabled() bool { return p.traces != nil }
func (p *Providers) MetricsEnabled() bool { return p.meters != nil }
func (p *Providers) LogsEnabled() bool    { return p.logs != nil }

// Meter returns a meter from the metrics pipeline, or the global no-op one
func (p *Providers) Meter(name string) metric.Meter {
	if p.meters == nil {
		return otel.GetMeterProvider().Meter(name)
	}
	return p.meters.Meter(name)
}

// ZapCore forwards zap entries at or above level to the log pipeline so they
// can be teed with the console output. Without log export it is a no-op core.
func (p *Providers) ZapCore(level zapcore.Level) zapcore.Core {
	if p.logs == nil {
		return zapcore.NewNopCore()
	}
	return &levelFilterCore{
		Core:     otelzap.NewCore(p.cfg.ServiceName, otelzap.WithLoggerProvider(p.logs)),
		minLevel: level,
	}
}

// Shutdown flushes every running pipeline, bounded by shutdownTimeout
func (p *Providers) Shutdown(ctx context.Context) error {
	ctx, cancel := withShutdownTimeout(ctx)
	defer cancel()

	var errs []error
	if p.traces != nil {
		errs = append(errs, p.traces.Shutdown(ctx))
	}
	if p.meters != nil {
		errs = append(errs, p.meters.Shutdown(ctx))
	}
	if p.logs != nil {
		errs = append(errs, p.logs.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// levelFilterCore gives the otelzap core, which exports everything, a floor
type levelFilterCore struct {
	zapcore.Core
	minLevel zapcore.Level
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.minLevel && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), minLevel: c.minLevel}
}
