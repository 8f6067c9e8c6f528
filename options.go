package phylo

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/openphylo/sdk/config"
	"github.com/openphylo/sdk/metrics"
	"github.com/openphylo/sdk/notify"
)

// Option configures a Toolkit.
type Option func(*toolkitConfig)

// toolkitConfig holds configuration for a Toolkit instance.
type toolkitConfig struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	notifier   notify.Notifier
	tracer     trace.Tracer
	metrics    *metrics.Metrics
}

// WithConfigFile loads the toolkit configuration from a phylo.yaml file.
func WithConfigFile(path string) Option {
	return func(c *toolkitConfig) {
		c.configPath = path
	}
}

// WithConfig sets an already-parsed configuration. It takes precedence
// over WithConfigFile.
func WithConfig(cfg *config.Config) Option {
	return func(c *toolkitConfig) {
		c.cfg = cfg
	}
}

// WithLogger sets a custom logger. If not provided, a JSON logger on
// stdout is created.
func WithLogger(logger *slog.Logger) Option {
	return func(c *toolkitConfig) {
		c.logger = logger
	}
}

// WithNotifier sets the user notifier. Defaults to the no-op notifier for
// headless use.
func WithNotifier(n notify.Notifier) Option {
	return func(c *toolkitConfig) {
		c.notifier = n
	}
}

// WithTracer sets an OpenTelemetry tracer for jobs and service calls.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *toolkitConfig) {
		c.tracer = tracer
	}
}

// WithMetrics attaches Prometheus instrumentation to the cache and the
// reconciliation counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *toolkitConfig) {
		c.metrics = m
	}
}
