package reservation

// Option defines a functional option for configuring a Grid.
type Option func(*Grid) error

// WithLogger sets the logger for the Grid.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: every reservation decision with theatre, seat count and duration
// Info level: the moment the grid becomes exhausted
// Warn level: rejected invalid requests.
func WithLogger(logger Logger) Option {
	return func(g *Grid) error {
		g.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Grid.
// It receives the same messages as the Logger, together with the request context,
// which enables trace/span correlation when tracing is enabled.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(g *Grid) error {
		g.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Grid.
// The collector will receive reserve durations, attempt counters by outcome and the remaining seat count.
func WithMetrics(collector MetricsCollector) Option {
	return func(g *Grid) error {
		g.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Grid.
// A span is created for every Reserve call.
func WithTracing(collector TracingCollector) Option {
	return func(g *Grid) error {
		g.tracingCollector = collector
		return nil
	}
}
