/*
Package observability exposes navigation activity to monitoring systems.

Metrics implements lifecycle.Observer and produces navigator.Hooks, so a
single value wires Prometheus counters into both the lifecycle manager and a
navigator:

	m := observability.MustNewMetrics(prometheus.DefaultRegisterer)
	lm := lifecycle.NewManager(lifecycle.WithObserver(m))
	nav := navigator.NewStack(
		navigator.WithLifecycleManager(lm),
		navigator.WithHooks(observability.MergeHooks(m.Hooks(), observability.LogHooks(logger))),
	)

LogHooks turns the same events into structured log lines.
*/
package observability
