package main

import "github.com/prometheus/client_golang/prometheus"

// serverMetrics holds the counters and gauges the event loop updates as it
// processes events. They are not exposed over HTTP (the server has no such
// external interface); a caller reads them directly off the registry, or
// can wire prometheus/promhttp in front of it.
type serverMetrics struct {
	registry          *prometheus.Registry
	connections       prometheus.Counter
	connectionsActive prometheus.Gauge
	commandsProcessed *prometheus.CounterVec
	channelsActive    prometheus.Gauge
}

func newServerMetrics() *serverMetrics {
	m := &serverMetrics{
		registry: prometheus.NewRegistry(),
		connections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ircserv_connections_total",
			Help: "Total TCP connections accepted.",
		}),
		connectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ircserv_connections_active",
			Help: "Currently open connections.",
		}),
		commandsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ircserv_commands_processed_total",
			Help: "Commands processed, by verb.",
		}, []string{"verb"}),
		channelsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ircserv_channels_active",
			Help: "Currently existing channels.",
		}),
	}

	m.registry.MustRegister(m.connections, m.connectionsActive,
		m.commandsProcessed, m.channelsActive)

	return m
}
