// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package devtools

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type probeMetrics struct {
	registry    *prometheus.Registry
	records     *prometheus.CounterVec
	dropped     prometheus.Counter
	subscribers prometheus.Gauge
}

// newProbeMetrics builds a registry private to one probe.
func newProbeMetrics() *probeMetrics {
	m := &probeMetrics{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskboot_devtools_log_records_total",
				Help: "Total number of log records captured by the devtools probe",
			},
			[]string{"level"},
		),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deskboot_devtools_dropped_records_total",
			Help: "Total number of records not delivered to a slow subscriber",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "deskboot_devtools_subscribers",
			Help: "Number of active devtools record subscribers",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.records,
		m.dropped,
		m.subscribers,
	)
	return m
}
