// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package devtools

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/deskboot/internal/builder"
)

const (
	// CoreName is the unit name of Core.
	CoreName = "devtools-core"

	// LogsPath serves a JSON snapshot of the probe's records.
	LogsPath = "/__devtools/logs"
	// MetricsPath serves the probe's Prometheus registry.
	MetricsPath = "/__devtools/metrics"
)

type probeKey struct{}

// Core installs the devtools probe.
type Core struct {
	// Capacity bounds the number of retained records. Zero means DefaultCapacity.
	Capacity int
}

// NewCore returns a Core with default settings.
func NewCore() *Core { return &Core{} }

// Name implements builder.Unit.
func (c *Core) Name() string { return CoreName }

// Attach implements builder.Unit.
func (c *Core) Attach(b *builder.Builder) {
	probe := NewProbe(c.Capacity)
	b.Provide(probeKey{}, probe)
	b.HookLogger(probe.Hook)
	b.Route(MetricsPath, promhttp.HandlerFor(probe.Registry(), promhttp.HandlerOpts{}))
	b.Route(LogsPath, http.HandlerFunc(probe.serveLogs))
}

// ProbeFrom returns the probe a Core attached to b.
func ProbeFrom(b *builder.Builder) (*Probe, bool) {
	v, ok := b.Lookup(probeKey{})
	if !ok {
		return nil, false
	}
	p, ok := v.(*Probe)
	return p, ok
}

func (p *Probe) serveLogs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(p.Snapshot()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
