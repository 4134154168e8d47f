// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package devtools

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultCapacity is the number of records a Probe keeps by default.
const DefaultCapacity = 512

// Record is a captured log record in a transport-friendly shape. Seq is
// assigned by the Probe and increases by one per record.
type Record struct {
	Seq     uint64         `json:"seq"`
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// Probe keeps the most recent log records and streams new ones to
// subscribers.
type Probe struct {
	mu     sync.Mutex
	ring   []Record
	next   int
	full   bool
	seq    uint64
	subs   map[int]chan Record
	nextID int

	metrics *probeMetrics
}

// NewProbe returns a Probe retaining at most capacity records.
func NewProbe(capacity int) *Probe {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Probe{
		ring:    make([]Record, capacity),
		subs:    make(map[int]chan Record),
		metrics: newProbeMetrics(),
	}
}

// Record numbers r, stores it and delivers it to every subscriber.
// Subscribers whose buffer is full miss the record; logging never blocks on
// them.
func (p *Probe) Record(r Record) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	r.Seq = p.seq
	p.ring[p.next] = r
	p.next = (p.next + 1) % len(p.ring)
	if p.next == 0 {
		p.full = true
	}
	p.metrics.records.WithLabelValues(r.Level).Inc()

	for _, ch := range p.subs {
		select {
		case ch <- r:
		default:
			p.metrics.dropped.Inc()
		}
	}
}

// Snapshot returns the retained records, oldest first.
func (p *Probe) Snapshot() []Record {
	recs, _ := p.Since(0)
	return recs
}

// Head returns the sequence number of the latest record, 0 before the first.
func (p *Probe) Head() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq
}

// Since returns the retained records numbered after seq, oldest first, and
// the current head. Records already evicted from the ring are not returned.
func (p *Probe) Since(seq uint64) ([]Record, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var ordered []Record
	if p.full {
		ordered = append(append(ordered, p.ring[p.next:]...), p.ring[:p.next]...)
	} else {
		ordered = p.ring[:p.next]
	}

	start := sort.Search(len(ordered), func(i int) bool { return ordered[i].Seq > seq })
	out := make([]Record, len(ordered)-start)
	copy(out, ordered[start:])
	return out, p.seq
}

// Subscribe returns a channel receiving every record recorded from now on,
// and a function that cancels the subscription and closes the channel.
func (p *Probe) Subscribe(buffer int) (<-chan Record, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	ch := make(chan Record, buffer)
	p.subs[id] = ch
	p.metrics.subscribers.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
			close(ch)
			p.metrics.subscribers.Dec()
		})
	}
}

// Registry returns the Prometheus registry holding the probe's metrics.
func (p *Probe) Registry() *prometheus.Registry {
	return p.metrics.registry
}
