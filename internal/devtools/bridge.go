// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package devtools

import (
	"context"
	"time"

	"github.com/specialistvlad/deskboot/internal/builder"
	"github.com/specialistvlad/deskboot/internal/ctxlog"
	"github.com/zishang520/socket.io/v2/socket"
)

const (
	// BridgeName is the unit name of AppBridge.
	BridgeName = "devtools-app-bridge"

	// SocketPath is where the socket.io endpoint is mounted.
	SocketPath = "/__devtools/socket.io"

	// EventBacklog carries a Backlog: to a newly connected client, and in
	// reply to EventResend.
	EventBacklog = "log:backlog"
	// EventLog carries a batch of new records, oldest first.
	EventLog = "log"
	// EventHead carries the sequence number of the latest record.
	EventHead = "log:head"
	// EventResend is sent by a client with the last sequence number it has
	// printed; the bridge answers with the retained records after it.
	EventResend = "log:resend"

	subscriberBuffer = 256

	defaultFlushInterval = 50 * time.Millisecond
	defaultHeadInterval  = time.Second
)

// Backlog is a contiguous run of retained records ending at Head.
type Backlog struct {
	Head    uint64   `json:"head"`
	Records []Record `json:"records"`
}

// AppBridge streams the Core probe to devtools clients over socket.io.
//
// Live records are batched per FlushInterval. Every HeadInterval the bridge
// announces the latest sequence number so clients can ask for whatever they
// did not receive.
type AppBridge struct {
	FlushInterval time.Duration
	HeadInterval  time.Duration
}

// NewAppBridge returns an AppBridge with default intervals.
func NewAppBridge() *AppBridge {
	return &AppBridge{FlushInterval: defaultFlushInterval, HeadInterval: defaultHeadInterval}
}

// Name implements builder.Unit.
func (a *AppBridge) Name() string { return BridgeName }

// Attach implements builder.Unit.
func (a *AppBridge) Attach(b *builder.Builder) {
	opts := socket.DefaultServerOptions()
	opts.SetPath(SocketPath)
	io := socket.NewServer(nil, opts)

	b.Route(SocketPath+"/*", io.ServeHandler(opts))
	b.Service(BridgeName, func(ctx context.Context) error {
		return a.serve(ctx, b, io)
	})
}

// serve resolves the probe once the run loop is up and broadcasts records
// until ctx is cancelled.
func (a *AppBridge) serve(ctx context.Context, b *builder.Builder, io *socket.Server) error {
	logger := ctxlog.FromContext(ctx).With("unit", BridgeName)
	defer io.Close(nil)

	probe, ok := ProbeFrom(b)
	if !ok {
		logger.Warn("Devtools core is not attached, bridge has nothing to stream.")
		<-ctx.Done()
		return nil
	}

	io.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			return
		}
		recs, head := probe.Since(0)
		client.Emit(EventBacklog, Backlog{Head: head, Records: recs})
		client.On(EventResend, func(args ...any) {
			var after uint64
			if len(args) > 0 {
				if err := remarshal(args[0], &after); err != nil {
					logger.Warn("Ignoring malformed resend request", "sid", client.Id(), "error", err)
					return
				}
			}
			recs, head := probe.Since(after)
			client.Emit(EventBacklog, Backlog{Head: head, Records: recs})
		})
		logger.Info("🔧 Devtools client connected.", "sid", client.Id())
	})

	records, cancel := probe.Subscribe(subscriberBuffer)
	defer cancel()

	flush := time.NewTicker(interval(a.FlushInterval, defaultFlushInterval))
	defer flush.Stop()
	heads := time.NewTicker(interval(a.HeadInterval, defaultHeadInterval))
	defer heads.Stop()

	var batch []Record
	logger.Debug("Devtools bridge streaming.", "path", SocketPath)
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Devtools bridge stopping.")
			return nil
		case rec, ok := <-records:
			if !ok {
				return nil
			}
			batch = append(batch, rec)
		case <-flush.C:
			if len(batch) == 0 {
				continue
			}
			io.Emit(EventLog, batch)
			batch = nil
		case <-heads.C:
			io.Emit(EventHead, probe.Head())
		}
	}
}

func interval(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
