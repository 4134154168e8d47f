// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package shell

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/deskboot/internal/buildmode"
	"github.com/specialistvlad/deskboot/internal/devtools"
	"github.com/specialistvlad/deskboot/internal/manifest"
	"github.com/specialistvlad/deskboot/internal/sequencer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

func TestDevtools_TailPrintsEveryRecordInOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	b := sequencer.Compose(buildmode.Debug)
	probe, ok := devtools.ProbeFrom(b)
	require.True(t, ok)
	r := startLoop(t, b, manifest.Default())

	out := &SafeBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	tailDone := make(chan error, 1)
	go func() { tailDone <- devtools.Tail(ctx, r.base, out) }()

	require.Eventually(t, func() bool {
		return strings.Contains(r.logs.String(), "Devtools client connected.")
	}, 5*time.Second, 20*time.Millisecond, "tail client never connected")

	// --- Act ---
	const n = 30
	for i := 0; i < n; i++ {
		probe.Record(devtools.Record{Time: time.Now(), Level: "INFO", Message: fmt.Sprintf("record-%02d", i)})
	}

	// --- Assert ---
	last := fmt.Sprintf("record-%02d", n-1)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), last)
	}, 10*time.Second, 20*time.Millisecond, "the last record of the burst never arrived")

	printed := out.String()
	prev := -1
	for i := 0; i < n; i++ {
		msg := fmt.Sprintf("record-%02d", i)
		assert.Equal(t, 1, strings.Count(printed, msg), "%s printed once", msg)
		at := strings.Index(printed, msg)
		assert.Greater(t, at, prev, "%s printed in order", msg)
		prev = at
	}
	assert.Equal(t, 1, strings.Count(printed, "Devtools client connected."),
		"the connection record is not repeated between backlog and live stream")

	cancel()
	select {
	case err := <-tailDone:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("tail did not stop after cancellation")
	}
	require.NoError(t, r.stop(t))
}

func TestDevtools_PollingClientDoesNotFeedItself(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	b := sequencer.Compose(buildmode.Debug)
	probe, ok := devtools.ProbeFrom(b)
	require.True(t, ok)
	r := startLoop(t, b, manifest.Default())

	opts := socket.DefaultOptions()
	opts.SetPath(devtools.SocketPath)
	opts.SetTransports(types.NewSet(transports.Polling))
	client := socket.NewManager(r.base, opts).Socket("/", opts)
	defer client.Disconnect()

	var batches atomic.Int64
	client.On(types.EventName(devtools.EventLog), func(...any) { batches.Add(1) })
	client.Connect()

	require.Eventually(t, func() bool {
		return strings.Contains(r.logs.String(), "Devtools client connected.")
	}, 5*time.Second, 20*time.Millisecond, "polling client never connected")

	// --- Act ---
	for i := 0; i < 3; i++ {
		probe.Record(devtools.Record{Time: time.Now(), Level: "INFO", Message: "idle"})
	}
	time.Sleep(2 * time.Second)

	// --- Assert ---
	for _, rec := range probe.Snapshot() {
		path, _ := rec.Attrs["path"].(string)
		assert.False(t, strings.HasPrefix(path, "/__devtools/"), "bridge traffic was logged: %s %v", rec.Message, rec.Attrs)
	}
	assert.Less(t, probe.Head(), uint64(40), "records keep accumulating while the client is idle")
	assert.Less(t, batches.Load(), int64(10), "the bridge keeps streaming to an idle client")

	require.NoError(t, r.stop(t))
}
