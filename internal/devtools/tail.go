// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package devtools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/specialistvlad/deskboot/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Tail connects to the devtools bridge of a running shell at rawURL and
// writes its records to w, in sequence order, until ctx is cancelled.
func Tail(ctx context.Context, rawURL string, w io.Writer) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return fmt.Errorf("URL %q must include scheme and host", rawURL)
	}
	logger := ctxlog.FromContext(ctx).With("url", rawURL)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(SocketPath)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	client := manager.Socket("/", opts)
	defer func() {
		logger.Debug("Disconnecting devtools client")
		client.Disconnect()
	}()

	f := newFollower(w)
	failed := make(chan error, 1)

	resend := func(after uint64, ok bool) {
		if !ok {
			return
		}
		logger.Debug("Requesting records", "after", after)
		client.Emit(EventResend, after)
	}

	client.On(types.EventName("connect"), func(...any) {
		logger.Info("Connected to devtools bridge", "sid", client.Id())
	})
	client.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection refused")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case failed <- fmt.Errorf("failed to connect to devtools bridge: %w", err):
		default:
		}
	})
	client.On(types.EventName(EventBacklog), func(data ...any) {
		if len(data) == 0 {
			return
		}
		var bl Backlog
		if err := remarshal(data[0], &bl); err != nil {
			logger.Warn("Discarding malformed backlog", "error", err)
			return
		}
		f.backlog(bl)
	})
	client.On(types.EventName(EventLog), func(data ...any) {
		if len(data) == 0 {
			return
		}
		var recs []Record
		if err := remarshal(data[0], &recs); err != nil {
			logger.Warn("Discarding malformed records", "error", err)
			return
		}
		f.live(recs)
	})
	client.On(types.EventName(EventHead), func(data ...any) {
		if len(data) == 0 {
			return
		}
		var head uint64
		if err := remarshal(data[0], &head); err != nil {
			logger.Warn("Discarding malformed head", "error", err)
			return
		}
		resend(f.head(head))
	})

	client.Connect()

	select {
	case <-ctx.Done():
		return nil
	case err := <-failed:
		return err
	}
}

// remarshal converts a decoded socket.io payload into a typed value.
func remarshal(in any, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// follower prints records strictly in sequence order, each once. Records
// that arrive ahead of a gap wait until the gap is filled by a backlog.
type follower struct {
	mu      sync.Mutex
	w       io.Writer
	synced  bool
	last    uint64
	pending map[uint64]Record
}

func newFollower(w io.Writer) *follower {
	return &follower{w: w, pending: make(map[uint64]Record)}
}

// backlog applies a contiguous run of records. It is authoritative: a run
// starting past the next expected record means the records in between were
// evicted, and the follower skips ahead.
func (f *follower) backlog(bl Backlog) {
	f.mu.Lock()
	defer f.mu.Unlock()

	first := bl.Head
	if len(bl.Records) > 0 {
		first = bl.Records[0].Seq - 1
	}
	switch {
	case !f.synced:
		f.last = first
		f.synced = true
	case first > f.last:
		fmt.Fprintf(f.w, "-- %d record(s) missed --\n", first-f.last)
		f.last = first
	}
	f.add(bl.Records)
}

// live applies a batch of new records. Before the first backlog they are
// only buffered.
func (f *follower) live(recs []Record) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.synced {
		for _, r := range recs {
			f.pending[r.Seq] = r
		}
		return
	}
	f.add(recs)
}

// head reports whether records up to head are missing and, if so, the
// sequence number to resend after. A head behind the follower means the
// shell restarted.
func (f *follower) head(head uint64) (uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case !f.synced:
		return 0, true
	case head < f.last:
		f.synced = false
		f.last = 0
		clear(f.pending)
		return 0, true
	case head > f.last:
		return f.last, true
	default:
		return 0, false
	}
}

func (f *follower) add(recs []Record) {
	for _, r := range recs {
		if r.Seq > f.last {
			f.pending[r.Seq] = r
		}
	}
	for seq := range f.pending {
		if seq <= f.last {
			delete(f.pending, seq)
		}
	}
	for {
		r, ok := f.pending[f.last+1]
		if !ok {
			return
		}
		delete(f.pending, r.Seq)
		f.last = r.Seq
		fmt.Fprintln(f.w, FormatRecord(r))
	}
}

// FormatRecord renders a record as a single line with a colored level.
func FormatRecord(r Record) string {
	var sb strings.Builder
	sb.WriteString(r.Time.Format("15:04:05.000"))
	sb.WriteByte(' ')
	sb.WriteString(levelColor(r.Level).Sprintf("%-5s", r.Level))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)

	keys := make([]string, 0, len(r.Attrs))
	for k := range r.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, r.Attrs[k])
	}
	return sb.String()
}

func levelColor(level string) *color.Color {
	switch level {
	case "ERROR":
		return color.New(color.FgRed, color.Bold)
	case "WARN":
		return color.New(color.FgYellow)
	case "DEBUG":
		return color.New(color.FgHiBlack)
	default:
		return color.New(color.FgCyan)
	}
}
