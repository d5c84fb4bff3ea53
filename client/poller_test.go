// client/poller_test.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package client

import (
	"errors"
	"testing"
	"time"

	"github.com/foothold/sitac/briefing"
	"github.com/foothold/sitac/util"
)

// testPoller builds a MapPoller with a fixed clock and no network or
// disk cache behind it.
func testPoller(now time.Time) *MapPoller {
	return &MapPoller{
		durations: util.NewRingBuffer[time.Duration](16),
		now:       func() time.Time { return now },
	}
}

func TestSnapshotFreshness(t *testing.T) {
	now := time.Now()

	for _, c := range []struct {
		name       string
		age        float32       // server-reported data age
		sinceFetch time.Duration // how long ago the fetch succeeded
		fetchErr   error
		want       Freshness
	}{
		{name: "fresh", age: 10, want: DataFresh},
		{name: "just under the threshold", age: 89, want: DataFresh},
		{name: "stale at the threshold", age: 90, want: DataStale},
		{name: "aging since the fetch", age: 30, sinceFetch: time.Minute, want: DataStale},
		{name: "disconnected beats fresh", age: 10, fetchErr: errors.New("connection refused"),
			want: DataDisconnected},
	} {
		p := testPoller(now)
		p.data = &briefing.MapData{AgeSeconds: c.age}
		p.lastFetch = now.Add(-c.sinceFetch)
		p.fetchErr = c.fetchErr

		data, freshness, _ := p.Snapshot()
		if freshness != c.want {
			t.Errorf("%s: freshness %v, expected %v", c.name, freshness, c.want)
		}
		if data == nil {
			t.Errorf("%s: snapshot dropped the cached data", c.name)
		}
	}
}

func TestSnapshotNoData(t *testing.T) {
	p := testPoller(time.Now())
	if data, freshness, _ := p.Snapshot(); data != nil || freshness != DataDisconnected {
		t.Errorf("empty poller: got %v, %v", data, freshness)
	}
}

func TestSnapshotCountdown(t *testing.T) {
	now := time.Now()
	p := testPoller(now)
	p.data = &briefing.MapData{}
	p.lastFetch = now
	p.nextRefresh = now.Add(12 * time.Second)

	if _, _, countdown := p.Snapshot(); countdown != 12 {
		t.Errorf("countdown %d, expected 12", countdown)
	}

	// A refresh that is overdue reads as zero, never negative.
	p.nextRefresh = now.Add(-3 * time.Second)
	if _, _, countdown := p.Snapshot(); countdown != 0 {
		t.Errorf("overdue countdown %d, expected 0", countdown)
	}
}
