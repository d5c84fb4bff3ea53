// client/poller.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package client

import (
	"context"
	"time"

	"github.com/foothold/sitac/briefing"
	"github.com/foothold/sitac/log"
	"github.com/foothold/sitac/util"
)

const (
	// MapRefreshInterval is how often live map data is refetched.
	MapRefreshInterval = 30 * time.Second

	// staleAgeSeconds: the campaign server updates its snapshot roughly
	// once a minute, so anything older than this is flagged as stale.
	staleAgeSeconds = 90
)

type Freshness int

const (
	DataFresh Freshness = iota
	DataStale
	DataDisconnected
)

func (f Freshness) String() string {
	return [...]string{"fresh", "stale", "disconnected"}[f]
}

// MapPoller fetches live map data on a fixed interval and keeps the last
// successful snapshot around so the map stays useful across transient
// server outages.
type MapPoller struct {
	client *Client
	lg     *log.Logger

	mu          util.LoggingMutex
	data        *briefing.MapData
	fetchErr    error
	lastFetch   time.Time
	nextRefresh time.Time
	durations   *util.RingBuffer[time.Duration]

	refreshNow chan struct{}
	done       chan struct{}

	now func() time.Time // replaced in tests
}

func NewMapPoller(c *Client, lg *log.Logger) *MapPoller {
	p := &MapPoller{
		client:     c,
		lg:         lg,
		durations:  util.NewRingBuffer[time.Duration](16),
		refreshNow: make(chan struct{}, 1),
		done:       make(chan struct{}),
		now:        time.Now,
	}

	// Seed from the on-disk snapshot so the map draws something while the
	// first fetch is in flight.
	var cached briefing.MapData
	if _, err := util.CacheRetrieveObject("mapdata/"+c.BriefingID+".msgpack", &cached); err == nil {
		p.data = &cached
	}

	return p
}

// Start launches the polling goroutine; it runs until ctx is canceled or
// Stop is called.
func (p *MapPoller) Start(ctx context.Context) {
	go p.poll(ctx)
}

func (p *MapPoller) Stop() {
	close(p.done)
}

// RefreshNow requests an immediate refetch; the regular interval restarts
// from the manual refresh.
func (p *MapPoller) RefreshNow() {
	select {
	case p.refreshNow <- struct{}{}:
	default:
	}
}

func (p *MapPoller) poll(ctx context.Context) {
	p.fetch(ctx)

	timer := time.NewTimer(MapRefreshInterval)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
		case <-p.refreshNow:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-p.done:
			return
		case <-ctx.Done():
			return
		}

		p.fetch(ctx)
		timer.Reset(MapRefreshInterval)
	}
}

func (p *MapPoller) fetch(ctx context.Context) {
	start := p.now()
	data, err := p.client.GetMapData(ctx)
	elapsed := p.now().Sub(start)

	p.mu.Lock(p.lg)
	defer p.mu.Unlock(p.lg)

	p.durations.Add(elapsed)
	p.nextRefresh = p.now().Add(MapRefreshInterval)
	p.fetchErr = err

	if err != nil {
		p.lg.Warnf("map data fetch failed: %v", err)
		return
	}

	p.data = data
	p.lastFetch = p.now()

	if err := util.CacheStoreObject("mapdata/"+p.client.BriefingID+".msgpack", data); err != nil {
		p.lg.Warnf("unable to cache map data: %v", err)
	}
}

// Snapshot returns the most recent map data (possibly from a previous
// successful fetch if the last one failed), its freshness, and the whole
// seconds until the next automatic refresh.
func (p *MapPoller) Snapshot() (*briefing.MapData, Freshness, int) {
	p.mu.Lock(p.lg)
	defer p.mu.Unlock(p.lg)

	countdown := int(p.nextRefresh.Sub(p.now()).Round(time.Second).Seconds())
	if countdown < 0 {
		countdown = 0
	}

	if p.fetchErr != nil {
		return p.data, DataDisconnected, countdown
	}
	if p.data == nil {
		return nil, DataDisconnected, countdown
	}

	age := p.data.AgeSeconds + float32(p.now().Sub(p.lastFetch).Seconds())
	if age < staleAgeSeconds {
		return p.data, DataFresh, countdown
	}
	return p.data, DataStale, countdown
}

// FetchStats reports the mean duration of recent map data fetches, for
// the stats overlay.
func (p *MapPoller) FetchStats() time.Duration {
	p.mu.Lock(p.lg)
	defer p.mu.Unlock(p.lg)

	n := p.durations.Size()
	if n == 0 {
		return 0
	}
	var sum time.Duration
	for i := 0; i < n; i++ {
		sum += p.durations.Get(i)
	}
	return sum / time.Duration(n)
}
