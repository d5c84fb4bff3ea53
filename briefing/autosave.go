// briefing/autosave.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package briefing

import (
	"context"
	"time"
)

// AutosaveDelay is the debounce window for text edits; the save fires
// once the field has been quiet this long.
const AutosaveDelay = 800 * time.Millisecond

// savedDisplayTime is how long "Saved" stays in the status line before it
// reverts to idle.
const savedDisplayTime = 3 * time.Second

type saveFunc func(ctx context.Context, seq uint64)

type pendingSave struct {
	deadline time.Time
	send     saveFunc
}

// autosaver debounces per-entity saves.  The keys partition saves by
// field group (the briefing's own text fields, each objective, each
// flight, ...); each key carries a monotonic sequence number so a slow
// response can never clobber the outcome of a later save of the same
// group.  It is driven from the frame loop via update, never from its
// own goroutine.
type autosaver struct {
	c *Controller

	pending map[string]pendingSave
	issued  map[string]uint64

	inFlight int
	savedAt  time.Time

	// pendingBriefing accumulates the briefing-level field edits made
	// within the current debounce window.
	pendingBriefing BriefingUpdate

	now func() time.Time // replaced in tests
}

func (a *autosaver) init(c *Controller) {
	a.c = c
	a.pending = make(map[string]pendingSave)
	a.issued = make(map[string]uint64)
	a.now = time.Now
}

// schedule arms (or re-arms) the debounce timer for key.  A later
// schedule for the same key replaces the earlier send closure, so only
// the most recent edit state is ever sent.
func (a *autosaver) schedule(key string, send saveFunc) {
	a.pending[key] = pendingSave{deadline: a.now().Add(AutosaveDelay), send: send}
}

func (a *autosaver) update() {
	now := a.now()
	for key, p := range a.pending {
		if !now.Before(p.deadline) {
			a.fire(key, p)
		}
	}
	if a.c.state.SaveStatus == SaveSaved && now.Sub(a.savedAt) > savedDisplayTime {
		a.c.state.SaveStatus = SaveIdle
	}
}

func (a *autosaver) fire(key string, p pendingSave) {
	delete(a.pending, key)
	if key == "briefing" {
		a.pendingBriefing = BriefingUpdate{}
	}
	a.sendNow(key, p.send)
}

// sendNow issues a save immediately, bypassing the debounce window.
// Discrete edits (priority steps, mission toggles, selects) use it so a
// click reaches the server right away; a text edit still pending under
// the same key keeps its timer since the two carry disjoint fields.
func (a *autosaver) sendNow(key string, send saveFunc) {
	a.issued[key]++
	a.inFlight++
	a.c.state.SaveStatus = SaveSaving
	go send(context.Background(), a.issued[key])
}

// finish is called from the save goroutine with the request's outcome.
// An outcome counts only if it belongs to the most recently issued save
// of its group; a slow, superseded response is dropped so it can never
// override a newer save's result.
func (a *autosaver) finish(key string, seq uint64, err error) {
	a.c.post(func(c *Controller) {
		a.inFlight--
		if seq == a.issued[key] && err != nil {
			c.lg.Warnf("autosave %s failed: %v", key, err)
			c.state.SaveStatus = SaveError
			c.state.SaveError = err.Error()
		}
		if a.inFlight == 0 && len(a.pending) == 0 && c.state.SaveStatus == SaveSaving {
			c.state.SaveStatus = SaveSaved
			c.state.SaveError = ""
			a.savedAt = a.now()
		}
	})
}

// flush fires every pending save immediately, ignoring the debounce
// deadlines.
func (a *autosaver) flush() {
	for key, p := range a.pending {
		a.fire(key, p)
	}
}
