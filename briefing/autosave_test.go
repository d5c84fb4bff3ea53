// briefing/autosave_test.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package briefing

import (
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

// advance moves the autosaver's clock forward without sleeping.
func advance(c *Controller, d time.Duration) {
	base := c.autosave.now()
	c.autosave.now = func() time.Time { return base.Add(d) }
}

func TestAutosaveDebounce(t *testing.T) {
	sv := &fakeServer{briefing: Briefing{ID: "b1", Title: "Test"}}
	c := newTestController(t, sv)

	c.Dispatch(EditBriefing{Update: BriefingUpdate{Situation: ptr("Enemy armor at")}})
	c.Update()
	if n := len(sv.briefingUpdates); n != 0 {
		t.Fatalf("%d saves before the debounce window elapsed", n)
	}

	// More typing inside the window re-arms the timer and coalesces.
	advance(c, AutosaveDelay/2)
	c.Update()
	c.Dispatch(EditBriefing{Update: BriefingUpdate{Situation: ptr("Enemy armor at Gori")}})
	advance(c, AutosaveDelay/2+AutosaveDelay/4)
	c.Update()
	if n := len(sv.briefingUpdates); n != 0 {
		t.Fatalf("save fired %d times before window elapsed after last edit", n)
	}

	advance(c, 2*AutosaveDelay)
	c.Update()
	waitFor(t, c, func() bool { return c.State().SaveStatus == SaveSaved })

	if n := len(sv.briefingUpdates); n != 1 {
		t.Fatalf("%d saves, expected coalesced single save", n)
	}
	if got := sv.briefingUpdates[0].Situation; got == nil || *got != "Enemy armor at Gori" {
		t.Errorf("saved situation %v", got)
	}
	if c.State().Briefing.Situation != "Enemy armor at Gori" {
		t.Errorf("local state %q", c.State().Briefing.Situation)
	}
}

func TestAutosaveErrorStatus(t *testing.T) {
	sv := &fakeServer{briefing: Briefing{ID: "b1", Title: "Test"}}
	c := newTestController(t, sv)
	sv.Fail = true

	c.Dispatch(EditBriefing{Update: BriefingUpdate{Notes: ptr("check in on red 1")}})
	advance(c, 2*AutosaveDelay)
	c.Update()
	waitFor(t, c, func() bool { return c.State().SaveStatus == SaveError })

	if c.State().SaveError == "" {
		t.Error("no save error message")
	}
	// The optimistic local edit is kept so the user can retry.
	if c.State().Briefing.Notes != "check in on red 1" {
		t.Errorf("local notes %q", c.State().Briefing.Notes)
	}
}

func TestAutosaveSequencing(t *testing.T) {
	sv := &fakeServer{briefing: Briefing{ID: "b1", Title: "Test"}}
	c := newTestController(t, sv)

	c.Dispatch(AddObjective{Zone: "Kutaisi"})
	waitFor(t, c, settled(c))
	objID := c.State().Briefing.Objectives[0].ID

	sv.Gate = make(chan chan error, 2)

	// First save goes out and stalls on the server.
	c.Dispatch(EditObjective{ID: objID, Update: ObjectiveUpdate{Notes: ptr("old")}})
	advance(c, 2*AutosaveDelay)
	c.Update()
	first := <-sv.Gate

	// Second save of the same objective goes out while the first is
	// still in flight.
	c.Dispatch(EditObjective{ID: objID, Update: ObjectiveUpdate{Notes: ptr("new")}})
	advance(c, 4*AutosaveDelay)
	c.Update()
	second := <-sv.Gate

	// The newer save succeeds first; the stale first request then fails.
	// Its outcome must be dropped rather than flipping the indicator to
	// an error.
	second <- nil
	first <- errFake
	waitFor(t, c, func() bool { return c.State().SaveStatus != SaveSaving })

	if st := c.State().SaveStatus; st != SaveSaved {
		t.Errorf("save status %v after stale failure, expected SaveSaved", st)
	}
	if c.State().Briefing.Objectives[0].Notes != "new" {
		t.Errorf("objective notes %q", c.State().Briefing.Objectives[0].Notes)
	}
}

func TestDiscreteEditsSkipDebounce(t *testing.T) {
	sv := &fakeServer{briefing: Briefing{ID: "b1", Title: "Test"}}
	c := newTestController(t, sv)

	c.Dispatch(AddObjective{Zone: "Kutaisi"})
	waitFor(t, c, settled(c))
	objID := c.State().Briefing.Objectives[0].ID

	// A priority change is click-driven and goes to the server without
	// waiting out the debounce window.
	c.Dispatch(EditObjective{ID: objID, Update: ObjectiveUpdate{Priority: ptr(3)}})
	waitFor(t, c, func() bool { return len(sv.objectiveUpdates) == 1 })
	if got := sv.objectiveUpdates[0].Priority; got == nil || *got != 3 {
		t.Errorf("priority update %v", got)
	}

	// Notes still debounce.
	c.Dispatch(EditObjective{ID: objID, Update: ObjectiveUpdate{Notes: ptr("SEAD first")}})
	c.Update()
	if n := len(sv.objectiveUpdates); n != 1 {
		t.Fatalf("%d objective saves before the notes debounce elapsed", n)
	}
	advance(c, 2*AutosaveDelay)
	c.Update()
	waitFor(t, c, func() bool { return len(sv.objectiveUpdates) == 2 })
}

func TestEditHomeplateDebounce(t *testing.T) {
	sv := &fakeServer{briefing: Briefing{ID: "b1", Title: "Test"}}
	c := newTestController(t, sv)

	c.Dispatch(SetHomeplate{Update: HomeplateUpdate{Name: "Kutaisi", Latitude: 42.2, Longitude: 42.5}})
	waitFor(t, c, settled(c))
	h := c.State().Briefing.Homeplates[0]

	c.Dispatch(EditHomeplate{ID: h.ID, Update: HomeplateUpdate{
		Name: h.Name, Latitude: h.Latitude, Longitude: h.Longitude,
		TACAN: "74X", Frequencies: []string{"251.000"}}})
	c.Update()
	if n := len(sv.homeplateUpdates); n != 0 {
		t.Fatalf("%d homeplate saves before the debounce elapsed", n)
	}
	// The edit is applied locally right away.
	if got := c.State().Briefing.Homeplates[0].TACAN; got != "74X" {
		t.Errorf("local TACAN %q", got)
	}

	advance(c, 2*AutosaveDelay)
	c.Update()
	waitFor(t, c, func() bool { return len(sv.homeplateUpdates) == 1 })
	upd := sv.homeplateUpdates[0]
	if upd.TACAN != "74X" || upd.Name != "Kutaisi" || len(upd.Frequencies) != 1 {
		t.Errorf("saved update %+v", upd)
	}
}

func TestSavesPendingDrain(t *testing.T) {
	sv := &fakeServer{briefing: Briefing{ID: "b1", Title: "Test"}}
	c := newTestController(t, sv)

	if c.SavesPending() {
		t.Error("pending saves on an idle controller")
	}

	c.Dispatch(EditBriefing{Update: BriefingUpdate{Notes: ptr("RTB by 2200")}})
	if !c.SavesPending() {
		t.Error("debouncing edit not reported as pending")
	}

	// The exit path flushes and then pumps Update until nothing is
	// pending; only then is it safe to stop the process.
	c.Dispatch(FlushSaves{})
	waitFor(t, c, func() bool { return !c.SavesPending() })
	if n := len(sv.briefingUpdates); n != 1 {
		t.Fatalf("%d saves after the drain, expected 1", n)
	}
}

func TestFlushSaves(t *testing.T) {
	sv := &fakeServer{briefing: Briefing{ID: "b1", Title: "Test"}}
	c := newTestController(t, sv)

	c.Dispatch(EditBriefing{Update: BriefingUpdate{Weather: ptr("CAVOK, winds calm")}})
	c.Dispatch(FlushSaves{})
	waitFor(t, c, func() bool { return len(sv.briefingUpdates) == 1 })

	if got := sv.briefingUpdates[0].Weather; got == nil || *got != "CAVOK, winds calm" {
		t.Errorf("flushed weather %v", got)
	}
}
