// briefing/commands.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package briefing

import (
	"context"

	"github.com/brunoga/deep"

	"github.com/foothold/sitac/log"
	"github.com/foothold/sitac/util"
)

// Controller owns the State and is the only place it is mutated.  All
// mutation enters through Dispatch; server responses come back as
// closures on the results channel and are applied on the UI goroutine
// when Update is called each frame.
type Controller struct {
	server Server
	lg     *log.Logger

	state State

	// lastGood is a deep copy of the briefing as last confirmed by the
	// server, restored when a structural mutation is rejected.
	lastGood *Briefing

	results chan func(*Controller)

	autosave autosaver
}

func NewController(sv Server, canEdit bool, lg *log.Logger) *Controller {
	c := &Controller{
		server:  sv,
		lg:      lg,
		results: make(chan func(*Controller), 32),
	}
	c.state.CanEdit = canEdit
	c.autosave.init(c)
	return c
}

func (c *Controller) State() *State { return &c.state }

// Load fetches the briefing and the server's zone list; it is called
// once at startup and again after a rejected mutation.
func (c *Controller) Load(ctx context.Context) {
	go func() {
		b, err := c.server.GetBriefing(ctx)
		if err != nil {
			c.post(func(c *Controller) {
				c.state.MutationError = "Unable to load briefing: " + err.Error()
			})
			return
		}
		zones, err := c.server.ListZones(ctx)
		if err != nil {
			c.lg.Warnf("zone list fetch failed: %v", err)
		}
		c.post(func(c *Controller) {
			c.state.Briefing = b
			c.lastGood = deep.MustCopy(b)
			if zones != nil {
				c.state.Zones = zones
			}
		})
	}()
}

// Update applies completed server responses and fires any autosaves whose
// debounce window has elapsed.  Call it once per frame.
func (c *Controller) Update() {
	for {
		select {
		case f := <-c.results:
			f(c)
		default:
			c.autosave.update()
			return
		}
	}
}

func (c *Controller) post(f func(*Controller)) {
	c.results <- f
}

// Command is a single user-initiated mutation of the briefing.
type Command interface {
	Run(c *Controller)
}

// Dispatch runs cmd unless the client is read-only or a structural
// mutation is already in flight.
func (c *Controller) Dispatch(cmd Command) {
	if !c.state.CanEdit || c.state.Briefing == nil {
		return
	}
	if c.state.StructuralBusy {
		if _, ok := cmd.(structuralCommand); ok {
			return
		}
	}
	c.lg.Debugf("dispatch %T", cmd)
	cmd.Run(c)
}

// structuralCommand marks commands that create or delete entities; these
// go to the server first and apply locally only from its response.
type structuralCommand interface {
	structural()
}

// structural runs the server call in a goroutine with StructuralBusy
// set; apply is run on the UI goroutine with the call's result.  On
// failure the last confirmed briefing is restored and the error surfaced
// for the failure dialog.
func runStructural(c *Controller, call func() error, apply func(c *Controller)) {
	c.state.StructuralBusy = true
	go func() {
		err := call()
		c.post(func(c *Controller) {
			c.state.StructuralBusy = false
			if err != nil {
				c.lg.Errorf("structural mutation failed: %v", err)
				c.state.MutationError = err.Error()
				if c.lastGood != nil {
					c.state.Briefing = deep.MustCopy(c.lastGood)
				}
				return
			}
			apply(c)
			c.lastGood = deep.MustCopy(c.state.Briefing)
		})
	}()
}

// SavesPending reports whether any save is still debouncing, on the
// network, or a structural mutation is in flight; the main loop drains
// these before exiting so the final edits aren't lost to process exit.
func (c *Controller) SavesPending() bool {
	return len(c.autosave.pending) > 0 || c.autosave.inFlight > 0 || c.state.StructuralBusy
}

// AcknowledgeMutationError clears the failure dialog state.
func (c *Controller) AcknowledgeMutationError() {
	c.state.MutationError = ""
}

///////////////////////////////////////////////////////////////////////////
// Objective commands

type AddObjective struct {
	Zone string
}

func (AddObjective) structural() {}

func (cmd AddObjective) Run(c *Controller) {
	// One objective per zone; clicking an already-marked zone is a no-op.
	if c.state.Briefing.ObjectiveForZone(cmd.Zone) != nil {
		return
	}
	req := ObjectiveCreate{
		ZoneName: cmd.Zone,
		Priority: c.state.Briefing.NextObjectivePriority(),
	}
	var obj *Objective
	runStructural(c,
		func() (err error) {
			obj, err = c.server.CreateObjective(context.Background(), req)
			return
		},
		func(c *Controller) {
			// The click may have raced an earlier add for the same zone.
			if c.state.Briefing.ObjectiveForZone(cmd.Zone) == nil {
				c.state.Briefing.Objectives = append(c.state.Briefing.Objectives, *obj)
			}
		})
}

type DeleteObjective struct {
	ID string
}

func (DeleteObjective) structural() {}

func (cmd DeleteObjective) Run(c *Controller) {
	runStructural(c,
		func() error { return c.server.DeleteObjective(context.Background(), cmd.ID) },
		func(c *Controller) {
			c.state.Briefing.Objectives = util.FilterSlice(c.state.Briefing.Objectives,
				func(o Objective) bool { return o.ID != cmd.ID })
		})
}

type EditObjective struct {
	ID     string
	Update ObjectiveUpdate
}

func (cmd EditObjective) Run(c *Controller) {
	for i := range c.state.Briefing.Objectives {
		if obj := &c.state.Briefing.Objectives[i]; obj.ID == cmd.ID {
			if cmd.Update.MissionRequirements != nil {
				obj.MissionRequirements = *cmd.Update.MissionRequirements
			}
			if cmd.Update.Priority != nil {
				obj.Priority = *cmd.Update.Priority
			}
			if cmd.Update.Notes != nil {
				obj.Notes = *cmd.Update.Notes
			}
		}
	}
	id := cmd.ID
	upd := cmd.Update
	key := "objective/" + id
	send := func(ctx context.Context, seq uint64) {
		_, err := c.server.UpdateObjective(ctx, id, upd)
		c.autosave.finish(key, seq, err)
	}
	// Priority steps and mission toggles are click-driven and go out
	// immediately; notes ride the debounce window.
	if upd.Notes == nil {
		c.autosave.sendNow(key, send)
	} else {
		c.autosave.schedule(key, send)
	}
}

///////////////////////////////////////////////////////////////////////////
// Package and flight commands

type AddPackage struct{}

func (AddPackage) structural() {}

func (cmd AddPackage) Run(c *Controller) {
	req := PackageCreate{Name: c.state.Briefing.NextPackageName()}
	var p *Package
	runStructural(c,
		func() (err error) {
			p, err = c.server.CreatePackage(context.Background(), req)
			return
		},
		func(c *Controller) {
			c.state.Briefing.Packages = append(c.state.Briefing.Packages, *p)
		})
}

// DeletePackage removes the package and all of its flights; the server
// cascades the flight deletion.
type DeletePackage struct {
	ID string
}

func (DeletePackage) structural() {}

func (cmd DeletePackage) Run(c *Controller) {
	runStructural(c,
		func() error { return c.server.DeletePackage(context.Background(), cmd.ID) },
		func(c *Controller) {
			c.state.Briefing.Packages = util.FilterSlice(c.state.Briefing.Packages,
				func(p Package) bool { return p.ID != cmd.ID })
		})
}

type EditPackage struct {
	ID     string
	Update PackageUpdate
}

func (cmd EditPackage) Run(c *Controller) {
	if p := c.state.Briefing.FindPackage(cmd.ID); p != nil {
		if cmd.Update.Name != nil {
			p.Name = *cmd.Update.Name
		}
		if cmd.Update.TargetZone != nil {
			p.TargetZone = *cmd.Update.TargetZone
		}
		if cmd.Update.MissionType != nil {
			p.MissionType = *cmd.Update.MissionType
		}
		if cmd.Update.Notes != nil {
			p.Notes = *cmd.Update.Notes
		}
	}
	id := cmd.ID
	upd := cmd.Update
	key := "package/" + id
	send := func(ctx context.Context, seq uint64) {
		_, err := c.server.UpdatePackage(ctx, id, upd)
		c.autosave.finish(key, seq, err)
	}
	// Target zone and mission type come from selects and fire on the
	// click; name and notes are typed and debounce.
	if upd.Name == nil && upd.Notes == nil {
		c.autosave.sendNow(key, send)
	} else {
		c.autosave.schedule(key, send)
	}
}

type AddFlight struct {
	PackageID string
}

func (AddFlight) structural() {}

func (cmd AddFlight) Run(c *Controller) {
	pkg := c.state.Briefing.FindPackage(cmd.PackageID)
	if pkg == nil {
		return
	}
	req := FlightCreate{
		Callsign:     DefaultFlightCallsign,
		AircraftType: DefaultAircraftType,
		NumAircraft:  DefaultNumAircraft,
		MissionType:  pkg.MissionType,
	}
	var f *Flight
	runStructural(c,
		func() (err error) {
			f, err = c.server.CreateFlight(context.Background(), cmd.PackageID, req)
			return
		},
		func(c *Controller) {
			if pkg := c.state.Briefing.FindPackage(cmd.PackageID); pkg != nil {
				pkg.Flights = append(pkg.Flights, *f)
			}
		})
}

type DeleteFlight struct {
	PackageID string
	FlightID  string
}

func (DeleteFlight) structural() {}

func (cmd DeleteFlight) Run(c *Controller) {
	runStructural(c,
		func() error {
			return c.server.DeleteFlight(context.Background(), cmd.PackageID, cmd.FlightID)
		},
		func(c *Controller) {
			if pkg := c.state.Briefing.FindPackage(cmd.PackageID); pkg != nil {
				pkg.Flights = util.FilterSlice(pkg.Flights,
					func(f Flight) bool { return f.ID != cmd.FlightID })
			}
		})
}

type EditFlight struct {
	PackageID string
	FlightID  string
	Update    FlightUpdate
}

func (cmd EditFlight) Run(c *Controller) {
	if f := c.state.Briefing.FindFlight(cmd.PackageID, cmd.FlightID); f != nil {
		if cmd.Update.Callsign != nil {
			f.Callsign = *cmd.Update.Callsign
		}
		if cmd.Update.AircraftType != nil {
			f.AircraftType = *cmd.Update.AircraftType
		}
		if cmd.Update.NumAircraft != nil {
			f.NumAircraft = *cmd.Update.NumAircraft
		}
		if cmd.Update.MissionType != nil {
			f.MissionType = *cmd.Update.MissionType
		}
		if cmd.Update.PushTime != nil {
			f.PushTime = *cmd.Update.PushTime
		}
		if cmd.Update.TOT != nil {
			f.TOT = *cmd.Update.TOT
		}
		if cmd.Update.Notes != nil {
			f.Notes = *cmd.Update.Notes
		}
	}
	pkgID, fltID, upd := cmd.PackageID, cmd.FlightID, cmd.Update
	key := "flight/" + fltID
	send := func(ctx context.Context, seq uint64) {
		_, err := c.server.UpdateFlight(ctx, pkgID, fltID, upd)
		c.autosave.finish(key, seq, err)
	}
	// Mission type and aircraft count change by click; the text fields
	// debounce.
	if upd.MissionType != nil || upd.NumAircraft != nil {
		c.autosave.sendNow(key, send)
	} else {
		c.autosave.schedule(key, send)
	}
}

///////////////////////////////////////////////////////////////////////////
// Homeplate commands

type SetHomeplate struct {
	ID     string // empty to create
	Update HomeplateUpdate
}

func (SetHomeplate) structural() {}

func (cmd SetHomeplate) Run(c *Controller) {
	var h *Homeplate
	call := func() (err error) {
		if cmd.ID == "" {
			h, err = c.server.CreateHomeplate(context.Background(), cmd.Update)
		} else {
			h, err = c.server.UpdateHomeplate(context.Background(), cmd.ID, cmd.Update)
		}
		return
	}
	runStructural(c, call, func(c *Controller) {
		for i := range c.state.Briefing.Homeplates {
			if c.state.Briefing.Homeplates[i].ID == h.ID {
				c.state.Briefing.Homeplates[i] = *h
				return
			}
		}
		c.state.Briefing.Homeplates = append(c.state.Briefing.Homeplates, *h)
	})
}

// EditHomeplate applies a full-replace update to a homeplate's
// attributes and schedules a debounced save.  Creation and placement
// go through SetHomeplate; this handles the typed fields (TACAN,
// runway heading, frequencies).
type EditHomeplate struct {
	ID     string
	Update HomeplateUpdate
}

func (cmd EditHomeplate) Run(c *Controller) {
	for i := range c.state.Briefing.Homeplates {
		if h := &c.state.Briefing.Homeplates[i]; h.ID == cmd.ID {
			h.Name = cmd.Update.Name
			h.Latitude = cmd.Update.Latitude
			h.Longitude = cmd.Update.Longitude
			h.RunwayHeading = cmd.Update.RunwayHeading
			h.TACAN = cmd.Update.TACAN
			h.Frequencies = cmd.Update.Frequencies
		}
	}
	id := cmd.ID
	upd := cmd.Update
	key := "homeplate/" + id
	c.autosave.schedule(key, func(ctx context.Context, seq uint64) {
		_, err := c.server.UpdateHomeplate(ctx, id, upd)
		c.autosave.finish(key, seq, err)
	})
}

type DeleteHomeplate struct {
	ID string
}

func (DeleteHomeplate) structural() {}

func (cmd DeleteHomeplate) Run(c *Controller) {
	runStructural(c,
		func() error { return c.server.DeleteHomeplate(context.Background(), cmd.ID) },
		func(c *Controller) {
			c.state.Briefing.Homeplates = util.FilterSlice(c.state.Briefing.Homeplates,
				func(h Homeplate) bool { return h.ID != cmd.ID })
		})
}

///////////////////////////////////////////////////////////////////////////
// Briefing text commands

// EditBriefing applies a partial update to the briefing's text fields and
// schedules a debounced save; successive edits coalesce.
type EditBriefing struct {
	Update BriefingUpdate
}

func (cmd EditBriefing) Run(c *Controller) {
	b := c.state.Briefing
	if cmd.Update.Title != nil {
		b.Title = *cmd.Update.Title
	}
	if cmd.Update.MissionDate != nil {
		b.MissionDate = *cmd.Update.MissionDate
	}
	if cmd.Update.MissionTime != nil {
		b.MissionTime = *cmd.Update.MissionTime
	}
	if cmd.Update.Situation != nil {
		b.Situation = *cmd.Update.Situation
	}
	if cmd.Update.Weather != nil {
		b.Weather = *cmd.Update.Weather
	}
	if cmd.Update.CommsPlan != nil {
		b.CommsPlan = *cmd.Update.CommsPlan
	}
	if cmd.Update.Notes != nil {
		b.Notes = *cmd.Update.Notes
	}

	c.autosave.pendingBriefing.Merge(cmd.Update)
	upd := c.autosave.pendingBriefing
	c.autosave.schedule("briefing", func(ctx context.Context, seq uint64) {
		_, err := c.server.UpdateBriefing(ctx, upd)
		c.autosave.finish("briefing", seq, err)
	})
}

// FlushSaves sends any pending autosaves immediately; called before the
// window closes so the last edits aren't lost to the debounce window.
type FlushSaves struct{}

func (FlushSaves) Run(c *Controller) {
	c.autosave.flush()
}
