// briefing/commands_test.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package briefing

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

// fakeServer implements Server in-memory; Fail makes every mutating call
// return an error, and if Gate is non-nil each objective update blocks
// until the test sends a response on the channel it receives.
type fakeServer struct {
	briefing Briefing
	zones    []string
	nextID   int

	Fail bool
	Gate chan chan error

	objectiveUpdates []ObjectiveUpdate
	briefingUpdates  []BriefingUpdate
	homeplateUpdates []HomeplateUpdate
}

var errFake = errors.New("insufficient credits")

func (s *fakeServer) id() string {
	s.nextID++
	return "id" + strconv.Itoa(s.nextID)
}

func (s *fakeServer) GetBriefing(ctx context.Context) (*Briefing, error) {
	b := s.briefing
	return &b, nil
}

func (s *fakeServer) UpdateBriefing(ctx context.Context, upd BriefingUpdate) (*Briefing, error) {
	if s.Fail {
		return nil, errFake
	}
	s.briefingUpdates = append(s.briefingUpdates, upd)
	b := s.briefing
	return &b, nil
}

func (s *fakeServer) CreateObjective(ctx context.Context, req ObjectiveCreate) (*Objective, error) {
	if s.Fail {
		return nil, errFake
	}
	return &Objective{ID: s.id(), ZoneName: req.ZoneName, Priority: req.Priority}, nil
}

func (s *fakeServer) UpdateObjective(ctx context.Context, id string, upd ObjectiveUpdate) (*Objective, error) {
	if s.Gate != nil {
		resp := make(chan error)
		s.Gate <- resp
		if err := <-resp; err != nil {
			return nil, err
		}
	} else if s.Fail {
		return nil, errFake
	}
	s.objectiveUpdates = append(s.objectiveUpdates, upd)
	return &Objective{ID: id}, nil
}

func (s *fakeServer) DeleteObjective(ctx context.Context, id string) error {
	if s.Fail {
		return errFake
	}
	return nil
}

func (s *fakeServer) CreatePackage(ctx context.Context, req PackageCreate) (*Package, error) {
	if s.Fail {
		return nil, errFake
	}
	return &Package{ID: s.id(), Name: req.Name}, nil
}

func (s *fakeServer) UpdatePackage(ctx context.Context, id string, upd PackageUpdate) (*Package, error) {
	if s.Fail {
		return nil, errFake
	}
	return &Package{ID: id}, nil
}

func (s *fakeServer) DeletePackage(ctx context.Context, id string) error {
	if s.Fail {
		return errFake
	}
	return nil
}

func (s *fakeServer) CreateFlight(ctx context.Context, packageID string, req FlightCreate) (*Flight, error) {
	if s.Fail {
		return nil, errFake
	}
	return &Flight{ID: s.id(), Callsign: req.Callsign, AircraftType: req.AircraftType,
		NumAircraft: req.NumAircraft, MissionType: req.MissionType}, nil
}

func (s *fakeServer) UpdateFlight(ctx context.Context, packageID, flightID string, upd FlightUpdate) (*Flight, error) {
	if s.Fail {
		return nil, errFake
	}
	return &Flight{ID: flightID}, nil
}

func (s *fakeServer) DeleteFlight(ctx context.Context, packageID, flightID string) error {
	if s.Fail {
		return errFake
	}
	return nil
}

func (s *fakeServer) CreateHomeplate(ctx context.Context, req HomeplateUpdate) (*Homeplate, error) {
	if s.Fail {
		return nil, errFake
	}
	return &Homeplate{ID: s.id(), Name: req.Name, Latitude: req.Latitude, Longitude: req.Longitude}, nil
}

func (s *fakeServer) UpdateHomeplate(ctx context.Context, id string, req HomeplateUpdate) (*Homeplate, error) {
	if s.Fail {
		return nil, errFake
	}
	s.homeplateUpdates = append(s.homeplateUpdates, req)
	return &Homeplate{ID: id, Name: req.Name, Latitude: req.Latitude, Longitude: req.Longitude,
		RunwayHeading: req.RunwayHeading, TACAN: req.TACAN, Frequencies: req.Frequencies}, nil
}

func (s *fakeServer) DeleteHomeplate(ctx context.Context, id string) error {
	if s.Fail {
		return errFake
	}
	return nil
}

func (s *fakeServer) ListZones(ctx context.Context) ([]string, error) {
	return s.zones, nil
}

func (s *fakeServer) ExportPPTX(ctx context.Context, mapImage string) ([]byte, error) {
	if s.Fail {
		return nil, errFake
	}
	return []byte("PK fake pptx"), nil
}

func newTestController(t *testing.T, sv *fakeServer) *Controller {
	t.Helper()
	c := NewController(sv, true, nil)
	c.Load(context.Background())
	waitFor(t, c, func() bool { return c.State().Briefing != nil })
	return c
}

// waitFor pumps the controller's frame update until cond holds.
func waitFor(t *testing.T, c *Controller, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for controller state")
		}
		c.Update()
		time.Sleep(time.Millisecond)
	}
}

func settled(c *Controller) func() bool {
	return func() bool { return !c.State().StructuralBusy }
}

func TestAddObjectiveIdempotent(t *testing.T) {
	sv := &fakeServer{briefing: Briefing{ID: "b1", Title: "Test"}}
	c := newTestController(t, sv)

	c.Dispatch(AddObjective{Zone: "Kutaisi"})
	waitFor(t, c, settled(c))
	c.Dispatch(AddObjective{Zone: "Kutaisi"})
	waitFor(t, c, settled(c))

	if n := len(c.State().Briefing.Objectives); n != 1 {
		t.Errorf("%d objectives for zone after double add, expected 1", n)
	}
	if obj := c.State().Briefing.ObjectiveForZone("Kutaisi"); obj == nil {
		t.Error("objective for zone not found")
	} else if obj.Priority != 1 {
		t.Errorf("priority %d, expected 1", obj.Priority)
	}
}

func TestStructuralMutationServerFirst(t *testing.T) {
	sv := &fakeServer{briefing: Briefing{ID: "b1", Title: "Test"}}
	c := newTestController(t, sv)

	c.Dispatch(AddPackage{})
	// Nothing is applied locally until the server's response has been
	// processed on the frame loop.
	if len(c.State().Briefing.Packages) != 0 {
		t.Error("package appeared locally before server response")
	}
	if !c.State().StructuralBusy {
		t.Error("StructuralBusy not set while the create is in flight")
	}
	waitFor(t, c, settled(c))

	pkgs := c.State().Briefing.Packages
	if len(pkgs) != 1 {
		t.Fatalf("%d packages, expected 1", len(pkgs))
	}
	if pkgs[0].Name != "Package A" {
		t.Errorf("package name %q", pkgs[0].Name)
	}
}

func TestStructuralMutationFailure(t *testing.T) {
	sv := &fakeServer{briefing: Briefing{ID: "b1", Title: "Test"}}
	c := newTestController(t, sv)

	c.Dispatch(AddPackage{})
	waitFor(t, c, settled(c))
	if len(c.State().Briefing.Packages) != 1 {
		t.Fatal("setup add failed")
	}

	sv.Fail = true
	c.Dispatch(AddPackage{})
	waitFor(t, c, settled(c))

	st := c.State()
	if st.MutationError == "" {
		t.Error("no mutation error surfaced for rejected create")
	}
	if len(st.Briefing.Packages) != 1 {
		t.Errorf("%d packages after rejected create, expected 1", len(st.Briefing.Packages))
	}

	c.AcknowledgeMutationError()
	if c.State().MutationError != "" {
		t.Error("mutation error not cleared")
	}
}

func TestDeletePackage(t *testing.T) {
	sv := &fakeServer{briefing: Briefing{ID: "b1", Title: "Test"}}
	c := newTestController(t, sv)

	c.Dispatch(AddPackage{})
	waitFor(t, c, settled(c))
	pkgID := c.State().Briefing.Packages[0].ID

	c.Dispatch(AddFlight{PackageID: pkgID})
	waitFor(t, c, settled(c))
	if len(c.State().Briefing.Packages[0].Flights) != 1 {
		t.Fatal("flight not added")
	}

	c.Dispatch(DeletePackage{ID: pkgID})
	waitFor(t, c, settled(c))
	if len(c.State().Briefing.Packages) != 0 {
		t.Error("package not removed with its flights")
	}
}

func TestReadOnlyDispatch(t *testing.T) {
	sv := &fakeServer{briefing: Briefing{ID: "b1", Title: "Test"}}
	c := NewController(sv, false, nil)
	c.Load(context.Background())
	waitFor(t, c, func() bool { return c.State().Briefing != nil })

	c.Dispatch(AddPackage{})
	time.Sleep(10 * time.Millisecond)
	c.Update()

	if len(c.State().Briefing.Packages) != 0 {
		t.Error("mutation ran without edit rights")
	}
}

func TestExportReenable(t *testing.T) {
	sv := &fakeServer{briefing: Briefing{ID: "b1", Title: "Alpha Strike"}}
	c := newTestController(t, sv)

	dir := t.TempDir()
	var suggested string
	c.StartExport([]byte{0xff, 0xd8}, func(defaultName string) (string, error) {
		suggested = defaultName
		return dir + "/" + defaultName, nil
	})
	if !c.State().ExportBusy {
		t.Error("export not marked busy")
	}
	waitFor(t, c, func() bool { return !c.State().ExportBusy })

	if suggested != "Alpha_Strike_briefing.pptx" {
		t.Errorf("suggested filename %q", suggested)
	}
	if c.State().ExportError != "" {
		t.Errorf("export error %q", c.State().ExportError)
	}

	// A failing export still re-enables the button.
	sv.Fail = true
	c.StartExport(nil, func(string) (string, error) { return "", nil })
	waitFor(t, c, func() bool { return !c.State().ExportBusy })
	if c.State().ExportError == "" {
		t.Error("export failure not surfaced")
	}
}
