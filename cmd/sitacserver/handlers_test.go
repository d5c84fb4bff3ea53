// cmd/sitacserver/handlers_test.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foothold/sitac/briefing"
	"github.com/foothold/sitac/client"
)

// The tests drive the server through the real client so the URL scheme
// and error decoding are exercised on both ends at once.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := newStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	s := &server{
		store:     st,
		maps:      newMapSource("", nil),
		publicURL: "http://test.invalid",
	}
	srv := httptest.NewServer(s.routes())
	t.Cleanup(srv.Close)
	return srv
}

func createTestBriefing(t *testing.T, srv *httptest.Server) *briefing.BriefingCreateResponse {
	t.Helper()

	c := client.New(srv.URL, "", "", nil)
	resp, err := c.CreateBriefing(context.Background(),
		briefing.BriefingCreateRequest{Title: "Opening Moves", ServerName: "Foothold Syria"})
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func editClient(srv *httptest.Server, resp *briefing.BriefingCreateResponse) *client.Client {
	return client.New(srv.URL, resp.Briefing.ID, resp.Briefing.EditToken, nil)
}

func statusCode(t *testing.T, err error) int {
	t.Helper()
	var ce *client.Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected *client.Error, got %v", err)
	}
	return ce.StatusCode
}

func TestCreateBriefingLinks(t *testing.T) {
	srv := newTestServer(t)
	resp := createTestBriefing(t, srv)

	if resp.Briefing.ID == "" || resp.Briefing.EditToken == "" {
		t.Fatalf("missing id or token: %+v", resp.Briefing)
	}
	if want := "http://test.invalid/briefing/" + resp.Briefing.ID; resp.Links.ViewURL != want {
		t.Errorf("view URL %q, expected %q", resp.Links.ViewURL, want)
	}
	if !strings.Contains(resp.Links.EditURL, "?token="+resp.Briefing.EditToken) {
		t.Errorf("edit URL %q does not carry the token", resp.Links.EditURL)
	}
}

func TestEditTokenStripped(t *testing.T) {
	srv := newTestServer(t)
	resp := createTestBriefing(t, srv)

	ro := client.New(srv.URL, resp.Briefing.ID, "", nil)
	b, err := ro.GetBriefing(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if b.EditToken != "" {
		t.Errorf("read-only fetch leaked the edit token")
	}

	b, err = editClient(srv, resp).GetBriefing(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if b.EditToken != resp.Briefing.EditToken {
		t.Errorf("edit fetch did not return the token")
	}
}

func TestMutationRequiresToken(t *testing.T) {
	srv := newTestServer(t)
	resp := createTestBriefing(t, srv)

	bad := client.New(srv.URL, resp.Briefing.ID, "wrong", nil)
	title := "Renamed"
	_, err := bad.UpdateBriefing(context.Background(), briefing.BriefingUpdate{Title: &title})
	if code := statusCode(t, err); code != 403 {
		t.Errorf("got status %d, expected 403", code)
	}

	if _, err := editClient(srv, resp).UpdateBriefing(context.Background(),
		briefing.BriefingUpdate{Title: &title}); err != nil {
		t.Errorf("update with valid token: %v", err)
	}
}

func TestUnknownBriefing(t *testing.T) {
	srv := newTestServer(t)
	c := client.New(srv.URL, "nope", "", nil)
	_, err := c.GetBriefing(context.Background())
	if code := statusCode(t, err); code != 404 {
		t.Errorf("got status %d, expected 404", code)
	}
}

func TestPartialUpdate(t *testing.T) {
	srv := newTestServer(t)
	resp := createTestBriefing(t, srv)
	c := editClient(srv, resp)
	ctx := context.Background()

	situation := "Red holds the eastern sectors."
	b, err := c.UpdateBriefing(ctx, briefing.BriefingUpdate{Situation: &situation})
	if err != nil {
		t.Fatal(err)
	}
	if b.Situation != situation {
		t.Errorf("situation not updated: %q", b.Situation)
	}
	if b.Title != "Opening Moves" {
		t.Errorf("nil fields should be left alone; title became %q", b.Title)
	}
	if !b.UpdatedAt.After(resp.Briefing.UpdatedAt) {
		t.Errorf("UpdatedAt not refreshed")
	}
}

func TestObjectivePerZoneConflict(t *testing.T) {
	srv := newTestServer(t)
	resp := createTestBriefing(t, srv)
	c := editClient(srv, resp)
	ctx := context.Background()

	if _, err := c.CreateObjective(ctx, briefing.ObjectiveCreate{ZoneName: "Aleppo", Priority: 1}); err != nil {
		t.Fatal(err)
	}
	_, err := c.CreateObjective(ctx, briefing.ObjectiveCreate{ZoneName: "Aleppo", Priority: 2})
	if code := statusCode(t, err); code != 409 {
		t.Errorf("second objective for the zone: got status %d, expected 409", code)
	}
}

func TestPackageFlightLifecycle(t *testing.T) {
	srv := newTestServer(t)
	resp := createTestBriefing(t, srv)
	c := editClient(srv, resp)
	ctx := context.Background()

	// An empty name gets the next sequential package name.
	p, err := c.CreatePackage(ctx, briefing.PackageCreate{TargetZone: "Aleppo"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Package A" {
		t.Errorf("got package name %q", p.Name)
	}

	f, err := c.CreateFlight(ctx, p.ID, briefing.FlightCreate{})
	if err != nil {
		t.Fatal(err)
	}
	if f.Callsign != briefing.DefaultFlightCallsign || f.NumAircraft != briefing.DefaultNumAircraft {
		t.Errorf("defaults not applied: %+v", f)
	}

	n := 0
	_, err = c.UpdateFlight(ctx, p.ID, f.ID, briefing.FlightUpdate{NumAircraft: &n})
	if code := statusCode(t, err); code != 422 {
		t.Errorf("zero aircraft: got status %d, expected 422", code)
	}

	// Deleting the package takes its flights with it.
	if err := c.DeletePackage(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := c.UpdateFlight(ctx, p.ID, f.ID, briefing.FlightUpdate{}); err == nil {
		t.Errorf("flight survived its package")
	}
}

func TestZonesAndMap(t *testing.T) {
	srv := newTestServer(t)
	resp := createTestBriefing(t, srv)
	c := editClient(srv, resp)
	ctx := context.Background()

	zones, err := c.ListZones(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(zones) == 0 {
		t.Fatal("no zones from the sample mission")
	}

	data, err := c.GetMapData(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if data.FindZone(zones[0]) == nil {
		t.Errorf("zone %q missing from map data", zones[0])
	}
	if data.AgeSeconds < 0 {
		t.Errorf("negative data age %g", data.AgeSeconds)
	}
}

func TestExportPPTX(t *testing.T) {
	srv := newTestServer(t)
	resp := createTestBriefing(t, srv)
	c := editClient(srv, resp)

	img := base64.StdEncoding.EncodeToString([]byte("not really a jpeg"))
	pptx, err := c.ExportPPTX(context.Background(), img)
	if err != nil {
		t.Fatal(err)
	}

	zr, err := zip.NewReader(bytes.NewReader(pptx), int64(len(pptx)))
	if err != nil {
		t.Fatalf("export is not a zip: %v", err)
	}
	want := map[string]bool{
		"[Content_Types].xml":   false,
		"ppt/presentation.xml":  false,
		"ppt/slides/slide1.xml": false,
		"ppt/slides/slide2.xml": false,
		"ppt/media/image1.jpeg": false,
	}
	for _, f := range zr.File {
		if _, ok := want[f.Name]; ok {
			want[f.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s missing from exported deck", name)
		}
	}
}

func TestStorePersistence(t *testing.T) {
	dir := t.TempDir()
	st, err := newStore(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := &server{store: st, maps: newMapSource("", nil), publicURL: "http://test.invalid"}
	srv := httptest.NewServer(s.routes())
	defer srv.Close()

	resp := createTestBriefing(t, srv)

	// A second store over the same directory sees the briefing.
	st2, err := newStore(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, ok := st2.briefings[resp.Briefing.ID]
	if !ok {
		t.Fatal("briefing not persisted")
	}
	if b.Title != "Opening Moves" || b.EditToken != resp.Briefing.EditToken {
		t.Errorf("reloaded briefing %+v", b)
	}
}
