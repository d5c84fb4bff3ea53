// client/client_test.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foothold/sitac/briefing"
	"github.com/foothold/sitac/log"
)

// A nil Logger falls back to the default slog handler, which is all the
// tests need.
func testLogger() *log.Logger {
	return nil
}

func TestEditTokenQueryParam(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token")
		json.NewEncoder(w).Encode(briefing.Briefing{ID: "b1"})
	}))
	defer srv.Close()

	c := New(srv.URL, "b1", "secret", testLogger())
	if _, err := c.GetBriefing(context.Background()); err != nil {
		t.Fatalf("GetBriefing: %v", err)
	}
	if gotToken != "secret" {
		t.Errorf("token query param %q, expected \"secret\"", gotToken)
	}

	// Without an edit token no token parameter should be sent at all.
	gotToken = "unset"
	ro := New(srv.URL, "b1", "", testLogger())
	if ro.CanEdit() {
		t.Errorf("client without token reports CanEdit")
	}
	if _, err := ro.GetBriefing(context.Background()); err != nil {
		t.Fatalf("GetBriefing: %v", err)
	}
	if gotToken != "" {
		t.Errorf("token query param %q, expected none", gotToken)
	}
}

func TestErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"detail": "invalid edit token"})
	}))
	defer srv.Close()

	c := New(srv.URL, "b1", "stale", testLogger())
	_, err := c.UpdateBriefing(context.Background(), briefing.BriefingUpdate{})
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if s := ErrorStatus(err); s != http.StatusForbidden {
		t.Errorf("ErrorStatus = %d, expected 403", s)
	}
	if e := err.(*Error); e.Message != "invalid edit token" {
		t.Errorf("error message %q", e.Message)
	}
}

func TestNoContentResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "b1", "secret", testLogger())
	if err := c.DeleteObjective(context.Background(), "obj1"); err != nil {
		t.Errorf("DeleteObjective with 204 response: %v", err)
	}
}

func TestGetMapData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/briefing/b1/map" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"updated_at":  "2026-03-01T12:00:00Z",
			"age_seconds": 12.5,
			"zones": []map[string]any{
				{"name": "Kutaisi", "lat": 42.18, "lon": 42.48, "side": 2, "level": 3},
			},
			"red_credits":  100,
			"blue_credits": 250,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "b1", "", testLogger())
	m, err := c.GetMapData(context.Background())
	if err != nil {
		t.Fatalf("GetMapData: %v", err)
	}
	if m.AgeSeconds != 12.5 {
		t.Errorf("AgeSeconds = %v", m.AgeSeconds)
	}
	if len(m.Zones) != 1 || m.Zones[0].Side != briefing.SideBlue {
		t.Errorf("zones decoded incorrectly: %+v", m.Zones)
	}
	if m.BlueCredits != 250 {
		t.Errorf("BlueCredits = %v", m.BlueCredits)
	}
}

func TestCreateFlightPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req briefing.FlightCreate
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(briefing.Flight{ID: "f1", Callsign: req.Callsign})
	}))
	defer srv.Close()

	c := New(srv.URL, "b1", "secret", testLogger())
	f, err := c.CreateFlight(context.Background(), "pkg1", briefing.FlightCreate{
		Callsign:     "Uzi 1",
		AircraftType: "F-16C",
		NumAircraft:  2,
		MissionType:  briefing.MissionCAP,
	})
	if err != nil {
		t.Fatalf("CreateFlight: %v", err)
	}
	if gotPath != "/api/briefing/b1/packages/pkg1/flights" {
		t.Errorf("request path %s", gotPath)
	}
	if f.Callsign != "Uzi 1" {
		t.Errorf("callsign %q", f.Callsign)
	}
}
