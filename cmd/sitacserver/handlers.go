// cmd/sitacserver/handlers.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/foothold/sitac/briefing"
	"github.com/foothold/sitac/log"

	"github.com/gorilla/mux"
)

type server struct {
	store     *store
	maps      *mapSource
	publicURL string
	lg        *log.Logger
}

// routes builds the router; the URL scheme here must stay in sync with
// client.Client.
func (s *server) routes() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/briefing").Subrouter()

	api.HandleFunc("", s.handleList).Methods("GET")
	api.HandleFunc("", s.handleCreate).Methods("POST")

	api.HandleFunc("/{id}", s.withBriefing(false, s.handleGet)).Methods("GET")
	api.HandleFunc("/{id}", s.withBriefing(true, s.handleUpdate)).Methods("PUT")
	api.HandleFunc("/{id}", s.withBriefing(true, s.handleDelete)).Methods("DELETE")

	api.HandleFunc("/{id}/objectives", s.withBriefing(true, s.handleCreateObjective)).Methods("POST")
	api.HandleFunc("/{id}/objectives/{oid}", s.withBriefing(true, s.handleUpdateObjective)).Methods("PUT")
	api.HandleFunc("/{id}/objectives/{oid}", s.withBriefing(true, s.handleDeleteObjective)).Methods("DELETE")

	api.HandleFunc("/{id}/packages", s.withBriefing(true, s.handleCreatePackage)).Methods("POST")
	api.HandleFunc("/{id}/packages/{pid}", s.withBriefing(true, s.handleUpdatePackage)).Methods("PUT")
	api.HandleFunc("/{id}/packages/{pid}", s.withBriefing(true, s.handleDeletePackage)).Methods("DELETE")

	api.HandleFunc("/{id}/packages/{pid}/flights", s.withBriefing(true, s.handleCreateFlight)).Methods("POST")
	api.HandleFunc("/{id}/packages/{pid}/flights/{fid}", s.withBriefing(true, s.handleUpdateFlight)).Methods("PUT")
	api.HandleFunc("/{id}/packages/{pid}/flights/{fid}", s.withBriefing(true, s.handleDeleteFlight)).Methods("DELETE")

	api.HandleFunc("/{id}/homeplates", s.withBriefing(true, s.handleCreateHomeplate)).Methods("POST")
	api.HandleFunc("/{id}/homeplates/{hid}", s.withBriefing(true, s.handleUpdateHomeplate)).Methods("PUT")
	api.HandleFunc("/{id}/homeplates/{hid}", s.withBriefing(true, s.handleDeleteHomeplate)).Methods("DELETE")

	api.HandleFunc("/{id}/zones", s.withBriefing(false, s.handleZones)).Methods("GET")
	api.HandleFunc("/{id}/map", s.withBriefing(false, s.handleMap)).Methods("GET")
	api.HandleFunc("/{id}/export/pptx", s.withBriefing(false, s.handleExport)).Methods("POST")

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError mirrors the FastAPI error shape the client expects, with
// the message under "detail".
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return false
	}
	return true
}

// withBriefing looks up the briefing from the URL and, for mutating
// handlers, checks the edit token before running h.  The store lock is
// held across h so handlers can mutate the briefing freely.
func (s *server) withBriefing(edit bool, h func(http.ResponseWriter, *http.Request, *briefing.Briefing)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.store.mu.Lock()
		defer s.store.mu.Unlock()

		b, ok := s.store.briefings[mux.Vars(r)["id"]]
		if !ok {
			writeError(w, http.StatusNotFound, "briefing not found")
			return
		}
		if edit && r.URL.Query().Get("token") != b.EditToken {
			writeError(w, http.StatusForbidden, "invalid or missing edit token")
			return
		}

		// Stamp before running h so the response body carries the new
		// time.  A rejected mutation bumps it too, which is harmless.
		if edit {
			b.UpdatedAt = time.Now().UTC()
		}

		h(w, r, b)

		if edit {
			s.store.save(s.lg)
		}
	}
}

///////////////////////////////////////////////////////////////////////////
// Briefings

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	items := []briefing.BriefingListItem{}
	for _, b := range s.store.sorted() {
		items = append(items, briefing.BriefingListItem{
			ID:              b.ID,
			Title:           b.Title,
			ServerName:      b.ServerName,
			CreatedAt:       b.CreatedAt,
			UpdatedAt:       b.UpdatedAt,
			PackagesCount:   len(b.Packages),
			ObjectivesCount: len(b.Objectives),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req briefing.BriefingCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusUnprocessableEntity, "title is required")
		return
	}

	now := time.Now().UTC()
	b := &briefing.Briefing{
		ID:          newID(),
		EditToken:   newEditToken(),
		ServerName:  req.ServerName,
		Title:       req.Title,
		MissionDate: req.MissionDate,
		MissionTime: req.MissionTime,
		CreatedAt:   now,
		UpdatedAt:   now,
		Homeplates:  []briefing.Homeplate{},
		Objectives:  []briefing.Objective{},
		Packages:    []briefing.Package{},
	}

	s.store.mu.Lock()
	s.store.briefings[b.ID] = b
	s.store.save(s.lg)
	s.store.mu.Unlock()

	writeJSON(w, http.StatusCreated, briefing.BriefingCreateResponse{
		Briefing: *b,
		Links: briefing.BriefingLinks{
			ViewURL: s.publicURL + "/briefing/" + b.ID,
			EditURL: s.publicURL + "/briefing/" + b.ID + "?token=" + b.EditToken,
		},
	})
}

func (s *server) handleGet(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	// The edit token only goes out to callers that already have it.
	resp := *b
	if r.URL.Query().Get("token") != b.EditToken {
		resp.EditToken = ""
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleUpdate(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	var upd briefing.BriefingUpdate
	if !decodeBody(w, r, &upd) {
		return
	}

	if upd.Title != nil {
		b.Title = *upd.Title
	}
	if upd.MissionDate != nil {
		b.MissionDate = *upd.MissionDate
	}
	if upd.MissionTime != nil {
		b.MissionTime = *upd.MissionTime
	}
	if upd.Situation != nil {
		b.Situation = *upd.Situation
	}
	if upd.Weather != nil {
		b.Weather = *upd.Weather
	}
	if upd.CommsPlan != nil {
		b.CommsPlan = *upd.CommsPlan
	}
	if upd.Notes != nil {
		b.Notes = *upd.Notes
	}

	writeJSON(w, http.StatusOK, *b)
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	delete(s.store.briefings, b.ID)
	w.WriteHeader(http.StatusNoContent)
}

///////////////////////////////////////////////////////////////////////////
// Objectives

func (s *server) handleCreateObjective(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	var req briefing.ObjectiveCreate
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ZoneName == "" {
		writeError(w, http.StatusUnprocessableEntity, "zone_name is required")
		return
	}
	// One objective per zone; creating a second is a conflict rather
	// than a silent duplicate.
	if b.ObjectiveForZone(req.ZoneName) != nil {
		writeError(w, http.StatusConflict, "zone already has an objective")
		return
	}

	obj := briefing.Objective{
		ID:                  newID(),
		ZoneName:            req.ZoneName,
		MissionRequirements: req.MissionRequirements,
		Priority:            req.Priority,
		Notes:               req.Notes,
	}
	b.Objectives = append(b.Objectives, obj)
	writeJSON(w, http.StatusCreated, obj)
}

func (s *server) handleUpdateObjective(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	var upd briefing.ObjectiveUpdate
	if !decodeBody(w, r, &upd) {
		return
	}

	for i := range b.Objectives {
		obj := &b.Objectives[i]
		if obj.ID != mux.Vars(r)["oid"] {
			continue
		}
		if upd.MissionRequirements != nil {
			obj.MissionRequirements = *upd.MissionRequirements
		}
		if upd.Priority != nil {
			obj.Priority = *upd.Priority
		}
		if upd.Notes != nil {
			obj.Notes = *upd.Notes
		}
		writeJSON(w, http.StatusOK, *obj)
		return
	}
	writeError(w, http.StatusNotFound, "objective not found")
}

func (s *server) handleDeleteObjective(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	for i := range b.Objectives {
		if b.Objectives[i].ID == mux.Vars(r)["oid"] {
			b.Objectives = append(b.Objectives[:i], b.Objectives[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "objective not found")
}

///////////////////////////////////////////////////////////////////////////
// Packages and flights

func (s *server) handleCreatePackage(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	var req briefing.PackageCreate
	if !decodeBody(w, r, &req) {
		return
	}

	p := briefing.Package{
		ID:          newID(),
		Name:        req.Name,
		TargetZone:  req.TargetZone,
		MissionType: req.MissionType,
		Notes:       req.Notes,
		Flights:     []briefing.Flight{},
	}
	if p.Name == "" {
		p.Name = b.NextPackageName()
	}
	b.Packages = append(b.Packages, p)
	writeJSON(w, http.StatusCreated, p)
}

func (s *server) handleUpdatePackage(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	var upd briefing.PackageUpdate
	if !decodeBody(w, r, &upd) {
		return
	}

	p := b.FindPackage(mux.Vars(r)["pid"])
	if p == nil {
		writeError(w, http.StatusNotFound, "package not found")
		return
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.TargetZone != nil {
		p.TargetZone = *upd.TargetZone
	}
	if upd.MissionType != nil {
		p.MissionType = *upd.MissionType
	}
	if upd.Notes != nil {
		p.Notes = *upd.Notes
	}
	writeJSON(w, http.StatusOK, *p)
}

func (s *server) handleDeletePackage(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	for i := range b.Packages {
		if b.Packages[i].ID == mux.Vars(r)["pid"] {
			// Flights go with their package.
			b.Packages = append(b.Packages[:i], b.Packages[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "package not found")
}

func (s *server) handleCreateFlight(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	var req briefing.FlightCreate
	if !decodeBody(w, r, &req) {
		return
	}

	p := b.FindPackage(mux.Vars(r)["pid"])
	if p == nil {
		writeError(w, http.StatusNotFound, "package not found")
		return
	}

	f := briefing.Flight{
		ID:           newID(),
		Callsign:     req.Callsign,
		AircraftType: req.AircraftType,
		NumAircraft:  req.NumAircraft,
		MissionType:  req.MissionType,
		PushTime:     req.PushTime,
		TOT:          req.TOT,
		Notes:        req.Notes,
		Waypoints:    []briefing.Waypoint{},
	}
	if f.Callsign == "" {
		f.Callsign = briefing.DefaultFlightCallsign
	}
	if f.AircraftType == "" {
		f.AircraftType = briefing.DefaultAircraftType
	}
	if f.NumAircraft <= 0 {
		f.NumAircraft = briefing.DefaultNumAircraft
	}
	p.Flights = append(p.Flights, f)
	writeJSON(w, http.StatusCreated, f)
}

func (s *server) handleUpdateFlight(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	var upd briefing.FlightUpdate
	if !decodeBody(w, r, &upd) {
		return
	}

	f := b.FindFlight(mux.Vars(r)["pid"], mux.Vars(r)["fid"])
	if f == nil {
		writeError(w, http.StatusNotFound, "flight not found")
		return
	}
	if upd.Callsign != nil {
		f.Callsign = *upd.Callsign
	}
	if upd.AircraftType != nil {
		f.AircraftType = *upd.AircraftType
	}
	if upd.NumAircraft != nil {
		if *upd.NumAircraft <= 0 {
			writeError(w, http.StatusUnprocessableEntity, "num_aircraft must be positive")
			return
		}
		f.NumAircraft = *upd.NumAircraft
	}
	if upd.MissionType != nil {
		f.MissionType = *upd.MissionType
	}
	if upd.PushTime != nil {
		f.PushTime = *upd.PushTime
	}
	if upd.TOT != nil {
		f.TOT = *upd.TOT
	}
	if upd.Notes != nil {
		f.Notes = *upd.Notes
	}
	writeJSON(w, http.StatusOK, *f)
}

func (s *server) handleDeleteFlight(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	p := b.FindPackage(mux.Vars(r)["pid"])
	if p == nil {
		writeError(w, http.StatusNotFound, "package not found")
		return
	}
	for i := range p.Flights {
		if p.Flights[i].ID == mux.Vars(r)["fid"] {
			p.Flights = append(p.Flights[:i], p.Flights[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "flight not found")
}

///////////////////////////////////////////////////////////////////////////
// Homeplates

func (s *server) handleCreateHomeplate(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	var req briefing.HomeplateUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}

	h := briefing.Homeplate{
		ID:            newID(),
		Name:          req.Name,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		RunwayHeading: req.RunwayHeading,
		TACAN:         req.TACAN,
		Frequencies:   req.Frequencies,
	}
	if h.Frequencies == nil {
		h.Frequencies = []string{}
	}
	b.Homeplates = append(b.Homeplates, h)
	writeJSON(w, http.StatusCreated, h)
}

func (s *server) handleUpdateHomeplate(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	var req briefing.HomeplateUpdate
	if !decodeBody(w, r, &req) {
		return
	}

	for i := range b.Homeplates {
		h := &b.Homeplates[i]
		if h.ID != mux.Vars(r)["hid"] {
			continue
		}
		h.Name = req.Name
		h.Latitude = req.Latitude
		h.Longitude = req.Longitude
		h.RunwayHeading = req.RunwayHeading
		h.TACAN = req.TACAN
		if req.Frequencies != nil {
			h.Frequencies = req.Frequencies
		}
		writeJSON(w, http.StatusOK, *h)
		return
	}
	writeError(w, http.StatusNotFound, "homeplate not found")
}

func (s *server) handleDeleteHomeplate(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	for i := range b.Homeplates {
		if b.Homeplates[i].ID == mux.Vars(r)["hid"] {
			b.Homeplates = append(b.Homeplates[:i], b.Homeplates[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "homeplate not found")
}

///////////////////////////////////////////////////////////////////////////
// Zones, map data, export

func (s *server) handleZones(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	names := s.maps.zoneNames()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *server) handleMap(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	data := s.maps.current()
	if data == nil {
		writeError(w, http.StatusServiceUnavailable, "no mission data available")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request, b *briefing.Briefing) {
	var req struct {
		MapImage string `json:"map_image"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	pptx, err := buildPPTX(b, req.MapImage)
	if err != nil {
		s.lg.Errorf("export: %v", err)
		writeError(w, http.StatusInternalServerError, "unable to generate presentation")
		return
	}

	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pptx)
}
