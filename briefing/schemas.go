// briefing/schemas.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package briefing

import (
	"context"
	"time"
)

// Request schemas for the briefing server's REST API.  Update types use
// pointer fields for partial updates; nil fields are left unchanged by
// the server.

type BriefingCreateRequest struct {
	ServerName  string `json:"server_name"`
	Title       string `json:"title"`
	MissionDate string `json:"mission_date,omitempty"`
	MissionTime string `json:"mission_time,omitempty"`
}

type BriefingUpdate struct {
	Title       *string `json:"title,omitempty"`
	MissionDate *string `json:"mission_date,omitempty"`
	MissionTime *string `json:"mission_time,omitempty"`
	Situation   *string `json:"situation,omitempty"`
	Weather     *string `json:"weather,omitempty"`
	CommsPlan   *string `json:"comms_plan,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// Merge overlays upd's non-nil fields, so successive edits within the
// debounce window coalesce into a single request.
func (u *BriefingUpdate) Merge(upd BriefingUpdate) {
	if upd.Title != nil {
		u.Title = upd.Title
	}
	if upd.MissionDate != nil {
		u.MissionDate = upd.MissionDate
	}
	if upd.MissionTime != nil {
		u.MissionTime = upd.MissionTime
	}
	if upd.Situation != nil {
		u.Situation = upd.Situation
	}
	if upd.Weather != nil {
		u.Weather = upd.Weather
	}
	if upd.CommsPlan != nil {
		u.CommsPlan = upd.CommsPlan
	}
	if upd.Notes != nil {
		u.Notes = upd.Notes
	}
}

type ObjectiveCreate struct {
	ZoneName            string        `json:"zone_name"`
	MissionRequirements []MissionType `json:"mission_requirements"`
	Priority            int           `json:"priority"`
	Notes               string        `json:"notes,omitempty"`
}

type ObjectiveUpdate struct {
	MissionRequirements *[]MissionType `json:"mission_requirements,omitempty"`
	Priority            *int           `json:"priority,omitempty"`
	Notes               *string        `json:"notes,omitempty"`
}

type PackageCreate struct {
	Name        string      `json:"name"`
	TargetZone  string      `json:"target_zone,omitempty"`
	MissionType MissionType `json:"mission_type,omitempty"`
	Notes       string      `json:"notes,omitempty"`
}

type PackageUpdate struct {
	Name        *string      `json:"name,omitempty"`
	TargetZone  *string      `json:"target_zone,omitempty"`
	MissionType *MissionType `json:"mission_type,omitempty"`
	Notes       *string      `json:"notes,omitempty"`
}

type FlightCreate struct {
	Callsign     string      `json:"callsign"`
	AircraftType string      `json:"aircraft_type"`
	NumAircraft  int         `json:"num_aircraft"`
	MissionType  MissionType `json:"mission_type"`
	PushTime     string      `json:"push_time,omitempty"`
	TOT          string      `json:"tot,omitempty"`
	Notes        string      `json:"notes,omitempty"`
}

type FlightUpdate struct {
	Callsign     *string      `json:"callsign,omitempty"`
	AircraftType *string      `json:"aircraft_type,omitempty"`
	NumAircraft  *int         `json:"num_aircraft,omitempty"`
	MissionType  *MissionType `json:"mission_type,omitempty"`
	PushTime     *string      `json:"push_time,omitempty"`
	TOT          *string      `json:"tot,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
}

type HomeplateUpdate struct {
	Name          string   `json:"name"`
	Latitude      float32  `json:"latitude"`
	Longitude     float32  `json:"longitude"`
	RunwayHeading int      `json:"runway_heading,omitempty"`
	TACAN         string   `json:"tacan,omitempty"`
	Frequencies   []string `json:"frequencies"`
}

// BriefingLinks carries the shareable URLs the server mints when a
// briefing is created.
type BriefingLinks struct {
	ViewURL string `json:"view_url"`
	EditURL string `json:"edit_url"`
}

type BriefingCreateResponse struct {
	Briefing Briefing      `json:"briefing"`
	Links    BriefingLinks `json:"links"`
}

type BriefingListItem struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	ServerName      string    `json:"server_name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	PackagesCount   int       `json:"packages_count"`
	ObjectivesCount int       `json:"objectives_count"`
}

// Server is the slice of the REST API the editor needs; client.Client is
// the production implementation.
type Server interface {
	GetBriefing(ctx context.Context) (*Briefing, error)
	UpdateBriefing(ctx context.Context, upd BriefingUpdate) (*Briefing, error)

	CreateObjective(ctx context.Context, req ObjectiveCreate) (*Objective, error)
	UpdateObjective(ctx context.Context, id string, upd ObjectiveUpdate) (*Objective, error)
	DeleteObjective(ctx context.Context, id string) error

	CreatePackage(ctx context.Context, req PackageCreate) (*Package, error)
	UpdatePackage(ctx context.Context, id string, upd PackageUpdate) (*Package, error)
	DeletePackage(ctx context.Context, id string) error

	CreateFlight(ctx context.Context, packageID string, req FlightCreate) (*Flight, error)
	UpdateFlight(ctx context.Context, packageID, flightID string, upd FlightUpdate) (*Flight, error)
	DeleteFlight(ctx context.Context, packageID, flightID string) error

	CreateHomeplate(ctx context.Context, req HomeplateUpdate) (*Homeplate, error)
	UpdateHomeplate(ctx context.Context, id string, req HomeplateUpdate) (*Homeplate, error)
	DeleteHomeplate(ctx context.Context, id string) error

	ListZones(ctx context.Context) ([]string, error)
	ExportPPTX(ctx context.Context, mapImage string) ([]byte, error)
}
