// client/client.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package client speaks the briefing server's REST API.  All mutating
// calls require the briefing's edit token, which is sent as a query
// parameter on every request when the client is in edit mode.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/foothold/sitac/briefing"
	"github.com/foothold/sitac/log"
)

// Error is returned for any non-2xx server response; it carries the HTTP
// status so callers can distinguish, e.g., a revoked token (403) from a
// deleted briefing (404).
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return "server returned " + strconv.Itoa(e.StatusCode)
}

// ErrorStatus returns the HTTP status carried by err, or 0 if err didn't
// come from a server response.
func ErrorStatus(err error) int {
	if e, ok := err.(*Error); ok {
		return e.StatusCode
	}
	return 0
}

type Client struct {
	BaseURL    string
	BriefingID string

	editToken  string
	httpClient *http.Client
	lg         *log.Logger
}

func New(baseURL, briefingID, editToken string, lg *log.Logger) *Client {
	return &Client{
		BaseURL:    baseURL,
		BriefingID: briefingID,
		editToken:  editToken,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		lg:         lg,
	}
}

// CanEdit reports whether the client holds an edit token; without one the
// UI is read-only and no mutating calls are made.
func (c *Client) CanEdit() bool {
	return c.editToken != ""
}

func (c *Client) briefingURL(path string) string {
	u := c.BaseURL + "/api/briefing"
	if path != "" {
		u += path
	}
	if c.editToken != "" {
		u += "?token=" + url.QueryEscape(c.editToken)
	}
	return u
}

// do issues the request and decodes the JSON response into result.  A 204
// response leaves result untouched and returns nil.
func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.briefingURL(path), rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.lg.Warnf("%s %s: %v", method, path, err)
		return err
	}
	defer resp.Body.Close()

	c.lg.Debugf("%s %s: %d in %s", method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// FastAPI-style error bodies carry the message in "detail".
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&detail)
		return &Error{StatusCode: resp.StatusCode, Message: detail.Detail}
	}

	if resp.StatusCode == http.StatusNoContent || result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

///////////////////////////////////////////////////////////////////////////
// Briefings

func (c *Client) ListBriefings(ctx context.Context) ([]briefing.BriefingListItem, error) {
	var items []briefing.BriefingListItem
	err := c.do(ctx, http.MethodGet, "", nil, &items)
	return items, err
}

func (c *Client) CreateBriefing(ctx context.Context, req briefing.BriefingCreateRequest) (*briefing.BriefingCreateResponse, error) {
	var resp briefing.BriefingCreateResponse
	if err := c.do(ctx, http.MethodPost, "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetBriefing(ctx context.Context) (*briefing.Briefing, error) {
	var b briefing.Briefing
	if err := c.do(ctx, http.MethodGet, "/"+c.BriefingID, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) UpdateBriefing(ctx context.Context, upd briefing.BriefingUpdate) (*briefing.Briefing, error) {
	var b briefing.Briefing
	if err := c.do(ctx, http.MethodPut, "/"+c.BriefingID, upd, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) DeleteBriefing(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/"+c.BriefingID, nil, nil)
}

///////////////////////////////////////////////////////////////////////////
// Objectives

func (c *Client) CreateObjective(ctx context.Context, req briefing.ObjectiveCreate) (*briefing.Objective, error) {
	var obj briefing.Objective
	if err := c.do(ctx, http.MethodPost, "/"+c.BriefingID+"/objectives", req, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

func (c *Client) UpdateObjective(ctx context.Context, id string, upd briefing.ObjectiveUpdate) (*briefing.Objective, error) {
	var obj briefing.Objective
	if err := c.do(ctx, http.MethodPut, "/"+c.BriefingID+"/objectives/"+id, upd, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

func (c *Client) DeleteObjective(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+c.BriefingID+"/objectives/"+id, nil, nil)
}

///////////////////////////////////////////////////////////////////////////
// Packages and flights

func (c *Client) CreatePackage(ctx context.Context, req briefing.PackageCreate) (*briefing.Package, error) {
	var p briefing.Package
	if err := c.do(ctx, http.MethodPost, "/"+c.BriefingID+"/packages", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePackage(ctx context.Context, id string, upd briefing.PackageUpdate) (*briefing.Package, error) {
	var p briefing.Package
	if err := c.do(ctx, http.MethodPut, "/"+c.BriefingID+"/packages/"+id, upd, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePackage(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+c.BriefingID+"/packages/"+id, nil, nil)
}

func (c *Client) CreateFlight(ctx context.Context, packageID string, req briefing.FlightCreate) (*briefing.Flight, error) {
	var f briefing.Flight
	if err := c.do(ctx, http.MethodPost, "/"+c.BriefingID+"/packages/"+packageID+"/flights", req, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) UpdateFlight(ctx context.Context, packageID, flightID string, upd briefing.FlightUpdate) (*briefing.Flight, error) {
	var f briefing.Flight
	if err := c.do(ctx, http.MethodPut, "/"+c.BriefingID+"/packages/"+packageID+"/flights/"+flightID, upd, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) DeleteFlight(ctx context.Context, packageID, flightID string) error {
	return c.do(ctx, http.MethodDelete, "/"+c.BriefingID+"/packages/"+packageID+"/flights/"+flightID, nil, nil)
}

///////////////////////////////////////////////////////////////////////////
// Homeplates

func (c *Client) CreateHomeplate(ctx context.Context, req briefing.HomeplateUpdate) (*briefing.Homeplate, error) {
	var h briefing.Homeplate
	if err := c.do(ctx, http.MethodPost, "/"+c.BriefingID+"/homeplates", req, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) UpdateHomeplate(ctx context.Context, id string, req briefing.HomeplateUpdate) (*briefing.Homeplate, error) {
	var h briefing.Homeplate
	if err := c.do(ctx, http.MethodPut, "/"+c.BriefingID+"/homeplates/"+id, req, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) DeleteHomeplate(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+c.BriefingID+"/homeplates/"+id, nil, nil)
}

///////////////////////////////////////////////////////////////////////////
// Zones, map data, export

// ListZones returns the zone names known to the briefing's server.
func (c *Client) ListZones(ctx context.Context) ([]string, error) {
	var zones []string
	err := c.do(ctx, http.MethodGet, "/"+c.BriefingID+"/zones", nil, &zones)
	return zones, err
}

func (c *Client) GetMapData(ctx context.Context) (*briefing.MapData, error) {
	var m briefing.MapData
	if err := c.do(ctx, http.MethodGet, "/"+c.BriefingID+"/map", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ExportPPTX posts the captured map image (base64 JPEG, possibly empty if
// capture failed) and returns the generated presentation bytes.
func (c *Client) ExportPPTX(ctx context.Context, mapImage string) ([]byte, error) {
	body := struct {
		MapImage string `json:"map_image"`
	}{MapImage: mapImage}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.briefingURL("/"+c.BriefingID+"/export/pptx"), bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&detail)
		return nil, &Error{StatusCode: resp.StatusCode, Message: detail.Detail}
	}

	return io.ReadAll(resp.Body)
}
