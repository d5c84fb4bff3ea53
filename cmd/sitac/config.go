// cmd/sitac/config.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/foothold/sitac/coords"
	"github.com/foothold/sitac/log"
	"github.com/foothold/sitac/panes"
	"github.com/foothold/sitac/platform"
	"github.com/foothold/sitac/renderer"
	"github.com/foothold/sitac/util"

	"github.com/AllenDang/cimgui-go/imgui"
)

// currentConfigVersion is bumped when the config format changes
// incompatibly; older files are migrated in LoadOrMakeDefaultConfig.
const currentConfigVersion = 1

type Config struct {
	platform.Config

	Version       int
	ImGuiSettings string
	UIFontSize    int

	ServerURL string
	TileURL   string

	// CoordinateFormat is stored by name ("dms", "ddm", "decimal") so a
	// hand-edited config file stays readable; unknown values fall back to
	// DMS when parsed.
	CoordinateFormat string

	LastBriefing string

	// EditTokens remembers the edit token for each briefing that was
	// opened with one, so a later launch with just -briefing keeps edit
	// access.
	EditTokens map[string]string

	ShowBriefingWindow bool

	Map      paneConfig
	Briefing *panes.BriefingPane

	AskedDiscordOptIn      bool
	InhibitDiscordActivity util.AtomicBool
}

// paneConfig serializes a pane along with its type name; public members
// of the Pane are stored automatically but its Go type is not, so the
// type is carried alongside and handed to panes.UnmarshalPane when the
// config is read back.
type paneConfig struct {
	Pane panes.Pane
}

func (pc paneConfig) MarshalJSON() ([]byte, error) {
	m := map[string]any{"Pane": pc.Pane}
	if pc.Pane != nil {
		m["Type"] = fmt.Sprintf("%T", pc.Pane)
	}
	return json.Marshal(m)
}

func (pc *paneConfig) UnmarshalJSON(s []byte) error {
	var m map[string]*json.RawMessage
	if err := json.Unmarshal(s, &m); err != nil {
		return err
	}

	var paneType string
	if t, ok := m["Type"]; ok {
		if err := json.Unmarshal(*t, &paneType); err != nil {
			return err
		}
	}
	if paneType == "" || m["Pane"] == nil {
		return nil
	}

	pane, err := panes.UnmarshalPane(paneType, *m["Pane"])
	if err == nil {
		pc.Pane = pane
	}
	return err
}

// MapPane returns the persisted map pane; LoadOrMakeDefaultConfig
// guarantees that one is always present.
func (c *Config) MapPane() *panes.MapPane {
	return c.Map.Pane.(*panes.MapPane)
}

func (c *Config) CoordFormat() coords.Format {
	return coords.ParseFormat(c.CoordinateFormat)
}

func (c *Config) SetCoordFormat(f coords.Format) {
	c.CoordinateFormat = f.String()
}

func configFilePath(lg *log.Logger) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		lg.Errorf("Unable to find user config dir: %v", err)
		dir = "."
	}

	dir = filepath.Join(dir, "SITAC")
	err = os.MkdirAll(dir, 0o700)
	if err != nil {
		lg.Errorf("%s: unable to make directory for config file: %v", dir, err)
	}

	return filepath.Join(dir, "config.json")
}

func (c *Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}

func (c *Config) Save(lg *log.Logger) error {
	lg.Infof("Saving config to: %s", configFilePath(lg))
	f, err := os.Create(configFilePath(lg))
	if err != nil {
		return err
	}
	defer f.Close()

	return c.Encode(f)
}

// SaveIfChanged writes the config file only if it differs from what is
// on disk, returning true if a write happened.
func (c *Config) SaveIfChanged(r renderer.Renderer, p platform.Platform, lg *log.Logger) bool {
	// Grab assorted things that may have changed during this session.
	c.ImGuiSettings = imgui.SaveIniSettingsToMemory()
	c.InitialWindowSize = p.WindowSize()
	c.InitialWindowPosition = p.WindowPosition()

	fn := configFilePath(lg)
	onDisk, err := os.ReadFile(fn)
	if err != nil {
		lg.Warnf("%s: unable to read config file: %v", fn, err)
	}

	var b strings.Builder
	if err = c.Encode(&b); err != nil {
		lg.Errorf("%s: unable to encode config: %v", fn, err)
		return false
	}

	if b.String() == string(onDisk) {
		return false
	}

	if err := c.Save(lg); err != nil {
		ShowErrorDialog(p, lg, "Error saving configuration file: %v", err)
	}

	return true
}

func getDefaultConfig() *Config {
	return &Config{
		Config: platform.Config{
			InitialWindowPosition: [2]int{100, 100},
		},
		Version:            currentConfigVersion,
		ServerURL:          "http://localhost:8080",
		TileURL:            "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		EditTokens:         make(map[string]string),
		ShowBriefingWindow: true,
		Map:                paneConfig{Pane: panes.NewMapPane()},
		Briefing:           panes.NewBriefingPane(),
	}
}

func LoadOrMakeDefaultConfig(lg *log.Logger) (config *Config, configErr error) {
	fn := configFilePath(lg)
	lg.Infof("Loading config from: %s", fn)

	config = getDefaultConfig()

	defer func() {
		if err := recover(); err != nil {
			configErr = fmt.Errorf("%v", err)
			config = getDefaultConfig()
		}
	}()

	if contents, err := os.ReadFile(fn); err == nil {
		d := json.NewDecoder(bytes.NewReader(contents))

		config = &Config{}
		if err := d.Decode(config); err != nil {
			configErr = err
			config = getDefaultConfig()
		}
	}

	// Patch up anything missing from older or hand-edited config files.
	if config.UIFontSize == 0 {
		config.UIFontSize = 16
	}
	if config.ServerURL == "" {
		config.ServerURL = "http://localhost:8080"
	}
	if config.TileURL == "" {
		config.TileURL = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
	}
	if config.EditTokens == nil {
		config.EditTokens = make(map[string]string)
	}
	if _, ok := config.Map.Pane.(*panes.MapPane); !ok {
		config.Map = paneConfig{Pane: panes.NewMapPane()}
	}
	if config.Briefing == nil {
		config.Briefing = panes.NewBriefingPane()
	}
	config.Version = currentConfigVersion

	imgui.LoadIniSettingsFromMemory(config.ImGuiSettings)

	return
}

func (c *Config) Activate(r renderer.Renderer, p platform.Platform, lg *log.Logger) {
	c.MapPane().Activate(r, p, lg)
	c.Briefing.Activate(r, p, lg)
}
