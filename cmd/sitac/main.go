// cmd/sitac/main.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// This file contains the implementation of the main() function, which
// initializes the system and then runs the event loop until the system
// exits.

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/foothold/sitac/briefing"
	"github.com/foothold/sitac/client"
	"github.com/foothold/sitac/log"
	"github.com/foothold/sitac/panes"
	"github.com/foothold/sitac/platform"
	"github.com/foothold/sitac/renderer"
	"github.com/foothold/sitac/tiles"
	"github.com/foothold/sitac/util"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/apenwarr/fixconsole"
	"github.com/goforj/godump"
)

var (
	serverURL     = flag.String("server", "", "base URL of the sitac campaign server")
	briefingID    = flag.String("briefing", "", "id of the briefing to open")
	editToken     = flag.String("token", "", "edit token for the briefing; omit to open read-only")
	logLevel      = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir        = flag.String("logdir", "", "log file directory")
	listBriefings = flag.Bool("list", false, "list the briefings on the server and exit")
	newTitle      = flag.String("new", "", "create a briefing with the given title, print its links, and exit")
	newServerName = flag.String("servername", "", "campaign server name for a briefing created with -new")
	showMap       = flag.Bool("showmap", false, "fetch the current campaign map data, dump it, and exit")
)

func init() {
	// OpenGL and friends require that all calls be made from the primary
	// application thread, while by default, go allows the main thread to
	// run on different hardware threads over the course of
	// execution. Therefore, we must lock the main thread at startup time.
	runtime.LockOSThread()
}

func main() {
	flag.Parse()

	if err := fixconsole.FixConsoleIfNeeded(); err != nil {
		// Not sure this will actually appear, but what else are we going
		// to do...
		fmt.Printf("FixConsole: %v\n", err)
	}

	// Initialize the logging system first and foremost.
	lg := log.New(*logLevel, *logDir)

	_ = imguiInit()
	config, configErr := LoadOrMakeDefaultConfig(lg)

	if *serverURL != "" {
		config.ServerURL = *serverURL
	}
	if *briefingID == "" {
		*briefingID = config.LastBriefing
	}
	if *editToken != "" && *briefingID != "" {
		config.EditTokens[*briefingID] = *editToken
	} else if *briefingID != "" {
		*editToken = config.EditTokens[*briefingID]
	}

	cl := client.New(config.ServerURL, *briefingID, *editToken, lg)

	if *listBriefings {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		items, err := cl.ListBriefings(ctx)
		if err != nil {
			lg.Errorf("Unable to list briefings: %v", err)
			os.Exit(1)
		}
		for _, item := range items {
			fmt.Printf("%s  %-30s %s (%d packages, %d objectives)\n", item.ID, item.Title,
				item.ServerName, item.PackagesCount, item.ObjectivesCount)
		}
	} else if *newTitle != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		resp, err := cl.CreateBriefing(ctx, briefing.BriefingCreateRequest{
			ServerName: *newServerName,
			Title:      *newTitle,
		})
		if err != nil {
			lg.Errorf("Unable to create briefing: %v", err)
			os.Exit(1)
		}
		fmt.Printf("Created briefing %s\n", resp.Briefing.ID)
		fmt.Printf("View: %s\n", resp.Links.ViewURL)
		fmt.Printf("Edit: %s\n", resp.Links.EditURL)
	} else if *showMap {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		data, err := cl.GetMapData(ctx)
		if err != nil {
			lg.Errorf("Unable to fetch map data: %v", err)
			os.Exit(1)
		}
		godump.Dump(data)
	} else {
		if *briefingID == "" {
			fmt.Fprintln(os.Stderr, "No briefing specified; pass -briefing <id> or create one with -new <title>.")
			os.Exit(1)
		}
		config.LastBriefing = *briefingID

		var stats Stats
		var render renderer.Renderer
		var plat platform.Platform

		defer lg.CatchAndReportCrash()

		go func() {
			t := time.Tick(15 * time.Second)
			for {
				<-t
				// Try to more aggressively return freed memory to the OS.
				debug.FreeOSMemory()
			}
		}()

		///////////////////////////////////////////////////////////////////////////
		// Global initialization and set up. Note that there are some subtle
		// inter-dependencies in the following; the order is carefully crafted.

		plat, err := platform.New(&config.Config, lg)
		if err != nil {
			panic(fmt.Sprintf("Unable to create application window: %v", err))
		}

		imgui.CurrentPlatformIO().SetClipboardHandler(plat.GetClipboard())

		render, err = renderer.NewOpenGL2Renderer(lg)
		if err != nil {
			panic(fmt.Sprintf("Unable to initialize OpenGL: %v", err))
		}
		renderer.FontsInit(render, plat)

		uiInit(render, plat, config, lg)

		// After we have plat and render
		if configErr != nil {
			ShowErrorDialog(plat, lg, "Saved configuration file is corrupt. Discarding. (%v)", configErr)
		}

		ctrl := briefing.NewController(cl, cl.CanEdit(), lg)
		ctrl.Load(context.Background())

		pollCtx, cancelPoll := context.WithCancel(context.Background())
		poller := client.NewMapPoller(cl, lg)
		poller.Start(pollCtx)

		config.Activate(render, plat, lg)
		config.MapPane().SetTileProvider(tiles.New(config.TileURL, lg))
		config.MapPane().ShowZoneInfo = func(zone briefing.MapZone) {
			uiShowModalDialog(NewModalDialogBox(
				&zoneInfoModalClient{zone: zone, format: config.CoordFormat()}, plat), false)
		}
		config.MapPane().ShowPilotInfo = func(pilot briefing.MapEjectedPilot) {
			uiShowModalDialog(NewModalDialogBox(&pilotInfoModalClient{pilot: pilot}, plat), false)
		}

		// Keep the on-disk tile and map data cache from growing without
		// bound across sessions.
		go func() {
			defer lg.CatchAndReportCrash()
			if err := util.CacheCullObjects(256 * 1024 * 1024); err != nil {
				lg.Warnf("Unable to cull cache: %v", err)
			}
		}()

		config.Briefing.ShowConfirm = func(prompt string, onOK func()) {
			uiShowConfirmDialog(plat, "Confirm", prompt, onOK)
		}

		///////////////////////////////////////////////////////////////////////////
		// Main event / rendering loop
		lg.Info("Starting main loop")

		stats.startTime = time.Now()

		for {
			state := ctrl.State()
			title := "sitac"
			if state.Briefing != nil {
				title += ": " + state.Briefing.Title
				if !state.CanEdit {
					title += " (read-only)"
				}
			}
			plat.SetWindowTitle(title)

			status := DiscordStatus{Start: stats.startTime}
			if state.Briefing != nil {
				status.Briefing = state.Briefing.Title
				status.Editing = state.CanEdit
			}
			SetDiscordStatus(status, config, lg)

			// Inform imgui about input events from the user.
			plat.ProcessEvents()

			stats.redraws++

			plat.NewFrame()
			imgui.NewFrame()

			// Run queued controller callbacks from the network goroutines
			// before anything reads the state for this frame.
			ctrl.Update()

			// Generate and render the map draw lists
			stats.drawMap = panes.DrawPanes(config.MapPane(), plat, render, ctrl, poller,
				config.CoordFormat(), ui.menuBarHeight, lg)

			// Draw the user interface
			stats.drawUI = uiDraw(config, plat, render, ctrl, poller, lg)

			// Wait for vsync
			plat.PostRender()

			// Periodically log current memory use, etc.
			if stats.redraws%18000 == 9000 { // Every 5min at 60fps, starting 2.5min after launch
				lg.Info("performance", "stats", stats)
			}

			if plat.ShouldStop() && !hasActiveModalDialogs() {
				// Do this while we're still running the event loop, then
				// give the final saves a bounded window to reach the
				// server rather than racing process exit.
				ctrl.Dispatch(briefing.FlushSaves{})
				for deadline := time.Now().Add(5 * time.Second); ctrl.SavesPending() &&
					time.Now().Before(deadline); {
					ctrl.Update()
					time.Sleep(10 * time.Millisecond)
				}
				ctrl.Update()
				config.SaveIfChanged(render, plat, lg)
				cancelPoll()
				poller.Stop()
				break
			}
		}
	}
}
