// cmd/sitacwatch/main.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// sitacwatch is a terminal-mode campaign watcher: it polls a briefing
// server's map data and shows the zone situation as a live table, for
// keeping an eye on a campaign from a shell without launching the full
// map client.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/foothold/sitac/briefing"
	"github.com/foothold/sitac/client"
	"github.com/foothold/sitac/coords"
	"github.com/foothold/sitac/log"
	"github.com/foothold/sitac/math"

	"github.com/gdamore/tcell/v2"
)

// AppState holds the runtime state of the watcher.
type AppState struct {
	data        *briefing.MapData
	fetchErr    error
	lastFetch   time.Time
	coordFormat coords.Format
	scroll      int
}

// update carries a poll result from the fetch goroutine to the event
// loop via tcell's EventInterrupt.
type update struct {
	data *briefing.MapData
	err  error
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "briefing server URL")
	briefingID := flag.String("briefing", "", "briefing id")
	interval := flag.Duration("interval", 15*time.Second, "poll interval")
	format := flag.String("coords", "dms", "coordinate display format: dms, ddm, decimal")
	logLevel := flag.String("loglevel", "warn", "logging level: debug, info, warn, error")
	logDir := flag.String("logdir", "", "log file directory")
	flag.Parse()

	if *briefingID == "" {
		fmt.Fprintln(os.Stderr, "sitacwatch: pass -briefing <id>")
		os.Exit(1)
	}

	lg := log.New(*logLevel, *logDir)
	cl := client.New(*serverURL, *briefingID, "", lg)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorReset).
		Foreground(tcell.ColorReset))

	state := &AppState{coordFormat: coords.ParseFormat(*format)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetch := make(chan struct{}, 1)
	go func() {
		tick := time.NewTicker(*interval)
		defer tick.Stop()
		for {
			fctx, fcancel := context.WithTimeout(ctx, 10*time.Second)
			data, err := cl.GetMapData(fctx)
			fcancel()
			_ = screen.PostEvent(tcell.NewEventInterrupt(update{data, err}))

			select {
			case <-ctx.Done():
				return
			case <-tick.C:
			case <-fetch:
				tick.Reset(*interval)
			}
		}
	}()

	for {
		render(screen, state)
		screen.Show()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()

		case *tcell.EventInterrupt:
			if u, ok := ev.Data().(update); ok {
				if u.err != nil {
					state.fetchErr = u.err
				} else {
					state.data = u.data
					state.fetchErr = nil
				}
				state.lastFetch = time.Now()
			}

		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Rune() == 'q':
				return
			case ev.Rune() == 'r':
				select {
				case fetch <- struct{}{}:
				default:
				}
			case ev.Rune() == 'c':
				state.coordFormat = (state.coordFormat + 1) % 3
			case ev.Key() == tcell.KeyUp:
				if state.scroll > 0 {
					state.scroll--
				}
			case ev.Key() == tcell.KeyDown:
				state.scroll++
			}
		}
	}
}

func sideName(side int) string {
	switch side {
	case 1:
		return "RED"
	case 2:
		return "BLUE"
	default:
		return "NEUT"
	}
}

func sideStyle(side int) tcell.Style {
	switch side {
	case 1:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	case 2:
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	}
}

// titleLine formats the header bar text for the current map data.
func titleLine(data *briefing.MapData) string {
	if data == nil {
		return " sitacwatch "
	}
	age := time.Duration(float64(data.AgeSeconds) * float64(time.Second))
	return fmt.Sprintf(" sitacwatch  mission data %s old  blue %.0f%% ",
		age.Round(time.Second), data.Progress)
}

// creditsLine formats the campaign summary footer.
func creditsLine(data *briefing.MapData) string {
	return fmt.Sprintf(" blue %.0f cr │ red %.0f cr │ %d missions │ %d players │ %d ejected",
		data.BlueCredits, data.RedCredits, data.MissionsCount,
		len(data.Players), data.EjectedPilotCount)
}

// render draws the zone table.
func render(screen tcell.Screen, state *AppState) {
	screen.Clear()
	width, height := screen.Size()

	styleHeader := tcell.StyleDefault.Bold(true).Reverse(true)
	styleColumn := tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleHelp := tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleError := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	title := titleLine(state.data)
	status := " connecting... "
	if state.fetchErr != nil {
		status = " DISCONNECTED "
	} else if !state.lastFetch.IsZero() {
		status = fmt.Sprintf(" updated %s ", state.lastFetch.Format("15:04:05"))
	}
	drawText(screen, 0, 0, width, styleHeader,
		title+strings.Repeat(" ", max(0, width-len(title)-len(status)))+status)

	if state.fetchErr != nil {
		drawText(screen, 0, 2, width, styleError, " "+state.fetchErr.Error())
	}
	if state.data == nil {
		drawText(screen, 0, height-1, width, styleHelp, " [q]=Quit  [r]=Refresh ")
		return
	}

	zones := state.data.VisibleZones()
	sort.Slice(zones, func(i, j int) bool { return zones[i].Name < zones[j].Name })

	nameWidth := len("ZONE")
	for _, z := range zones {
		if len(z.Name) > nameWidth {
			nameWidth = len(z.Name)
		}
	}
	nameWidth += 2

	headerLine := fmt.Sprintf(" %-*s │ %-4s │ %3s │ %5s │ %s",
		nameWidth, "ZONE", "SIDE", "LVL", "UNITS", "POSITION")
	drawText(screen, 0, 1, width, styleColumn, headerLine)
	drawText(screen, 0, 2, width, tcell.StyleDefault, strings.Repeat("─", width))

	// Leave room for the credits line and help footer.
	maxY := height - 3
	y := 3
	if state.scroll > max(0, len(zones)-(maxY-y)) {
		state.scroll = max(0, len(zones)-(maxY-y))
	}
	for _, z := range zones[state.scroll:] {
		if y >= maxY {
			break
		}
		pos := coords.FormatPointWide(math.MakePoint2LL(z.Lat, z.Lon), state.coordFormat)
		line := fmt.Sprintf(" %-*s │ %-4s │ %3d │ %5d │ %s",
			nameWidth, z.Name, sideName(z.Side), z.Level, z.Units, pos)
		drawText(screen, 0, y, width, sideStyle(z.Side), line)
		y++
	}

	drawText(screen, 0, height-2, width, styleColumn, creditsLine(state.data))
	drawText(screen, 0, height-1, width, styleHelp,
		" [q]=Quit  [r]=Refresh  [c]=Coordinates ("+state.coordFormat.String()+")  [↑↓]=Scroll ")
}

// drawText draws a string at the given position, padding to maxWidth.
func drawText(screen tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := 0
	for _, r := range text {
		if col >= maxWidth {
			break
		}
		screen.SetContent(x+col, y, r, nil, style)
		col++
	}
	for col < maxWidth {
		screen.SetContent(x+col, y, ' ', nil, style)
		col++
	}
}
