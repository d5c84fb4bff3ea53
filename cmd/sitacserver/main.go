// cmd/sitacserver/main.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// sitacserver is a small self-contained briefing server, mostly useful
// for development and for squadrons that do not want to stand up the
// full hosted service.  It persists briefings to a JSON file and serves
// campaign map data either from a file exported by the mission or from
// a built-in sample.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/foothold/sitac/log"

	"github.com/joho/godotenv"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	// A .env alongside the binary is the usual way to configure
	// deployments; flags override it.
	_ = godotenv.Load()

	port := flag.String("port", envOr("SITAC_PORT", "8080"), "port to listen on")
	dataDir := flag.String("data", envOr("SITAC_DATA", "data"), "directory for briefing storage")
	mapPath := flag.String("mapdata", envOr("SITAC_MAPDATA", ""),
		"path to campaign map data JSON exported by the mission (empty: built-in sample)")
	publicURL := flag.String("url", envOr("SITAC_PUBLIC_URL", ""),
		"public base URL used in shareable links (default http://localhost:<port>)")
	logLevel := flag.String("loglevel", envOr("SITAC_LOGLEVEL", "info"),
		"logging level: debug, info, warn, error")
	logDir := flag.String("logdir", envOr("SITAC_LOGDIR", ""), "log file directory")
	flag.Parse()

	lg := log.New(*logLevel, *logDir)

	if *publicURL == "" {
		*publicURL = "http://localhost:" + *port
	}

	st, err := newStore(*dataDir, lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", *dataDir, err)
		os.Exit(1)
	}

	s := &server{
		store:     st,
		maps:      newMapSource(*mapPath, lg),
		publicURL: *publicURL,
		lg:        lg,
	}

	lg.Infof("listening on :%s, public URL %s", *port, *publicURL)
	if err := http.ListenAndServe(":"+*port, s.routes()); err != nil {
		lg.Errorf("server: %v", err)
		os.Exit(1)
	}
}
