// cmd/sitacserver/store.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/foothold/sitac/briefing"
	"github.com/foothold/sitac/log"

	"github.com/iancoleman/orderedmap"
)

// store keeps all briefings in memory and mirrors them to a single JSON
// file after every mutation.  It is just enough persistence for a
// development server; campaigns with real traffic run the hosted one.
type store struct {
	mu        sync.Mutex
	path      string
	briefings map[string]*briefing.Briefing
}

func newStore(dir string, lg *log.Logger) (*store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	s := &store{
		path:      filepath.Join(dir, "briefings.json"),
		briefings: make(map[string]*briefing.Briefing),
	}

	contents, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s, nil
	} else if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(contents, &s.briefings); err != nil {
		return nil, err
	}
	lg.Infof("Loaded %d briefings from %s", len(s.briefings), s.path)

	return s, nil
}

// sorted returns the briefings in creation order, oldest first.  The
// caller must hold s.mu.
func (s *store) sorted() []*briefing.Briefing {
	var bs []*briefing.Briefing
	for _, b := range s.briefings {
		bs = append(bs, b)
	}
	sort.Slice(bs, func(i, j int) bool {
		if !bs[i].CreatedAt.Equal(bs[j].CreatedAt) {
			return bs[i].CreatedAt.Before(bs[j].CreatedAt)
		}
		return bs[i].ID < bs[j].ID
	})
	return bs
}

// save writes the briefings file; the caller must hold s.mu.  Written to
// a temporary file first so a crash mid-write doesn't eat the data.
// Entries go out in creation order rather than encoding/json's sorted
// key order so the file stays readable as briefings accumulate.
func (s *store) save(lg *log.Logger) {
	om := orderedmap.New()
	for _, br := range s.sorted() {
		om.Set(br.ID, br)
	}

	b, err := json.MarshalIndent(om, "", "    ")
	if err != nil {
		lg.Errorf("Unable to encode briefings: %v", err)
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		lg.Errorf("%s: %v", tmp, err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		lg.Errorf("%s: %v", s.path, err)
	}
}

func newID() string {
	var b [8]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func newEditToken() string {
	var b [16]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
