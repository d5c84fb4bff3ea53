// briefing/state.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package briefing

// SaveStatus tracks the autosave lifecycle for the status indicator.
type SaveStatus int

const (
	SaveIdle SaveStatus = iota
	SaveSaving
	SaveSaved
	SaveError
)

func (s SaveStatus) String() string {
	return [...]string{"", "Saving...", "Saved", "Save failed"}[s]
}

// State is the single authoritative application state; the Controller
// owns it and everything that draws reads it through Controller.State().
// Panes never mutate it directly but dispatch commands instead.
type State struct {
	Briefing *Briefing

	// Zones holds the zone names reported by the campaign server, for
	// the objective and package target selectors.
	Zones []string

	CanEdit bool

	SaveStatus SaveStatus
	SaveError  string

	// StructuralBusy is set while a create or delete is in flight on the
	// server; the editor disables the corresponding controls until the
	// server has answered.
	StructuralBusy bool

	// MutationError holds the message for the failure dialog after a
	// structural mutation was rejected; cleared when acknowledged.
	MutationError string

	ExportBusy  bool
	ExportError string
}
