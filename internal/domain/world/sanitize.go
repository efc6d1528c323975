package world

import (
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
)

// SanitizeReport lists records dropped from a snapshot
type SanitizeReport struct {
	Dropped []*shared.MalformedInputError
}

// Count returns the number of dropped records
func (r SanitizeReport) Count() int {
	return len(r.Dropped)
}

// Sanitize returns a copy of the snapshot with malformed records removed.
// Units with unknown type, empty or duplicate ids and resources with unknown
// type or non-positive amount are dropped and reported; the rest of the turn
// proceeds normally.
func (s *Snapshot) Sanitize() (*Snapshot, SanitizeReport) {
	var report SanitizeReport

	clean := *s
	clean.Units = sanitizeUnits(s.Units, "unit", &report)
	clean.Enemies = sanitizeUnits(s.Enemies, "enemy", &report)

	clean.Resources = make([]Resource, 0, len(s.Resources))
	seenKeys := make(map[ResourceKey]bool, len(s.Resources))
	for _, r := range s.Resources {
		switch {
		case !r.Type.IsValid():
			report.Dropped = append(report.Dropped, shared.NewMalformedInputError("resource", r.ID, "unknown resource type"))
		case r.Amount <= 0:
			report.Dropped = append(report.Dropped, shared.NewMalformedInputError("resource", r.ID, "non-positive amount"))
		case seenKeys[r.Key()]:
			report.Dropped = append(report.Dropped, shared.NewMalformedInputError("resource", r.ID, "duplicate resource key"))
		default:
			seenKeys[r.Key()] = true
			clean.Resources = append(clean.Resources, r)
		}
	}

	if clean.Tiles == nil {
		clean.Tiles = make(map[shared.Cell]TerrainType)
	}

	return &clean, report
}

func sanitizeUnits(units []Unit, kind string, report *SanitizeReport) []Unit {
	result := make([]Unit, 0, len(units))
	seen := make(map[string]bool, len(units))

	for _, u := range units {
		switch {
		case u.ID == "":
			report.Dropped = append(report.Dropped, shared.NewMalformedInputError(kind, u.ID, "empty id"))
		case !u.Type.IsValid():
			report.Dropped = append(report.Dropped, shared.NewMalformedInputError(kind, u.ID, "unknown unit type"))
		case seen[u.ID]:
			report.Dropped = append(report.Dropped, shared.NewMalformedInputError(kind, u.ID, "duplicate id"))
		default:
			if !u.Cargo.IsEmpty() && !u.Cargo.Type.IsValid() {
				// Unknown cargo is treated as worthless rather than dropping the unit
				u.Cargo = Cargo{}
			}
			seen[u.ID] = true
			result = append(result, u)
		}
	}
	return result
}
