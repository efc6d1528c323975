package reservation

import (
	"fmt"

	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// ReleaseReason records why a reservation ended
type ReleaseReason string

const (
	// ReleaseExplicit is a caller-requested release
	ReleaseExplicit ReleaseReason = "explicit"

	// ReleasePreempted means a higher-priority unit took the resource
	ReleasePreempted ReleaseReason = "preempted"

	// ReleaseSuperseded means the holder reserved a different resource
	ReleaseSuperseded ReleaseReason = "superseded"

	// ReleaseHolderDead means the holder is absent from the snapshot
	ReleaseHolderDead ReleaseReason = "holder_dead"

	// ReleaseResourceVanished means the resource is no longer visible
	ReleaseResourceVanished ReleaseReason = "resource_vanished"

	// ReleaseStale means the reservation outlived the staleness bound
	ReleaseStale ReleaseReason = "stale"
)

// Reservation is an exclusive claim by one unit on one resource
type Reservation struct {
	key         world.ResourceKey
	holder      string
	priority    float64
	createdTurn int
	metadata    map[string]string
}

// NewReservation creates a reservation created at the given turn
func NewReservation(key world.ResourceKey, holder string, priority float64, createdTurn int, metadata map[string]string) Reservation {
	copied := make(map[string]string, len(metadata))
	for k, v := range metadata {
		copied[k] = v
	}
	return Reservation{
		key:         key,
		holder:      holder,
		priority:    priority,
		createdTurn: createdTurn,
		metadata:    copied,
	}
}

// Getters

func (r Reservation) Key() world.ResourceKey { return r.key }
func (r Reservation) Holder() string         { return r.holder }
func (r Reservation) Priority() float64      { return r.priority }
func (r Reservation) CreatedTurn() int       { return r.createdTurn }

// Metadata returns a copy of the reservation metadata
func (r Reservation) Metadata() map[string]string {
	copied := make(map[string]string, len(r.metadata))
	for k, v := range r.metadata {
		copied[k] = v
	}
	return copied
}

// AgeAt returns how many turns the reservation has existed at the given turn
func (r Reservation) AgeAt(turn int) int {
	age := turn - r.createdTurn
	if age < 0 {
		return 0
	}
	return age
}

// IsStaleAt reports whether the reservation is older than staleAfter turns
func (r Reservation) IsStaleAt(turn, staleAfter int) bool {
	return r.AgeAt(turn) > staleAfter
}

func (r Reservation) String() string {
	return fmt.Sprintf("Reservation[resource=%s, holder=%s, priority=%.2f, turn=%d]",
		r.key, r.holder, r.priority, r.createdTurn)
}

// ReservationView is the debugging form of a live reservation
type ReservationView struct {
	ResourceKey string  `json:"resource_key"`
	Holder      string  `json:"holder"`
	Priority    float64 `json:"priority"`
	AgeInTurns  int     `json:"age_in_turns"`
}
