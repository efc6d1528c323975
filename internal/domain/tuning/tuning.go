// Package tuning groups every threshold and weight the engine uses.
package tuning

import (
	"time"

	"github.com/andrescamacho/antbot-go/pkg/utils"
)

// Tuning holds the engine's tunable constants
type Tuning struct {
	// Cargo thresholds as a fraction of carry capacity
	ReturnCargoFraction     float64 `mapstructure:"return_cargo_fraction" validate:"gt=0,lte=1"`
	RestrictedCargoFraction float64 `mapstructure:"restricted_cargo_fraction" validate:"gt=0,lte=1"`

	// End-of-game horizon
	EndgameTurnThreshold int `mapstructure:"endgame_turn_threshold" validate:"min=0"`
	HorizonSafetyMargin  int `mapstructure:"horizon_safety_margin" validate:"min=0"`
	EarlyPhaseTurns      int `mapstructure:"early_phase_turns" validate:"min=0"`

	// Staleness bounds, measured in turns
	ReservationStaleTurns int `mapstructure:"reservation_stale_turns" validate:"min=1"`
	TaskStaleTurns        int `mapstructure:"task_stale_turns" validate:"min=1"`

	// Pathfinding: maxDistance = hexDistance + slack, floored at MinSearchDistance
	PathSearchSlack     int `mapstructure:"path_search_slack" validate:"min=0"`
	DegradedSearchSlack int `mapstructure:"degraded_search_slack" validate:"min=0"`
	MinSearchDistance   int `mapstructure:"min_search_distance" validate:"min=1"`

	// Resource collection
	CollectCandidates    int     `mapstructure:"collect_candidates" validate:"min=1"`
	CompatibleCargoBonus float64 `mapstructure:"compatible_cargo_bonus" validate:"gte=1"`
	ThreatDiscount       float64 `mapstructure:"threat_discount" validate:"gte=0"`
	ThreatRadius         int     `mapstructure:"threat_radius" validate:"min=0"`

	// Area behaviours
	DefendRadius       int `mapstructure:"defend_radius" validate:"min=1"`
	PatrolRadius       int `mapstructure:"patrol_radius" validate:"min=1"`
	ExploreRadius      int `mapstructure:"explore_radius" validate:"min=1"`
	ScoutExploreRadius int `mapstructure:"scout_explore_radius" validate:"min=1"`

	// Wall-clock turn budget
	TurnDeadline         time.Duration `mapstructure:"turn_deadline" validate:"gt=0"`
	DeadlineRiskFraction float64       `mapstructure:"deadline_risk_fraction" validate:"gt=0,lte=1"`

	Threat ThreatWeights `mapstructure:"threat"`
}

// ThreatWeights are the terms of the enemy danger score
type ThreatWeights struct {
	DPS                      float64 `mapstructure:"dps" validate:"gte=0"`
	MeleeBonus               float64 `mapstructure:"melee_bonus" validate:"gte=0"`
	EconomicPerWorker        float64 `mapstructure:"economic_per_worker" validate:"gte=0"`
	CombatEconomicMultiplier float64 `mapstructure:"combat_economic_multiplier" validate:"gte=1"`
	EconomicRadius           int     `mapstructure:"economic_radius" validate:"min=0"`
	BaseProximity            float64 `mapstructure:"base_proximity" validate:"gte=0"`
	LowHealthBonus           float64 `mapstructure:"low_health_bonus" validate:"gte=0"`
	WorkerBase               float64 `mapstructure:"worker_base" validate:"gte=0"`
	SoldierBase              float64 `mapstructure:"soldier_base" validate:"gte=0"`
	ScoutBase                float64 `mapstructure:"scout_base" validate:"gte=0"`
}

// Default returns the tuning the engine ships with
func Default() Tuning {
	return Tuning{
		ReturnCargoFraction:     0.8,
		RestrictedCargoFraction: 0.5,

		EndgameTurnThreshold: 30,
		HorizonSafetyMargin:  2,
		EarlyPhaseTurns:      60,

		ReservationStaleTurns: 60,
		TaskStaleTurns:        40,

		PathSearchSlack:     10,
		DegradedSearchSlack: 3,
		MinSearchDistance:   8,

		CollectCandidates:    5,
		CompatibleCargoBonus: 1.5,
		ThreatDiscount:       0.02,
		ThreatRadius:         3,

		DefendRadius:       6,
		PatrolRadius:       2,
		ExploreRadius:      8,
		ScoutExploreRadius: 14,

		TurnDeadline:         1500 * time.Millisecond,
		DeadlineRiskFraction: 0.7,

		Threat: ThreatWeights{
			DPS:                      1.0,
			MeleeBonus:               50,
			EconomicPerWorker:        10,
			CombatEconomicMultiplier: 2,
			EconomicRadius:           3,
			BaseProximity:            40,
			LowHealthBonus:           20,
			WorkerBase:               5,
			SoldierBase:              30,
			ScoutBase:                10,
		},
	}
}

// SearchDistance returns the A* maxDistance for a trip of the given hex distance
func (t Tuning) SearchDistance(hexDistance int, degraded bool) int {
	slack := t.PathSearchSlack
	if degraded {
		slack = t.DegradedSearchSlack
	}
	return utils.Max(hexDistance+slack, t.MinSearchDistance)
}
