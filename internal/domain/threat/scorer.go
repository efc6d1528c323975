package threat

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/tuning"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// Breakdown holds the individual terms of a danger score
type Breakdown struct {
	DPS           float64 `json:"dps"`
	Melee         float64 `json:"melee"`
	Economic      float64 `json:"economic"`
	BaseProximity float64 `json:"base_proximity"`
	LowHealth     float64 `json:"low_health"`
	TypeBase      float64 `json:"type_base"`
}

// Total sums the terms
func (b Breakdown) Total() float64 {
	return b.DPS + b.Melee + b.Economic + b.BaseProximity + b.LowHealth + b.TypeBase
}

// ScoredEnemy is an enemy unit with its danger score
type ScoredEnemy struct {
	Enemy     world.Unit
	Score     float64
	Breakdown Breakdown
	// InMelee is true when the enemy is adjacent to a friendly unit
	InMelee bool
}

func (s ScoredEnemy) String() string {
	return fmt.Sprintf("%s score=%.1f melee=%t", s.Enemy, s.Score, s.InMelee)
}

// Scorer ranks enemy units by weighted danger
type Scorer struct {
	weights tuning.ThreatWeights
}

// NewScorer creates a scorer with the given weights
func NewScorer(weights tuning.ThreatWeights) *Scorer {
	return &Scorer{weights: weights}
}

// Weights returns the scorer's weights
func (s *Scorer) Weights() tuning.ThreatWeights {
	return s.weights
}

// Score computes one enemy's danger score against the friendly position
func (s *Scorer) Score(enemy world.Unit, myUnits []world.Unit, base shared.Cell) ScoredEnemy {
	w := s.weights
	stats, known := world.StatsFor(enemy.Type)
	if !known {
		// Unknown enemies contribute nothing rather than guessing
		return ScoredEnemy{Enemy: enemy}
	}

	healthFraction := enemy.HealthFraction()

	var b Breakdown
	b.DPS = w.DPS * float64(stats.Attack) * healthFraction

	inMelee := false
	workersNearby := 0
	for _, u := range myUnits {
		d := shared.Distance(enemy.Position, u.Position)
		if d == 1 {
			inMelee = true
		}
		if u.Type == world.UnitTypeWorker && d <= w.EconomicRadius {
			workersNearby++
		}
	}
	if inMelee {
		b.Melee = w.MeleeBonus
	}

	b.Economic = w.EconomicPerWorker * float64(workersNearby)
	if enemy.Type.IsCombatant() {
		b.Economic *= w.CombatEconomicMultiplier
	}

	b.BaseProximity = w.BaseProximity / float64(1+shared.Distance(enemy.Position, base))
	b.LowHealth = w.LowHealthBonus * (1 - healthFraction)
	b.TypeBase = s.typeBase(enemy.Type)

	return ScoredEnemy{
		Enemy:     enemy,
		Score:     b.Total(),
		Breakdown: b,
		InMelee:   inMelee,
	}
}

func (s *Scorer) typeBase(t world.UnitType) float64 {
	switch t {
	case world.UnitTypeWorker:
		return s.weights.WorkerBase
	case world.UnitTypeSoldier:
		return s.weights.SoldierBase
	case world.UnitTypeScout:
		return s.weights.ScoutBase
	default:
		return 0
	}
}

// Rank scores every enemy and returns them highest threat first.
// Equal scores keep the input order.
func (s *Scorer) Rank(enemies []world.Unit, myUnits []world.Unit, base shared.Cell) []ScoredEnemy {
	ranked := make([]ScoredEnemy, 0, len(enemies))
	for _, e := range enemies {
		ranked = append(ranked, s.Score(e, myUnits, base))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// ThreatAt sums the scores of ranked enemies within radius of cell, each
// attenuated by distance. Zero when nothing is close.
func ThreatAt(cell shared.Cell, ranked []ScoredEnemy, radius int) float64 {
	total := 0.0
	for _, se := range ranked {
		d := shared.Distance(cell, se.Enemy.Position)
		if d > radius {
			continue
		}
		total += se.Score / float64(1+d)
	}
	return total
}

// NearestWithin returns the highest-ranked enemy within radius of any of the
// given cells. ranked must be ordered as returned by Rank.
func NearestWithin(ranked []ScoredEnemy, cells []shared.Cell, radius int) (ScoredEnemy, bool) {
	for _, se := range ranked {
		for _, c := range cells {
			if shared.Distance(se.Enemy.Position, c) <= radius {
				return se, true
			}
		}
	}
	return ScoredEnemy{}, false
}
