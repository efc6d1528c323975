package task

import (
	"fmt"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// Kind identifies a task variant
type Kind string

const (
	KindReturnToBase Kind = "return_to_base"
	KindDefend       Kind = "defend"
	KindCollect      Kind = "collect"
	KindExplore      Kind = "explore"
	KindRaid         Kind = "raid"
	KindPatrol       Kind = "patrol"
)

// Kinds lists every task kind in decision order
var Kinds = []Kind{KindReturnToBase, KindDefend, KindCollect, KindExplore, KindRaid, KindPatrol}

// Task is the committed behaviour of a unit. The set of implementations is
// closed: ReturnToBase, Defend, Collect, Explore, Raid and Patrol.
type Task interface {
	Kind() Kind
	Target() shared.Cell
	CreatedTurn() int
	String() string

	sealed()
}

type header struct {
	createdTurn int
}

func (h header) CreatedTurn() int { return h.createdTurn }
func (header) sealed()            {}

// ReturnReason records why a unit is heading home
type ReturnReason string

const (
	ReturnCargoValuable ReturnReason = "valuable_cargo"
	ReturnCargoFull     ReturnReason = "cargo_full"
	ReturnHorizon       ReturnReason = "horizon"
)

// ReturnToBase sends a unit to the nearest home cell to deposit cargo
type ReturnToBase struct {
	header
	Home   shared.Cell
	Reason ReturnReason
}

func NewReturnToBase(home shared.Cell, reason ReturnReason, turn int) *ReturnToBase {
	return &ReturnToBase{header: header{createdTurn: turn}, Home: home, Reason: reason}
}

func (t *ReturnToBase) Kind() Kind          { return KindReturnToBase }
func (t *ReturnToBase) Target() shared.Cell { return t.Home }
func (t *ReturnToBase) String() string {
	return fmt.Sprintf("ReturnToBase[home=%s, reason=%s]", t.Home, t.Reason)
}

// Defend chases an enemy threatening our units or anthill
type Defend struct {
	header
	EnemyID string
	// LastSeen is the enemy position when the task was last refreshed
	LastSeen shared.Cell
}

func NewDefend(enemyID string, at shared.Cell, turn int) *Defend {
	return &Defend{header: header{createdTurn: turn}, EnemyID: enemyID, LastSeen: at}
}

func (t *Defend) Kind() Kind          { return KindDefend }
func (t *Defend) Target() shared.Cell { return t.LastSeen }
func (t *Defend) String() string {
	return fmt.Sprintf("Defend[enemy=%s, at=%s]", t.EnemyID, t.LastSeen)
}

// Collect walks to a reserved resource. The unit holds the reservation for
// Resource for as long as the task lives.
type Collect struct {
	header
	Resource world.ResourceKey
	Priority float64
}

func NewCollect(resource world.ResourceKey, priority float64, turn int) *Collect {
	return &Collect{header: header{createdTurn: turn}, Resource: resource, Priority: priority}
}

func (t *Collect) Kind() Kind          { return KindCollect }
func (t *Collect) Target() shared.Cell { return t.Resource.Position }
func (t *Collect) String() string {
	return fmt.Sprintf("Collect[resource=%s, priority=%.2f]", t.Resource, t.Priority)
}

// Explore walks towards a cell outside current vision
type Explore struct {
	header
	Cell shared.Cell
}

func NewExplore(cell shared.Cell, turn int) *Explore {
	return &Explore{header: header{createdTurn: turn}, Cell: cell}
}

func (t *Explore) Kind() Kind          { return KindExplore }
func (t *Explore) Target() shared.Cell { return t.Cell }
func (t *Explore) String() string      { return fmt.Sprintf("Explore[cell=%s]", t.Cell) }

// Raid heads for a known enemy anthill cell
type Raid struct {
	header
	EnemyBase shared.Cell
}

func NewRaid(enemyBase shared.Cell, turn int) *Raid {
	return &Raid{header: header{createdTurn: turn}, EnemyBase: enemyBase}
}

func (t *Raid) Kind() Kind          { return KindRaid }
func (t *Raid) Target() shared.Cell { return t.EnemyBase }
func (t *Raid) String() string      { return fmt.Sprintf("Raid[base=%s]", t.EnemyBase) }

// Patrol holds a post near the anthill
type Patrol struct {
	header
	Post shared.Cell
}

func NewPatrol(post shared.Cell, turn int) *Patrol {
	return &Patrol{header: header{createdTurn: turn}, Post: post}
}

func (t *Patrol) Kind() Kind          { return KindPatrol }
func (t *Patrol) Target() shared.Cell { return t.Post }
func (t *Patrol) String() string      { return fmt.Sprintf("Patrol[post=%s]", t.Post) }

// AgeAt returns how many turns a task has existed at the given turn
func AgeAt(t Task, turn int) int {
	age := turn - t.CreatedTurn()
	if age < 0 {
		return 0
	}
	return age
}
