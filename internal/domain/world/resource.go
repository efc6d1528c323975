package world

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
)

// ResourceType is the closed set of collectable food types
type ResourceType int

const (
	ResourceTypeNone   ResourceType = 0
	ResourceTypeApple  ResourceType = 1
	ResourceTypeBread  ResourceType = 2
	ResourceTypeNectar ResourceType = 3
)

var caloricValues = map[ResourceType]int{
	ResourceTypeApple:  10,
	ResourceTypeBread:  20,
	ResourceTypeNectar: 60,
}

// CaloricValue returns the per-unit value of a resource type.
// Unknown types are worth nothing and report ok=false.
func CaloricValue(t ResourceType) (int, bool) {
	v, ok := caloricValues[t]
	return v, ok
}

// HighestValueResource returns the type with the largest caloric value
func HighestValueResource() ResourceType {
	best := ResourceTypeNone
	bestValue := -1
	for _, t := range []ResourceType{ResourceTypeApple, ResourceTypeBread, ResourceTypeNectar} {
		if caloricValues[t] > bestValue {
			best = t
			bestValue = caloricValues[t]
		}
	}
	return best
}

// IsValid reports whether the type belongs to the closed set
func (t ResourceType) IsValid() bool {
	_, ok := caloricValues[t]
	return ok
}

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeNone:
		return "NONE"
	case ResourceTypeApple:
		return "APPLE"
	case ResourceTypeBread:
		return "BREAD"
	case ResourceTypeNectar:
		return "NECTAR"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// ResourceKey identifies a resource for reservation purposes: position plus type
type ResourceKey struct {
	Position shared.Cell
	Type     ResourceType
}

func (k ResourceKey) String() string {
	return fmt.Sprintf("%s@%s", k.Type, k.Position)
}

// Resource is a visible pile of food. Resources are ephemeral and may vanish
// between turns or appear anywhere.
type Resource struct {
	ID       string       `json:"id" yaml:"id"`
	Type     ResourceType `json:"type" yaml:"type"`
	Position shared.Cell  `json:"position" yaml:"position"`
	Amount   int          `json:"amount" yaml:"amount"`
}

// Key returns the reservation key of the resource
func (r Resource) Key() ResourceKey {
	return ResourceKey{Position: r.Position, Type: r.Type}
}

// Value returns the total caloric value of the pile
func (r Resource) Value() int {
	v, _ := CaloricValue(r.Type)
	return v * r.Amount
}

// ParseResourceType reads a food name as printed by String, case-insensitively
func ParseResourceType(name string) (ResourceType, error) {
	for t := range caloricValues {
		if strings.EqualFold(t.String(), name) {
			return t, nil
		}
	}
	return ResourceTypeNone, fmt.Errorf("unknown resource type: %s", name)
}
