package task

import (
	"fmt"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
)

// Command is the order emitted for one unit: the cells to walk this turn and
// the kind of task that produced them
type Command struct {
	UnitID string        `json:"unit_id"`
	Path   []shared.Cell `json:"path"`
	Tag    Kind          `json:"tag"`
}

// NewCommand builds a command for a task's route
func NewCommand(unitID string, path []shared.Cell, t Task) Command {
	copied := make([]shared.Cell, len(path))
	copy(copied, path)
	return Command{UnitID: unitID, Path: copied, Tag: t.Kind()}
}

// Destination returns the last cell of the path
func (c Command) Destination() (shared.Cell, bool) {
	if len(c.Path) == 0 {
		return shared.Cell{}, false
	}
	return c.Path[len(c.Path)-1], true
}

func (c Command) String() string {
	return fmt.Sprintf("Command[unit=%s, tag=%s, steps=%d]", c.UnitID, c.Tag, len(c.Path))
}
