package steps

import (
	"fmt"
	"strconv"
	"strings"

	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// cellPattern matches "(q,r)" in step text, capturing q and r
const cellPattern = `\((-?\d+),\s*(-?\d+)\)`

// tableRows turns a header-first table into one map per data row
func tableRows(table *messages.PickleTable) []map[string]string {
	if table == nil || len(table.Rows) == 0 {
		return nil
	}

	header := table.Rows[0].Cells
	rows := make([]map[string]string, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		values := make(map[string]string, len(header))
		for i, cell := range row.Cells {
			if i < len(header) {
				values[header[i].Value] = strings.TrimSpace(cell.Value)
			}
		}
		rows = append(rows, values)
	}
	return rows
}

func atoi(row map[string]string, column string) (int, error) {
	raw := row[column]
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", column, err)
	}
	return n, nil
}

func cellOf(row map[string]string) (shared.Cell, error) {
	q, err := atoi(row, "q")
	if err != nil {
		return shared.Cell{}, err
	}
	r, err := atoi(row, "r")
	if err != nil {
		return shared.Cell{}, err
	}
	return shared.NewCell(q, r), nil
}

// unitsFromTable reads | id | type | q | r | cargo | amount | rows at full health
func unitsFromTable(table *messages.PickleTable) ([]world.Unit, error) {
	var units []world.Unit
	for _, row := range tableRows(table) {
		kind, err := world.ParseUnitType(row["type"])
		if err != nil {
			return nil, err
		}
		at, err := cellOf(row)
		if err != nil {
			return nil, err
		}
		unit := world.Unit{ID: row["id"], Type: kind, Position: at, Health: fullHealth(kind)}

		if row["cargo"] != "" {
			food, err := world.ParseResourceType(row["cargo"])
			if err != nil {
				return nil, err
			}
			amount, err := atoi(row, "amount")
			if err != nil {
				return nil, err
			}
			unit.Cargo = world.Cargo{Type: food, Amount: amount}
		}
		units = append(units, unit)
	}
	return units, nil
}

func fullHealth(kind world.UnitType) int {
	stats, _ := world.StatsFor(kind)
	return stats.MaxHealth
}

// resourcesFromTable reads | id | type | q | r | amount | rows
func resourcesFromTable(table *messages.PickleTable) ([]world.Resource, error) {
	var resources []world.Resource
	for _, row := range tableRows(table) {
		food, err := world.ParseResourceType(row["type"])
		if err != nil {
			return nil, err
		}
		at, err := cellOf(row)
		if err != nil {
			return nil, err
		}
		amount, err := atoi(row, "amount")
		if err != nil {
			return nil, err
		}
		resources = append(resources, world.Resource{ID: row["id"], Type: food, Position: at, Amount: amount})
	}
	return resources, nil
}

// enemiesFromTable reads | id | type | q | r | rows at full health
func enemiesFromTable(table *messages.PickleTable) ([]world.Unit, error) {
	var enemies []world.Unit
	for _, row := range tableRows(table) {
		kind, err := world.ParseUnitType(row["type"])
		if err != nil {
			return nil, err
		}
		at, err := cellOf(row)
		if err != nil {
			return nil, err
		}
		enemies = append(enemies, world.Unit{ID: row["id"], Type: kind, Position: at, Health: fullHealth(kind)})
	}
	return enemies, nil
}

func resourceByID(resources []world.Resource, id string) (world.Resource, error) {
	for _, r := range resources {
		if r.ID == id {
			return r, nil
		}
	}
	return world.Resource{}, fmt.Errorf("no resource %q in scenario", id)
}

func splitIDs(list string) []string {
	var ids []string
	for _, part := range strings.Split(list, ",") {
		if id := strings.Trim(strings.TrimSpace(part), `"`); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
