package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/antbot-go/internal/application/scheduler"
)

// TurnFormatter renders a turn's decisions as a tree, one branch per unit
type TurnFormatter struct {
	useColors bool
	showPaths bool
}

// NewTurnFormatter creates a new turn formatter
func NewTurnFormatter(useColors, showPaths bool) *TurnFormatter {
	return &TurnFormatter{
		useColors: useColors,
		showPaths: showPaths,
	}
}

// FormatTurn renders the whole turn
func (f *TurnFormatter) FormatTurn(result *scheduler.TurnResult) string {
	if result == nil {
		return "(no turn)"
	}

	var builder strings.Builder
	builder.WriteString(f.FormatSummary(result))
	builder.WriteString("\n")

	for i, d := range result.Decisions {
		isLast := i == len(result.Decisions)-1
		f.formatDecision(&builder, d, isLast)
	}
	return builder.String()
}

func (f *TurnFormatter) formatDecision(builder *strings.Builder, d scheduler.Decision, isLast bool) {
	linePrefix, childPrefix := "├── ", "│   "
	if isLast {
		linePrefix, childPrefix = "└── ", "    "
	}

	what := string(d.Outcome)
	if d.Task != nil {
		what = fmt.Sprintf("%s (%s) %d steps", d.Task.Kind(), d.Rule, d.Route.Len())
		if !d.Route.IsEmpty() {
			what += fmt.Sprintf(" → %s", d.Route[len(d.Route)-1])
		}
	}

	builder.WriteString(fmt.Sprintf("%s%s %s %s%s%s\n",
		linePrefix,
		f.outcomeIcon(d.Outcome),
		d.UnitID,
		f.outcomeColor(d.Outcome),
		what,
		f.colorReset(),
	))

	if f.showPaths && !d.Route.IsEmpty() {
		cells := make([]string, len(d.Route))
		for i, c := range d.Route {
			cells[i] = c.String()
		}
		builder.WriteString(fmt.Sprintf("%s└── path %s\n", childPrefix, strings.Join(cells, " ")))
	}
}

// outcomeIcon returns a visual indicator for the decision outcome
func (f *TurnFormatter) outcomeIcon(outcome scheduler.Outcome) string {
	switch outcome {
	case scheduler.OutcomeMoved:
		return "[✓]"
	case scheduler.OutcomeHolding:
		return "[=]"
	case scheduler.OutcomeSkipped:
		return "[!]"
	default:
		return "[ ]"
	}
}

// outcomeColor returns ANSI color code for the outcome
func (f *TurnFormatter) outcomeColor(outcome scheduler.Outcome) string {
	if !f.useColors {
		return ""
	}

	switch outcome {
	case scheduler.OutcomeMoved:
		return "\033[32m" // Green
	case scheduler.OutcomeSkipped:
		return "\033[31m" // Red
	case scheduler.OutcomeHolding:
		return "\033[33m" // Yellow
	default:
		return ""
	}
}

// colorReset returns ANSI reset code
func (f *TurnFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}

// FormatSummary creates a one-line summary of the turn
func (f *TurnFormatter) FormatSummary(result *scheduler.TurnResult) string {
	summary := fmt.Sprintf(
		"Turn %d [%s]: %d commands, %d units, %d skipped, %d released, %d orphans reassigned",
		result.Turn, result.Phase, len(result.Commands), len(result.Decisions),
		len(result.Skipped), result.Reservations.Total(), len(result.Orphans),
	)
	if result.Degraded {
		summary += " (degraded)"
	}
	if n := result.Sanitize.Count(); n > 0 {
		summary += fmt.Sprintf(", %d malformed records dropped", n)
	}
	return summary
}
