package scheduler

import (
	"context"
	"fmt"

	"github.com/andrescamacho/antbot-go/internal/application/common"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// ProcessTurnCommand asks the engine to decide one turn
type ProcessTurnCommand struct {
	Snapshot *world.Snapshot
}

// ProcessTurnResponse carries the turn's decisions
type ProcessTurnResponse struct {
	Result *TurnResult
}

// ResetEngineCommand clears cross-turn state before a new game
type ResetEngineCommand struct{}

// ProcessTurnHandler - Handles process turn commands
type ProcessTurnHandler struct {
	engine *TurnEngine
}

// NewProcessTurnHandler creates a new process turn handler
func NewProcessTurnHandler(engine *TurnEngine) *ProcessTurnHandler {
	return &ProcessTurnHandler{engine: engine}
}

// Handle executes the process turn command
func (h *ProcessTurnHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ProcessTurnCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	result, err := h.engine.ProcessTurn(ctx, cmd.Snapshot)
	if err != nil {
		return nil, err
	}
	return &ProcessTurnResponse{Result: result}, nil
}

// ResetEngineHandler - Handles reset commands
type ResetEngineHandler struct {
	engine *TurnEngine
}

// NewResetEngineHandler creates a new reset handler
func NewResetEngineHandler(engine *TurnEngine) *ResetEngineHandler {
	return &ResetEngineHandler{engine: engine}
}

// Handle executes the reset command
func (h *ResetEngineHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ResetEngineCommand); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	h.engine.Reset()
	common.LoggerFromContext(ctx).Log(common.LevelInfo, "[TurnEngine] State reset", nil)
	return struct{}{}, nil
}

// RegisterHandlers wires the engine's commands into a mediator
func RegisterHandlers(m common.Mediator, engine *TurnEngine) error {
	if err := common.RegisterHandler[*ProcessTurnCommand](m, NewProcessTurnHandler(engine)); err != nil {
		return err
	}
	return common.RegisterHandler[*ResetEngineCommand](m, NewResetEngineHandler(engine))
}
