package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/antbot-go/internal/application/common"
	"github.com/andrescamacho/antbot-go/internal/domain/reservation"
	"github.com/andrescamacho/antbot-go/internal/domain/task"
)

// SessionSummary is one row of the sessions listing
type SessionSummary struct {
	ID        string
	Mode      string
	StartedAt time.Time
	LastTurn  int
	Turns     int
}

// GormTurnJournalRepository stores turn records through GORM. It implements
// common.TurnJournal; the database handle is owned by the caller.
type GormTurnJournalRepository struct {
	db   *gorm.DB
	mode string
}

// NewGormTurnJournalRepository creates a journal repository. mode tags the
// sessions it creates (live, replay, simulate).
func NewGormTurnJournalRepository(db *gorm.DB, mode string) *GormTurnJournalRepository {
	return &GormTurnJournalRepository{db: db, mode: mode}
}

// StartSession registers a session with optional metadata. Recording a turn for
// an unknown session creates it implicitly, so calling this is optional.
func (r *GormTurnJournalRepository) StartSession(ctx context.Context, sessionID string, startedAt time.Time, metadata map[string]interface{}) error {
	var metadataJSON string
	if len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal session metadata: %w", err)
		}
		metadataJSON = string(data)
	}

	model := &SessionModel{
		ID:        sessionID,
		Mode:      r.mode,
		StartedAt: startedAt,
		Metadata:  metadataJSON,
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error; err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	return nil
}

// Record persists one turn. Recording the same session and turn twice replaces
// the earlier record.
func (r *GormTurnJournalRepository) Record(ctx context.Context, entry *common.JournalEntry) error {
	if entry == nil {
		return fmt.Errorf("journal entry cannot be nil")
	}

	model, err := toTurnRecordModel(entry)
	if err != nil {
		return err
	}
	commands, err := toCommandRecordModels(entry)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session := &SessionModel{ID: entry.SessionID, Mode: r.mode, StartedAt: entry.RecordedAt}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(session).Error; err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "turn"}},
			DoUpdates: clause.AssignmentColumns([]string{"recorded_at", "duration_ms", "degraded", "command_count", "skipped", "dropped", "reservations", "tasks"}),
		}).Create(model).Error; err != nil {
			return fmt.Errorf("failed to save turn record: %w", err)
		}

		if err := tx.Where("session_id = ? AND turn = ?", entry.SessionID, entry.Turn).
			Delete(&CommandRecordModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear turn commands: %w", err)
		}
		if len(commands) > 0 {
			if err := tx.Create(&commands).Error; err != nil {
				return fmt.Errorf("failed to save turn commands: %w", err)
			}
		}

		var turns int64
		if err := tx.Model(&TurnRecordModel{}).Where("session_id = ?", entry.SessionID).Count(&turns).Error; err != nil {
			return fmt.Errorf("failed to count session turns: %w", err)
		}
		return tx.Model(&SessionModel{}).Where("id = ?", entry.SessionID).
			Updates(map[string]interface{}{
				"last_turn": gorm.Expr("CASE WHEN last_turn > ? THEN last_turn ELSE ? END", entry.Turn, entry.Turn),
				"turns":     turns,
			}).Error
	})
}

// Close is a no-op; the database handle belongs to the caller
func (r *GormTurnJournalRepository) Close() error {
	return nil
}

// FindTurn loads one recorded turn, or nil if it was never recorded
func (r *GormTurnJournalRepository) FindTurn(ctx context.Context, sessionID string, turn int) (*common.JournalEntry, error) {
	var model TurnRecordModel
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND turn = ?", sessionID, turn).
		First(&model).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find turn record: %w", err)
	}

	commands, err := r.commandsFor(ctx, sessionID, []int{turn})
	if err != nil {
		return nil, err
	}
	return fromTurnRecordModel(&model, commands[turn])
}

// ListTurns loads a session's turns in turn order with pagination
func (r *GormTurnJournalRepository) ListTurns(ctx context.Context, sessionID string, limit, offset int) ([]*common.JournalEntry, error) {
	query := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("turn ASC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []TurnRecordModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list turn records: %w", err)
	}
	if len(models) == 0 {
		return nil, nil
	}

	turns := make([]int, len(models))
	for i := range models {
		turns[i] = models[i].Turn
	}
	commands, err := r.commandsFor(ctx, sessionID, turns)
	if err != nil {
		return nil, err
	}

	entries := make([]*common.JournalEntry, 0, len(models))
	for i := range models {
		entry, err := fromTurnRecordModel(&models[i], commands[models[i].Turn])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ListSessions returns the most recent sessions first
func (r *GormTurnJournalRepository) ListSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	query := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []SessionModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]SessionSummary, 0, len(models))
	for _, m := range models {
		summaries = append(summaries, SessionSummary{
			ID:        m.ID,
			Mode:      m.Mode,
			StartedAt: m.StartedAt,
			LastTurn:  m.LastTurn,
			Turns:     m.Turns,
		})
	}
	return summaries, nil
}

// CountCommandsByTag aggregates a session's commands by task tag
func (r *GormTurnJournalRepository) CountCommandsByTag(ctx context.Context, sessionID string) (map[string]int, error) {
	var rows []struct {
		Tag   string
		Count int
	}
	err := r.db.WithContext(ctx).Model(&CommandRecordModel{}).
		Select("tag, COUNT(*) AS count").
		Where("session_id = ?", sessionID).
		Group("tag").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count commands: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Tag] = row.Count
	}
	return counts, nil
}

func (r *GormTurnJournalRepository) commandsFor(ctx context.Context, sessionID string, turns []int) (map[int][]task.Command, error) {
	var models []CommandRecordModel
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND turn IN ?", sessionID, turns).
		Order("turn ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load turn commands: %w", err)
	}

	byTurn := make(map[int][]task.Command, len(turns))
	for _, m := range models {
		var cmd task.Command
		if err := json.Unmarshal([]byte(m.Path), &cmd.Path); err != nil {
			return nil, fmt.Errorf("failed to unmarshal command path: %w", err)
		}
		cmd.UnitID = m.UnitID
		cmd.Tag = task.Kind(m.Tag)
		byTurn[m.Turn] = append(byTurn[m.Turn], cmd)
	}
	return byTurn, nil
}

func toTurnRecordModel(entry *common.JournalEntry) (*TurnRecordModel, error) {
	skipped, err := marshalText(entry.Skipped)
	if err != nil {
		return nil, err
	}
	dropped, err := marshalText(entry.Dropped)
	if err != nil {
		return nil, err
	}
	reservations, err := marshalText(entry.Reservations)
	if err != nil {
		return nil, err
	}
	tasks, err := marshalText(entry.Tasks)
	if err != nil {
		return nil, err
	}

	return &TurnRecordModel{
		SessionID:    entry.SessionID,
		Turn:         entry.Turn,
		RecordedAt:   entry.RecordedAt,
		DurationMs:   float64(entry.Duration) / float64(time.Millisecond),
		Degraded:     entry.Degraded,
		CommandCount: len(entry.Commands),
		Skipped:      skipped,
		Dropped:      dropped,
		Reservations: reservations,
		Tasks:        tasks,
	}, nil
}

func toCommandRecordModels(entry *common.JournalEntry) ([]CommandRecordModel, error) {
	models := make([]CommandRecordModel, 0, len(entry.Commands))
	for _, cmd := range entry.Commands {
		path, err := json.Marshal(cmd.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal command path: %w", err)
		}
		model := CommandRecordModel{
			SessionID: entry.SessionID,
			Turn:      entry.Turn,
			UnitID:    cmd.UnitID,
			Tag:       string(cmd.Tag),
			Steps:     len(cmd.Path),
			Path:      string(path),
		}
		if dest, ok := cmd.Destination(); ok {
			model.DestQ, model.DestR = dest.Q, dest.R
		}
		models = append(models, model)
	}
	return models, nil
}

func fromTurnRecordModel(model *TurnRecordModel, commands []task.Command) (*common.JournalEntry, error) {
	entry := &common.JournalEntry{
		SessionID:  model.SessionID,
		Turn:       model.Turn,
		RecordedAt: model.RecordedAt,
		Duration:   time.Duration(model.DurationMs * float64(time.Millisecond)),
		Degraded:   model.Degraded,
		Commands:   commands,
	}

	var reservations []reservation.ReservationView
	var tasks []task.View
	if err := unmarshalText(model.Skipped, &entry.Skipped); err != nil {
		return nil, err
	}
	if err := unmarshalText(model.Dropped, &entry.Dropped); err != nil {
		return nil, err
	}
	if err := unmarshalText(model.Reservations, &reservations); err != nil {
		return nil, err
	}
	if err := unmarshalText(model.Tasks, &tasks); err != nil {
		return nil, err
	}
	entry.Reservations = reservations
	entry.Tasks = tasks
	return entry, nil
}

// marshalText stores empty slices as an empty column
func marshalText(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal journal field: %w", err)
	}
	if string(data) == "null" || string(data) == "[]" {
		return "", nil
	}
	return string(data), nil
}

func unmarshalText(text string, v interface{}) error {
	if text == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("failed to unmarshal journal field: %w", err)
	}
	return nil
}
