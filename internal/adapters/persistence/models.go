package persistence

import (
	"time"
)

// SessionModel represents the sessions table: one row per engine run
type SessionModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Mode      string    `gorm:"column:mode;not null"`
	StartedAt time.Time `gorm:"column:started_at;not null"`
	LastTurn  int       `gorm:"column:last_turn;not null;default:0"`
	Turns     int       `gorm:"column:turns;not null;default:0"`
	Metadata  string    `gorm:"column:metadata;type:text"` // JSON stored as string
}

func (SessionModel) TableName() string {
	return "sessions"
}

// TurnRecordModel represents the turn_records table
type TurnRecordModel struct {
	ID           int           `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID    string        `gorm:"column:session_id;not null;uniqueIndex:idx_session_turn"`
	Session      *SessionModel `gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Turn         int           `gorm:"column:turn;not null;uniqueIndex:idx_session_turn"`
	RecordedAt   time.Time     `gorm:"column:recorded_at;not null"`
	DurationMs   float64       `gorm:"column:duration_ms;not null"`
	Degraded     bool          `gorm:"column:degraded;not null;default:false"`
	CommandCount int           `gorm:"column:command_count;not null"`
	Skipped      string        `gorm:"column:skipped;type:text"`      // JSON array as text
	Dropped      string        `gorm:"column:dropped;type:text"`      // JSON array as text
	Reservations string        `gorm:"column:reservations;type:text"` // JSON array as text
	Tasks        string        `gorm:"column:tasks;type:text"`        // JSON array as text
}

func (TurnRecordModel) TableName() string {
	return "turn_records"
}

// CommandRecordModel represents the turn_commands table: one row per emitted command
type CommandRecordModel struct {
	ID        int    `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID string `gorm:"column:session_id;not null;index:idx_command_lookup"`
	Turn      int    `gorm:"column:turn;not null;index:idx_command_lookup"`
	UnitID    string `gorm:"column:unit_id;not null;index"`
	Tag       string `gorm:"column:tag;not null"`
	Steps     int    `gorm:"column:steps;not null"`
	Path      string `gorm:"column:path;type:text;not null"` // JSON array as text
	DestQ     int    `gorm:"column:dest_q"`
	DestR     int    `gorm:"column:dest_r"`
}

func (CommandRecordModel) TableName() string {
	return "turn_commands"
}

// AllModels lists every model for auto-migration
func AllModels() []interface{} {
	return []interface{}{
		&SessionModel{},
		&TurnRecordModel{},
		&CommandRecordModel{},
	}
}
