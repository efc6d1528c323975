package config

// JournalConfig selects where turn records are written
type JournalConfig struct {
	// Enabled turns journalling on
	Enabled bool `mapstructure:"enabled"`

	// Database stores turn records through gorm
	Database bool `mapstructure:"database"`

	// FilePath, when set, also writes a zstd-compressed JSONL journal
	FilePath string `mapstructure:"file_path"`

	// CompressionLevel for the file journal: fastest, default, better, best
	CompressionLevel string `mapstructure:"compression_level" validate:"omitempty,oneof=fastest default better best"`
}

// SimulationConfig drives the local arena used by simulate and the daemon
type SimulationConfig struct {
	Seed      int64 `mapstructure:"seed"`
	Radius    int   `mapstructure:"radius" validate:"min=6,max=64"`
	Turns     int   `mapstructure:"turns" validate:"min=1"`
	Workers   int   `mapstructure:"workers" validate:"min=0"`
	Soldiers  int   `mapstructure:"soldiers" validate:"min=0"`
	Scouts    int   `mapstructure:"scouts" validate:"min=0"`
	Resources int   `mapstructure:"resources" validate:"min=0"`
	Enemies   int   `mapstructure:"enemies" validate:"min=0"`
}
