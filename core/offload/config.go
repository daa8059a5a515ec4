package offload

// Config holds configuration for the offload engines and the library walk.
type Config struct {
	// LocalRoot is the directory the library's relative paths resolve under.
	LocalRoot string `mapstructure:"local_root" default:"./media"`
	// Prefix is the remote key namespace all managed objects live under.
	Prefix string `mapstructure:"prefix" default:"uploads/"`
	// BatchSize is the attachment page size for inventory walks. It only
	// bounds memory; counters and per-file outcomes do not depend on it.
	BatchSize int `mapstructure:"batch_size" default:"100"`
	// OrphanDisplayLimit caps how many orphan keys display layers show.
	OrphanDisplayLimit int `mapstructure:"orphan_display_limit" default:"25"`
}
