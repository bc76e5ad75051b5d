package ktreego

import "log/slog"

// Options contains configuration options for the clustering tree.
type Options struct {
	// SplitIterations caps the assign/recompute rounds of the 2-means split.
	// Guards against oscillation; convergence usually takes far fewer rounds.
	SplitIterations int

	// ArenaChunkSize is the arena chunk size in float32 slots.
	// Zero selects the arena default.
	ArenaChunkSize int

	// Logger receives structured build logs. Nil disables logging.
	Logger *Logger
}

// DefaultOptions contains the default configuration options for the tree.
var DefaultOptions = Options{
	SplitIterations: 32,
}

// WithSplitIterations sets the 2-means iteration cap.
func WithSplitIterations(n int) func(o *Options) {
	return func(o *Options) {
		if n > 0 {
			o.SplitIterations = n
		}
	}
}

// WithArenaChunkSize sets the arena chunk size in float32 slots.
func WithArenaChunkSize(slots int) func(o *Options) {
	return func(o *Options) {
		o.ArenaChunkSize = slots
	}
}

// WithLogger configures structured logging. Pass nil to disable.
func WithLogger(logger *Logger) func(o *Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
func WithLogLevel(level slog.Level) func(o *Options) {
	return func(o *Options) {
		o.Logger = NewTextLogger(level)
	}
}
