package history

import (
	"context"
	"time"

	"github.com/nerrad567/avr-driver/internal/entity"
	"github.com/nerrad567/avr-driver/internal/updatesync"
)

// recordTimeout bounds how long one snapshot's rows may take to store.
const recordTimeout = 5 * time.Second

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Warn(msg string, args ...any)
}

// noopLogger discards all log output.
type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Sink records delivered updates, wrapping another sink.
//
// Only updates the wrapped sink accepted are stored, so the history
// reflects what the hub actually received. Recording failures are
// logged and never turned into delivery failures.
type Sink struct {
	next   updatesync.Sink
	repo   *Repository
	logger Logger
}

// NewSink wraps a sink with history recording.
//
// Parameters:
//   - next: Sink performing the actual delivery (required)
//   - repo: History repository (required)
//   - logger: Optional; a no-op logger is used when nil
//
// Returns:
//   - *Sink: Decorated sink
func NewSink(next updatesync.Sink, repo *Repository, logger Logger) *Sink {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Sink{next: next, repo: repo, logger: logger}
}

// Emit delivers the snapshot through the wrapped sink and records it
// on success.
func (s *Sink) Emit(snapshot entity.Snapshot) error {
	if err := s.next.Emit(snapshot); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	for entityID, attrs := range snapshot {
		if err := s.repo.Record(ctx, entityID, attrs, "session"); err != nil {
			s.logger.Warn("recording update history", "entity_id", entityID, "error", err)
		}
	}
	return nil
}
