package audit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// StreamKey is the Redis stream audit events are appended to
	StreamKey = "storefront:audit"

	// maxLen caps the stream so it cannot grow unbounded
	maxLen = 10000

	writeTimeout = 2 * time.Second
)

// Event names recorded by the import pipeline
const (
	EventImportStaged    = "import.staged"
	EventImportCommitted = "import.committed"
	EventImportFailed    = "import.failed"
	EventImportUndone    = "import.undone"
)

// Recorder appends audit events to a Redis stream. Writes are
// fire-and-forget: a Redis outage must never fail the operation being
// audited, so errors are logged and swallowed.
type Recorder struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewRecorder creates a recorder over the given Redis client
func NewRecorder(client redis.UniversalClient, logger *zap.Logger) *Recorder {
	return &Recorder{client: client, logger: logger.Named("audit")}
}

// Record appends one event with its attributes to the audit stream
func (r *Recorder) Record(ctx context.Context, event string, actor string, attrs map[string]string) {
	values := map[string]interface{}{
		"event": event,
		"actor": actor,
		"at":    time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range attrs {
		values[k] = v
	}

	// Detach from the request context so a cancelled request does not
	// drop the event, but still bound the write.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	err := r.client.XAdd(writeCtx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: maxLen,
		Approx: true,
		Values: values,
	}).Err()
	if err != nil {
		r.logger.Warn("failed to record audit event",
			zap.String("event", event),
			zap.Error(err))
	}
}
