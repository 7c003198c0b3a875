package messages

// Usage tracker messages.
const (
	// TrackListeningFmt announces consumption start.
	TrackListeningFmt = " [*] Listening for context resolves @ %s\n"
	TrackSavingFmt    = " [*] Saving messages to %s\n"
	// TrackUnexpectedMessageFmt reports a message that does not match the
	// resolve-event schema. The message is dropped, not fatal.
	TrackUnexpectedMessageFmt = " [x] Unexpected message: %s\n"
	TrackHistoryLineFmt       = "%s %s %s [%d, %d]\n"
	TrackGracefulShutdown     = "Graceful shutdown"

	// TrackURLRequired guards tracker construction.
	TrackURLRequired     = "amqp url is required"
	TrackQueueRequired   = "queue name is required"
	TrackFileRequired    = "history file is required"
	TrackEventIncomplete = "resolve event missing host or user"

	TrackDialFmt         = "dial amqp %s: %w"
	TrackChannelFmt      = "open amqp channel: %w"
	TrackConsumeFmt      = "consume queue %s: %w"
	TrackConsumerClosed  = "message stream closed unexpectedly"
	TrackReadHistoryFmt  = "read history %s: %w"
	TrackParseHistoryFmt = "parse history %s: %w"
	TrackWriteHistoryFmt = "write history %s: %w"
)
