package telemetry

// Event names - CLI
const (
	EventCLICommandExecuted = "cli_command_executed"
	EventCLIErrorOccurred   = "cli_error_occurred"
)

// Event names - Sync
const (
	EventSyncCompleted = "sync_completed"
	EventSyncSkipped   = "sync_skipped"
	EventFailedReset   = "failed_reset"
)

// Event names - Eviction
const (
	EventEvictionCompleted = "eviction_completed"
	EventEvictionSkipped   = "eviction_skipped"
)

// TrackCLICommandExecuted records a CLI command run.
func (c *posthogClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
	c.Track(EventCLICommandExecuted, map[string]interface{}{
		"command_name": commandName,
		"has_flags":    hasFlags,
		"duration_ms":  durationMs,
	})
}

// TrackCLIError records a CLI command failure by error type.
func (c *posthogClient) TrackCLIError(commandName, errorType string) {
	c.Track(EventCLIErrorOccurred, map[string]interface{}{
		"command_name": commandName,
		"error_type":   errorType,
	})
}

// TrackSyncCompleted records the aggregate outcome of one processor run.
// Only counts are sent, never payloads or entity ids.
func (c *posthogClient) TrackSyncCompleted(trigger string, synced, failed, conflicts int, durationMs int64) {
	c.Track(EventSyncCompleted, map[string]interface{}{
		"trigger":     trigger,
		"synced":      synced,
		"failed":      failed,
		"conflicts":   conflicts,
		"duration_ms": durationMs,
	})
}

// TrackSyncSkipped records a coalesced (lease-held) trigger.
func (c *posthogClient) TrackSyncSkipped(reason string) {
	c.Track(EventSyncSkipped, map[string]interface{}{
		"reason": reason,
	})
}

// TrackFailedReset records a user-driven reset of failed entities.
func (c *posthogClient) TrackFailedReset(count int) {
	c.Track(EventFailedReset, map[string]interface{}{
		"count": count,
	})
}

// TrackEvictionCompleted records one eviction pass.
func (c *posthogClient) TrackEvictionCompleted(itemsRemoved int, quotaBefore, quotaAfter float64) {
	c.Track(EventEvictionCompleted, map[string]interface{}{
		"items_removed": itemsRemoved,
		"quota_before":  quotaBefore,
		"quota_after":   quotaAfter,
	})
}

// TrackEvictionSkipped records a pass skipped below the high-water mark or
// without a quota estimate.
func (c *posthogClient) TrackEvictionSkipped(reason string) {
	c.Track(EventEvictionSkipped, map[string]interface{}{
		"reason": reason,
	})
}

// No-op implementations for disabled telemetry.

func (c *noopClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {}
func (c *noopClient) TrackCLIError(commandName, errorType string)                                 {}
func (c *noopClient) TrackSyncCompleted(trigger string, synced, failed, conflicts int, durationMs int64) {
}
func (c *noopClient) TrackSyncSkipped(reason string)                                   {}
func (c *noopClient) TrackFailedReset(count int)                                       {}
func (c *noopClient) TrackEvictionCompleted(itemsRemoved int, before, after float64)   {}
func (c *noopClient) TrackEvictionSkipped(reason string)                               {}
