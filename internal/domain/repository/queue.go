package repository

import "context"

// CleanupTask represents a replaced or deleted media asset awaiting removal
// from the media store.
type CleanupTask struct {
	OpaqueID string `json:"opaque_id"`
	Reason   string `json:"reason,omitempty"`
}

// CleanupQueue defines the interface for the async media-cleanup queue.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type CleanupQueue interface {
	// PublishCleanupTask enqueues an asset for removal.
	// Used by the API server when an asset is replaced or its owner deleted.
	PublishCleanupTask(ctx context.Context, task CleanupTask) error

	// ConsumeCleanupTasks starts consuming cleanup tasks from the queue.
	// The handler function is called for each received task.
	// Used by the worker service.
	ConsumeCleanupTasks(ctx context.Context, handler func(task CleanupTask) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
