// Package workers runs the sync agent's background workers.
//
// It defines the Worker interface and a Workers aggregate that starts
// multiple workers in a unified way. The package's main resident is the
// SyncWorker, which decides when a sync cycle should run.
package workers

// Worker is implemented by any background worker. Run starts the worker's
// execution; implementations either block for the duration of their work or
// spawn goroutines internally.
type Worker interface {
	Run()
}
