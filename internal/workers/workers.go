package workers

// Workers aggregates the agent's background workers so the client app can
// start them with a single call.
type Workers struct {
	workers []Worker
}

// NewWorkers bundles the given workers into a single aggregate. Workers are
// started in the order they were passed in.
func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every registered worker. Workers spawn their own goroutines,
// so Run returns immediately.
func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
