package server

// Server is the lifecycle contract for the transport server.
//
// RunServer blocks until shutdown is requested; Shutdown stops serving
// gracefully and releases resources.
type Server interface {
	RunServer()
	Shutdown()
}
