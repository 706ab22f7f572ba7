package server

// Server is a set of transports started and stopped together.
type Server interface {
	// RunServer serves until a termination signal arrives, then shuts down.
	RunServer()

	// Shutdown stops every transport. Calling it more than once is safe.
	Shutdown()
}
