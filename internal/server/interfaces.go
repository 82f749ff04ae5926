package server

import "context"

// Server defines the lifecycle of the callback server.
type Server interface {
	// RunServer serves requests until ctx is done, a stop signal arrives or
	// Shutdown is called. It returns a listen error, if any.
	RunServer(ctx context.Context) error

	// Shutdown gracefully stops the server.
	Shutdown()
}
