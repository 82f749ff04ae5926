// Package server runs the local redirect callback server, with signal
// handling and graceful shutdown.
package server
