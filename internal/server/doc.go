// Package server runs the HTTP and gRPC listeners of the vault sync server.
//
// Listeners are bound when the server is created, so a taken port fails at
// startup rather than in a background goroutine. RunServer blocks until
// SIGTERM, SIGINT or SIGQUIT and then stops both transports gracefully.
package server
