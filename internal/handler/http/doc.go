// Package http implements the REST transport of the vault sync server.
//
// Routes are wired in routes.go. Every request gets a trace id and a
// request-scoped logger, access logging and optional gzip. Vault routes
// additionally require a bearer token issued by the register and login
// endpoints.
package http
