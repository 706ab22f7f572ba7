package handler

import "errors"

// errNoHandlersAreCreated means the server config names neither an HTTP nor a
// gRPC address.
var errNoHandlersAreCreated = errors.New("no transport address configured: nothing to handle")
