package handler

import "errors"

// ErrNoTransports is returned by [NewHandlers] when the server config names
// neither an HTTP nor a gRPC address.
var ErrNoTransports = errors.New("no transport address configured")
