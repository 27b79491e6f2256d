// Package server runs the recipe API over HTTP and, when an address is
// configured, the gRPC health service next to it. Both transports stop
// together on SIGINT, SIGTERM or the first transport failure.
package server
