package model

import (
	"context"
	"net"
)

// SecurityLayer produces the listener the server accepts connections on,
// plain or TLS-wrapped.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a network server with a graceful stop.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
