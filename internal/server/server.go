// Package server accepts the single TCP client that feeds the
// coprocessor its packet stream.
package server

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"sdhr-core/internal/core"
	"sdhr-core/internal/debug"
)

const packetSize = 4

// readDeadline bounds how long a read can stall before the connection
// is dropped and the next client is accepted.
const readDeadline = 30 * time.Second

// Server accepts one client connection at a time and feeds its
// 4-byte packets to a Core. There is no multi-client fan-out: the
// next Accept only happens once the current connection closes.
type Server struct {
	listener net.Listener
	newCore  func() *core.Core
	logger   *debug.Logger
	done     chan struct{}
}

// New binds addr and returns a Server that builds a fresh Core (via
// newCore) for each accepted connection.
func New(addr string, newCore func() *core.Core, logger *debug.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return &Server{listener: ln, newCore: newCore, logger: logger, done: make(chan struct{})}, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve runs the accept loop until the listener is closed.
func (s *Server) Serve() error {
	defer close(s.done)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		s.handleConn(conn)
	}
}

// Close stops accepting new connections and waits for Serve to return.
func (s *Server) Close() error {
	err := s.listener.Close()
	<-s.done
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	if s.logger != nil {
		s.logger.Logf(debug.ComponentServer, debug.LogLevelInfo, "client connected: %s", conn.RemoteAddr())
	}

	c := s.newCore()
	buf := make([]byte, packetSize)

	for {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		if _, err := io.ReadFull(conn, buf); err != nil {
			if s.logger != nil {
				s.logger.Logf(debug.ComponentServer, debug.LogLevelInfo, "client disconnected: %v", err)
			}
			return
		}

		addr := binary.LittleEndian.Uint16(buf[0:2])
		data := buf[2]
		c.HandlePacket(addr, data)
	}
}
