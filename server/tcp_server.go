// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/mailhub/actor"
	"github.com/tochemey/mailhub/address"
	gerrors "github.com/tochemey/mailhub/errors"
	"github.com/tochemey/mailhub/internal/tcp"
	"github.com/tochemey/mailhub/log"
)

// ChannelStrategy hands every accepted connection to the actor that will
// own it. The returned actor is started by the server; it is responsible for
// closing the connection and retiring itself.
type ChannelStrategy interface {
	Accept(conn net.Conn) (*actor.Actor, error)
}

// ChannelStrategyFunc adapts a function to ChannelStrategy.
type ChannelStrategyFunc func(conn net.Conn) (*actor.Actor, error)

// Accept calls f(conn).
func (f ChannelStrategyFunc) Accept(conn net.Conn) (*actor.Actor, error) {
	return f(conn)
}

// Shutdown makes the TCPServer receiving it close its listener. Live
// connections are left to their actors.
type Shutdown struct{}

// TCPServer supervises a listener. It is backed by an actor whose start runs
// the accept loops; every accepted connection is handed to the
// ChannelStrategy and the returned actor is started on the hub.
type TCPServer struct {
	hub          *actor.Hub
	address      string
	strategy     ChannelStrategy
	listenConfig *tcp.ListenConfig
	logger       log.Logger
	loops        int
	timeout      time.Duration

	mu       sync.Mutex
	listener net.Listener
	self     *actor.Actor
	group    *errgroup.Group
	conns    map[*conn]struct{}
	connWG   sync.WaitGroup

	started  atomic.Bool
	shutdown atomic.Bool
	accepted atomic.Int64
	active   atomic.Int64
}

// NewTCPServer creates a TCPServer listening on address once started.
func NewTCPServer(hub *actor.Hub, address string, strategy ChannelStrategy, opts ...Option) *TCPServer {
	config := newSettings(opts...)
	return &TCPServer{
		hub:          hub,
		address:      address,
		strategy:     strategy,
		listenConfig: &tcp.ListenConfig{ReusePort: config.reusePort},
		logger:       config.logger,
		loops:        config.loops,
		timeout:      config.shutdownTimeout,
		conns:        make(map[*conn]struct{}),
	}
}

// Start binds the listener and starts the supervising actor. Starting a
// started server is a no-op; a stopped server cannot be restarted.
func (s *TCPServer) Start(ctx context.Context) error {
	if s.strategy == nil {
		return errors.New("channel strategy is required")
	}

	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	listener, err := s.listenConfig.Listen(ctx, s.address)
	if err != nil {
		s.started.Store(false)
		return err
	}

	self, err := s.hub.Spawn(&supervisor{server: s})
	if err != nil {
		s.started.Store(false)
		return errors.Join(err, listener.Close())
	}

	s.mu.Lock()
	s.listener = listener
	s.self = self
	s.mu.Unlock()

	if err := s.hub.StartActor(self.Address()); err != nil {
		self.Retire()
		s.shutdown.Store(true)
		return errors.Join(err, listener.Close())
	}

	s.logger.Infof("server listening on %s", listener.Addr())
	return nil
}

// Stop closes the listener, waits for the accept loops to exit and for live
// connections to be closed by their actors. Connections still open after the
// shutdown timeout, or when ctx is done, are closed.
func (s *TCPServer) Stop(ctx context.Context) error {
	if !s.started.Load() {
		return gerrors.ErrServerNotStarted
	}

	closeErr := s.closeListener()

	s.mu.Lock()
	group := s.group
	self := s.self
	s.mu.Unlock()

	var err error
	if group != nil {
		err = group.Wait()
	}

	s.awaitConnections(ctx)
	if self != nil {
		self.Retire()
	}

	s.logger.Infof("server %s stopped after %d connections", s.address, s.accepted.Load())
	return errors.Join(closeErr, err)
}

// Addr returns the bound address, or nil before Start.
func (s *TCPServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Address returns the address of the supervising actor, to which Shutdown
// can be sent. It is nil before Start.
func (s *TCPServer) Address() *address.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.self == nil {
		return nil
	}
	return s.self.Address()
}

// ActiveConnections returns the number of connections not closed yet.
func (s *TCPServer) ActiveConnections() int64 {
	return s.active.Load()
}

// AcceptedConnections returns the number of connections accepted so far.
func (s *TCPServer) AcceptedConnections() int64 {
	return s.accepted.Load()
}

// serve launches the accept loops unless the server is already shutting
// down.
func (s *TCPServer) serve() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdown.Load() {
		return
	}

	group := new(errgroup.Group)
	for range s.loops {
		group.Go(s.acceptLoop)
	}
	s.group = group
}

func (s *TCPServer) closeListener() error {
	if !s.shutdown.CompareAndSwap(false, true) {
		return nil
	}

	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return nil
	}
	return listener.Close()
}

func (s *TCPServer) acceptLoop() error {
	for {
		if s.shutdown.Load() {
			return nil
		}

		raw, err := s.listener.Accept()
		if err != nil {
			if s.shutdown.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}

			s.logger.Errorf("server %s failed to accept: %v", s.address, err)
			return err
		}

		s.accepted.Inc()
		s.serveConn(raw)
	}
}

func (s *TCPServer) serveConn(raw net.Conn) {
	c := s.track(raw)
	if c == nil {
		_ = raw.Close()
		return
	}

	handler, err := s.strategy.Accept(c)
	if err != nil {
		s.logger.Warnf("connection %s rejected: %v", c.id, err)
		_ = c.Close()
		return
	}

	if err := s.hub.StartActor(handler.Address()); err != nil {
		s.logger.Warnf("connection %s handler failed to start: %v", c.id, err)
		handler.Retire()
		_ = c.Close()
		return
	}

	s.logger.Debugf("connection %s from %s handled by %s", c.id, raw.RemoteAddr(), handler.Address())
}

func (s *TCPServer) track(raw net.Conn) *conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdown.Load() {
		return nil
	}

	c := newConn(raw, s)
	s.conns[c] = struct{}{}
	s.connWG.Add(1)
	s.active.Inc()
	return c
}

func (s *TCPServer) untrack(c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conns[c]; !ok {
		return
	}
	delete(s.conns, c)
	s.active.Dec()
	s.connWG.Done()
}

func (s *TCPServer) awaitConnections(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.connWG.Wait()
		close(done)
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case <-done:
		return
	case <-timer.C:
	case <-ctx.Done():
	}

	s.mu.Lock()
	remaining := make([]*conn, 0, len(s.conns))
	for c := range s.conns {
		remaining = append(remaining, c)
	}
	s.mu.Unlock()

	s.logger.Warnf("server %s closing %d live connections", s.address, len(remaining))
	for _, c := range remaining {
		_ = c.Close()
	}
	<-done
}

// supervisor is the behavior of the actor backing a TCPServer.
type supervisor struct {
	server *TCPServer
}

var _ actor.Starter = (*supervisor)(nil)

func (x *supervisor) Start(*actor.Context) error {
	x.server.serve()
	return nil
}

func (x *supervisor) React(ctx *actor.Context, msg *actor.Message) error {
	switch msg.Payload().(type) {
	case Shutdown, *Shutdown:
		if err := x.server.closeListener(); err != nil {
			ctx.Logger().Warnf("server %s listener close: %v", x.server.address, err)
		}
	default:
		ctx.Unhandled()
	}
	return nil
}
