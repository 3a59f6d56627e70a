// Package server implements a minimal online charging server: it accepts
// TCP peers, parses Credit-Control-Requests and answers every one with the
// configured quota grant. It exists as the test harness peer for Gy clients,
// not as a production OCS.
package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hsdfat8/gy-dcca/commands/creditcontrol"
	"github.com/hsdfat8/gy-dcca/dictionary"
	"github.com/hsdfat8/gy-dcca/internal/config"
	"github.com/hsdfat8/gy-dcca/pkg/logger"
	"github.com/hsdfat8/gy-dcca/pkg/metrics"
	"github.com/hsdfat8/gy-dcca/transport"
)

// OCS is the mock online charging server.
type OCS struct {
	cfg      *config.Config
	engine   *creditcontrol.Engine
	registry *dictionary.Registry
	metrics  *metrics.ExchangeMetrics

	listener net.Listener
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	activeConns atomic.Int64
}

// NewOCS builds a server bound to the given registry and configuration.
func NewOCS(cfg *config.Config, reg *dictionary.Registry) (*OCS, error) {
	engine, err := creditcontrol.NewEngine(reg)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &OCS{
		cfg:      cfg,
		engine:   engine,
		registry: reg,
		metrics:  metrics.NewExchangeMetrics(),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start opens the listener and begins accepting peers.
func (s *OCS) Start() error {
	listener, err := net.Listen("tcp", s.cfg.Server.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Server.ListenAddr, err)
	}
	s.listener = listener
	logger.Log.Infow("OCS listening", "addr", listener.Addr().String(),
		"origin_host", s.cfg.Server.OriginHost)

	s.wg.Add(1)
	go s.acceptLoop()

	if s.cfg.Metrics.Enabled && s.cfg.Metrics.StatsInterval > 0 {
		s.wg.Add(1)
		go s.statsLoop()
	}
	return nil
}

// Addr returns the bound listener address, usable after Start.
func (s *OCS) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener and waits for in-flight handlers.
func (s *OCS) Stop() {
	s.cancel()
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	logger.Log.Infow("OCS stopped", "stats", metrics.CompactMetrics("ocs", s.metrics))
}

// Metrics exposes the exchange counters.
func (s *OCS) Metrics() *metrics.ExchangeMetrics {
	return s.metrics
}

func (s *OCS) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return
			default:
				logger.Log.Errorw("Failed to accept connection", "error", err)
				s.metrics.Increment(metrics.TransportErrors)
				continue
			}
		}

		if int(s.activeConns.Load()) >= s.cfg.Server.MaxConnections {
			logger.Log.Warnw("Max connections reached, rejecting peer",
				"remote", conn.RemoteAddr().String())
			conn.Close()
			continue
		}

		s.activeConns.Add(1)
		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

func (s *OCS) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer s.activeConns.Add(-1)
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	logger.Log.Infow("Peer connected", "remote", remote)

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		if s.cfg.Server.ReadTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.cfg.Server.ReadTimeout))
		}
		msg, err := transport.ReadMessage(conn)
		if err != nil {
			logger.Log.Debugw("Peer read ended", "remote", remote, "error", err)
			return
		}

		answer := s.handleMessage(msg)
		if answer == nil {
			continue
		}
		if s.cfg.Server.WriteTimeout > 0 {
			conn.SetWriteDeadline(time.Now().Add(s.cfg.Server.WriteTimeout))
		}
		if err := transport.WriteMessage(conn, answer); err != nil {
			logger.Log.Errorw("Failed to write answer", "remote", remote, "error", err)
			s.metrics.Increment(metrics.TransportErrors)
			return
		}
		s.metrics.Increment(metrics.CCASent)
	}
}

func (s *OCS) statsLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.Metrics.StatsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			logger.Log.Infow(metrics.CompactMetrics("ocs", s.metrics))
		}
	}
}
