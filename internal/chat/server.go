package chat

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// acceptInterval bounds each Accept wait so the shutdown flag is observed
// within one polling interval even when nobody is connecting.
const acceptInterval = time.Second

// Server ties the acceptor, registry, moderation store, history, and
// router together and owns the shutdown sequence.
type Server struct {
	addr        string
	metricsAddr string
	logger      *slog.Logger

	registry   *Registry
	moderation *Moderation
	history    *History
	router     *Router
	exporter   Exporter

	listener   net.Listener
	metricsSrv *http.Server
	shutdown   atomic.Bool
	wg         sync.WaitGroup
}

// Options configures a Server. Zero values fall back to working
// defaults.
type Options struct {
	Addr         string
	MetricsAddr  string
	HistoryLimit int
	Exporter     Exporter
	Logger       *slog.Logger
}

func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":5000"
	}
	if opts.Exporter == nil {
		opts.Exporter = FileExporter{Dir: "."}
	}
	s := &Server{
		addr:        opts.Addr,
		metricsAddr: opts.MetricsAddr,
		logger:      opts.Logger,
		moderation:  NewModeration(),
		history:     NewHistory(opts.HistoryLimit),
		exporter:    opts.Exporter,
	}
	s.registry = NewRegistry(opts.Logger)
	s.router = NewRouter(s.registry, s.history, &s.shutdown, opts.Logger)
	return s
}

// Registry exposes the session registry for the admin console.
func (s *Server) Registry() *Registry { return s.registry }

// Moderation exposes the moderation store for the admin console.
func (s *Server) Moderation() *Moderation { return s.moderation }

// History exposes the chat history for the admin console.
func (s *Server) History() *History { return s.history }

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln

	if s.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		s.metricsSrv = &http.Server{Addr: s.metricsAddr, Handler: mux}
		go func() {
			if err := s.metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				s.logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	s.wg.Add(1)
	go s.acceptLoop(ln)

	s.logger.Info("server started", "addr", ln.Addr().String())
	return nil
}

// Addr reports the bound listen address, useful when Start was given
// port 0.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop stops accepting, force-closes every live session without leave
// notices, and waits for the handlers to drain.
func (s *Server) Stop() {
	if s.shutdown.Swap(true) {
		return
	}
	s.logger.Info("shutting down")

	if s.listener != nil {
		s.listener.Close()
	}
	for _, sess := range s.registry.Snapshot() {
		sess.Conn.Close()
	}
	s.wg.Wait()

	if s.metricsSrv != nil {
		s.metricsSrv.Close()
	}
	s.logger.Info("shutdown complete")
}

func (s *Server) shuttingDown() bool {
	return s.shutdown.Load()
}

// register admits a session unless shutdown has begun. The re-check
// after Register closes the window where Stop sweeps the registry
// between this handler's first check and the insert: a session whose
// second check still saw the flag unset was inserted before the sweep's
// snapshot and is closed by it.
func (s *Server) register(sess *Session) error {
	if s.shuttingDown() {
		return ErrShuttingDown
	}
	if err := s.registry.Register(sess); err != nil {
		return err
	}
	if s.shuttingDown() {
		s.registry.Unregister(sess.ID)
		return ErrShuttingDown
	}
	return nil
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()
	for {
		if s.shuttingDown() {
			return
		}
		if tl, ok := ln.(*net.TCPListener); ok {
			tl.SetDeadline(time.Now().Add(acceptInterval))
		}
		conn, err := ln.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			// The listener is gone; either shutdown closed it or it
			// failed underneath us. Nothing left to accept.
			if !s.shuttingDown() {
				s.logger.Error("accept failed", "error", err)
			}
			return
		}
		s.logger.Info("client connected", "addr", conn.RemoteAddr().String())
		s.wg.Add(1)
		go s.handleSession(conn)
	}
}
