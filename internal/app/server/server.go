package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/passkey-bridge/internal/bridge"
	androidadapter "github.com/louisbranch/passkey-bridge/internal/bridge/android"
	iosadapter "github.com/louisbranch/passkey-bridge/internal/bridge/ios"
	webadapter "github.com/louisbranch/passkey-bridge/internal/bridge/web"
	"github.com/louisbranch/passkey-bridge/internal/platform/timeouts"
	"github.com/louisbranch/passkey-bridge/internal/softtoken"
	softstore "github.com/louisbranch/passkey-bridge/internal/softtoken/store"
	storesqlite "github.com/louisbranch/passkey-bridge/internal/softtoken/store/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Config defines the inputs for the bridge daemon.
//
// The daemon pairs every platform adapter with the built-in software
// authenticator, so a single process can exercise all three credential
// surfaces without real OS credential stores.
type Config struct {
	HTTPAddr          string
	GRPCAddr          string
	DBPath            string
	APKKeyHash        string
	AssociatedDomains []string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Server hosts the bridge HTTP surface and a gRPC health listener.
type Server struct {
	httpListener    net.Listener
	grpcListener    net.Listener
	httpServer      *http.Server
	grpcServer      *grpc.Server
	health          *health.Server
	shutdownTimeout time.Duration
	closeStore      func() error
}

// New creates a configured bridge server listening on the provided
// addresses. An empty GRPCAddr disables the health listener; an empty
// DBPath keeps credentials in process memory.
func New(cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = timeouts.ReadHeader
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = timeouts.Shutdown
	}

	credentials, closeStore, err := openCredentialStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	token := softtoken.New(credentials)
	bridges := Bridges{
		Web:     bridge.New(webadapter.New(softtoken.NewNavigator(token))),
		Android: bridge.New(androidadapter.New(softtoken.NewCredentialManager(token, cfg.APKKeyHash))),
		IOS:     bridge.New(iosadapter.New(softtoken.NewAuthorizationController(token), cfg.AssociatedDomains...)),
	}

	httpListener, err := net.Listen("tcp", httpAddr)
	if err != nil {
		closeStoreQuietly(closeStore)
		return nil, fmt.Errorf("listen on %s: %w", httpAddr, err)
	}

	server := &Server{
		httpListener: httpListener,
		httpServer: &http.Server{
			Handler:           NewHandler(bridges),
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		closeStore:      closeStore,
	}

	if grpcAddr := strings.TrimSpace(cfg.GRPCAddr); grpcAddr != "" {
		grpcListener, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			_ = httpListener.Close()
			closeStoreQuietly(closeStore)
			return nil, fmt.Errorf("listen on %s: %w", grpcAddr, err)
		}
		grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
		healthServer := health.NewServer()
		grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
		server.grpcListener = grpcListener
		server.grpcServer = grpcServer
		server.health = healthServer
	}

	return server, nil
}

// Run creates and serves a bridge server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return fmt.Errorf("init bridge server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve bridge: %w", err)
	}
	return nil
}

// HTTPAddr returns the bound HTTP listener address.
func (s *Server) HTTPAddr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// GRPCAddr returns the bound health listener address, or empty when the
// health listener is disabled.
func (s *Server) GRPCAddr() string {
	if s == nil || s.grpcListener == nil {
		return ""
	}
	return s.grpcListener.Addr().String()
}

// ListenAndServe runs both listeners until the context ends or a listener
// fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("bridge server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 2)
	log.Printf("bridge http listening at %v", s.httpListener.Addr())
	go func() {
		err := s.httpServer.Serve(s.httpListener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()
	if s.grpcServer != nil {
		log.Printf("bridge health listening at %v", s.grpcListener.Addr())
		go func() {
			err := s.grpcServer.Serve(s.grpcListener)
			if errors.Is(err, grpc.ErrServerStopped) {
				err = nil
			}
			serveErr <- err
		}()
	}

	select {
	case <-ctx.Done():
		return s.stop()
	case err := <-serveErr:
		stopErr := s.stop()
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return stopErr
	}
}

// stop drains both listeners. Health flips to NOT_SERVING before the
// HTTP shutdown window opens.
func (s *Server) stop() error {
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.GracefulStop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpListener != nil {
		_ = s.httpListener.Close()
	}
	if s.grpcListener != nil {
		_ = s.grpcListener.Close()
	}
	if s.closeStore != nil {
		if err := s.closeStore(); err != nil {
			log.Printf("close credential store: %v", err)
		}
		s.closeStore = nil
	}
}

func openCredentialStore(path string) (softstore.Store, func() error, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return softstore.NewMemory(), nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	sqliteStore, err := storesqlite.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return sqliteStore, sqliteStore.Close, nil
}

func closeStoreQuietly(closeStore func() error) {
	if closeStore == nil {
		return
	}
	if err := closeStore(); err != nil {
		log.Printf("close credential store: %v", err)
	}
}
