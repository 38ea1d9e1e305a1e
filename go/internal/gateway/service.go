package gateway

import (
	"context"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Service is the countdown gateway: REST controls plus the websocket feed.
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	controlHandler    *ControlHandler
	allowedOrigins    []string
}

// Config holds configuration for the gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	AllowedOrigins   []string
}

// DefaultConfig returns default configuration for the gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		AllowedOrigins:   []string{"*"},
	}
}

// NewService wires the handlers around cd. The connection manager is exposed
// through ConnectionManager so the controller can publish to it.
func NewService(config Config, cd Countdown, cm *ConnectionManager) *Service {
	if cm == nil {
		cm = NewConnectionManager(config.ConnectionConfig)
	}
	return &Service{
		connectionManager: cm,
		wsHandler:         NewWebSocketHandler(cm, cd),
		controlHandler:    NewControlHandler(cd),
		allowedOrigins:    config.AllowedOrigins,
	}
}

// ConnectionManager returns the websocket fan-out used by the service
func (s *Service) ConnectionManager() *ConnectionManager {
	return s.connectionManager
}

// Start runs the broadcast loop until ctx is cancelled
func (s *Service) Start(ctx context.Context) {
	log.Info().Msg("starting countdown gateway service")
	s.connectionManager.Start(ctx)
	log.Info().Msg("countdown gateway service stopped")
}

// RegisterRoutes registers the REST, websocket and health routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.controlHandler.RegisterRoutes(mux)
	s.wsHandler.RegisterRoutes(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
	log.Info().Msg("countdown gateway routes registered")
}

// Handler returns the full gateway handler with CORS and HTTP/2 cleartext
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
		},
		AllowedOrigins: s.allowedOrigins,
		AllowedHeaders: []string{"*"},
	})
	return h2c.NewHandler(c.Handler(mux), &http2.Server{})
}
