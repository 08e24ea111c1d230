// ABOUTME: Gateway orchestrator wiring the store, tool registry, and HTTP surfaces.
// ABOUTME: Manages server lifecycle, health endpoints, and graceful shutdown.

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/verdantlabs/todo-gateway/internal/auth"
	"github.com/verdantlabs/todo-gateway/internal/chat"
	"github.com/verdantlabs/todo-gateway/internal/config"
	"github.com/verdantlabs/todo-gateway/internal/httpapi"
	"github.com/verdantlabs/todo-gateway/internal/mcp"
	"github.com/verdantlabs/todo-gateway/internal/store"
	"github.com/verdantlabs/todo-gateway/internal/tools"
)

// Gateway orchestrates the todo-gateway server components: the SQLite task
// store, the tool registry, and one HTTP server carrying the REST API, the
// chat endpoint, and the MCP transport.
type Gateway struct {
	config     *config.Config
	store      store.TaskStore
	registry   *tools.Registry
	verifier   *auth.JWTVerifier
	httpServer *http.Server
	logger     *slog.Logger
}

// initStore creates the task store based on config and environment.
func initStore(cfg *config.Config) (store.TaskStore, error) {
	dbPath := cfg.Database.Path
	if envPath := os.Getenv("TODO_DB_PATH"); envPath != "" {
		dbPath = envPath
	}

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	return s, nil
}

// New creates a Gateway from the given configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s, err := initStore(cfg)
	if err != nil {
		return nil, err
	}

	registry := tools.NewRegistry(logger.With("component", "tools"))
	if err := registry.Register(tools.TaskPack(s)...); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("registering task tools: %w", err)
	}

	verifier := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))

	gw := &Gateway{
		config:   cfg,
		store:    s,
		registry: registry,
		verifier: verifier,
		logger:   logger.With("component", "gateway"),
	}

	mux := http.NewServeMux()

	// Health endpoints - no auth required
	mux.HandleFunc("/health", gw.handleHealth)
	mux.HandleFunc("/health/ready", gw.handleReady)

	// Authenticated application routes share one sub-mux behind the JWT
	// middleware: REST CRUD plus the conversational endpoint.
	appMux := http.NewServeMux()
	httpapi.NewAPI(s, logger.With("component", "api")).Routes(appMux)

	if cfg.OpenAI.APIKey != "" {
		completer := chat.NewOpenAICompleter(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
		agent := chat.NewAgent(completer, registry, cfg.OpenAI.Model, logger.With("component", "chat"))
		chat.NewHandler(agent, logger.With("component", "chat")).Routes(appMux)
		logger.Info("chat endpoint enabled", "model", cfg.OpenAI.Model)
	} else {
		logger.Warn("openai.api_key not set - /api/chat disabled")
	}

	mux.Handle("/api/", auth.Middleware(verifier)(appMux))

	// MCP transport manages its own framing and auth, so it sits outside
	// the middleware.
	mcpServer, err := mcp.NewServer(mcp.Config{
		Registry:      registry,
		Logger:        logger.With("component", "mcp"),
		TokenVerifier: verifier,
	})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}
	mcpServer.RegisterRoutes(mux)

	gw.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           httpapi.CORS(cfg.CORS.AllowedOrigins)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return gw, nil
}

// Run starts the gateway server and blocks until the context is canceled.
// Returns nil on graceful shutdown, or an error if the server fails.
func (g *Gateway) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", g.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	errCh := g.startServer(ln)
	serverErr := g.waitForShutdownSignal(ctx, errCh)

	shutdownErr := g.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// startServer starts the HTTP server in a goroutine, returning an error channel.
func (g *Gateway) startServer(ln net.Listener) chan error {
	errCh := make(chan error, 1)

	go func() {
		g.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := g.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	return errCh
}

// waitForShutdownSignal waits for context cancellation or a server error.
func (g *Gateway) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		g.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		g.logger.Error("server error", "error", err)
		return err
	}
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is already canceled.
func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), g.config.Server.ShutdownTimeout)
	defer cancel()
	return g.Shutdown(ctx)
}

// Shutdown stops the HTTP server and closes the store.
func (g *Gateway) Shutdown(ctx context.Context) error {
	var firstErr error

	if err := g.httpServer.Shutdown(ctx); err != nil {
		g.logger.Error("HTTP server shutdown", "error", err)
		firstErr = err
	}

	if err := g.store.Close(); err != nil {
		g.logger.Error("store close", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	g.logger.Info("gateway stopped")
	return firstErr
}

// handleHealth handles GET /health liveness checks.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// handleReady handles GET /health/ready readiness checks. Ready means the
// store answers queries.
func (g *Gateway) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := g.store.List(ctx, "readiness-probe", true, 1); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}
