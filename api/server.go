package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/sustainers/sustain-chain/api/handlers"
	"github.com/sustainers/sustain-chain/api/middleware"
	"github.com/sustainers/sustain-chain/api/types"
	"github.com/sustainers/sustain-chain/api/websocket"
	"github.com/sustainers/sustain-chain/metrics"
	chainsdk "github.com/sustainers/sustain-chain/sdk"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
	hub        *websocket.Hub
	config     *Config

	// Services
	poolService types.PoolService

	// Handlers
	poolHandler *handlers.PoolHandler

	// Rate limiter
	rateLimiter *middleware.RateLimiter

	// Optional tx relay to a running node
	broadcaster *chainsdk.DirectGRPCClient
}

// Config contains server configuration
type Config struct {
	Host             string
	Port             int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	DisableRateLimit bool // For testing purposes
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// NewServer creates a new API server over the given pool service
func NewServer(config *Config, poolService types.PoolService) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Server{
		config:      config,
		hub:         websocket.NewHub(websocket.DefaultHubConfig()),
		poolService: poolService,
		rateLimiter: middleware.NewRateLimiter(middleware.DefaultRateLimitConfig()),
	}

	s.poolHandler = handlers.NewPoolHandler(poolService)

	return s
}

// WithBroadcaster attaches a gRPC tx relay for POST /v1/txs
func (s *Server) WithBroadcaster(b *chainsdk.DirectGRPCClient) *Server {
	s.broadcaster = b
	return s
}

// Hub returns the WebSocket hub for event wiring
func (s *Server) Hub() *websocket.Hub {
	return s.hub
}

// Start starts the API server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/health", s.handleHealth)

	// Pool endpoints (read-only)
	mux.HandleFunc("/v1/pools", s.poolHandler.HandlePools)
	mux.HandleFunc("/v1/pools/", s.poolHandler.HandlePool)

	// Owner endpoints
	mux.HandleFunc("/v1/owners/", s.poolHandler.HandleOwner)

	// Sustainer endpoints
	mux.HandleFunc("/v1/sustainers/", s.poolHandler.HandleSustainer)

	// Transaction relay, rate-limited separately
	var txHandler http.Handler = http.HandlerFunc(s.handleBroadcastTx)
	if !s.config.DisableRateLimit {
		txHandler = middleware.TxRateLimitMiddleware(s.rateLimiter)(txHandler)
	}
	mux.Handle("/v1/txs", txHandler)

	// Prometheus metrics
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket
	mux.HandleFunc("/ws", s.hub.ServeWS)

	// Middleware chain: CORS -> RateLimit -> Handler
	var handler http.Handler
	if s.config.DisableRateLimit {
		handler = corsMiddleware(mux)
	} else {
		handler = corsMiddleware(
			middleware.RateLimitMiddleware(s.rateLimiter)(mux),
		)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	go s.hub.Run()

	log.Printf("API server starting on %s", addr)
	if s.broadcaster == nil {
		log.Printf("No gRPC node attached, POST /v1/txs disabled")
	}
	if s.config.DisableRateLimit {
		log.Printf("Rate limiting DISABLED (for testing)")
	}
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	s.rateLimiter.Stop()
	return s.httpServer.Shutdown(ctx)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().Unix(),
		"clients":     s.hub.GetClientCount(),
		"broadcaster": s.broadcaster != nil,
	})
}

// handleBroadcastTx handles POST /v1/txs, relaying a signed transaction
// to the attached node
func (s *Server) handleBroadcastTx(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.broadcaster == nil {
		writeError(w, http.StatusServiceUnavailable, "No node attached for transaction relay")
		return
	}

	var req types.BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	txBytes, err := base64.StdEncoding.DecodeString(req.TxBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, "tx_bytes must be base64")
		return
	}
	if len(txBytes) == 0 {
		writeError(w, http.StatusBadRequest, "tx_bytes is required")
		return
	}

	timer := metrics.NewTimer()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	switch req.Mode {
	case "", "sync":
		res, err := s.broadcaster.BroadcastTxSync(ctx, txBytes)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		metrics.GetCollector().RecordAPIRequest(r.Method, "/v1/txs", "200", timer.ElapsedMs())
		writeJSON(w, http.StatusOK, &types.BroadcastResponse{
			TxHash: res.TxHash,
			Code:   res.Code,
			RawLog: res.RawLog,
		})
		return
	case "async":
		res, err := s.broadcaster.BroadcastTxAsync(ctx, txBytes)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		metrics.GetCollector().RecordAPIRequest(r.Method, "/v1/txs", "200", timer.ElapsedMs())
		writeJSON(w, http.StatusOK, &types.BroadcastResponse{
			TxHash: res.TxHash,
			Code:   res.Code,
			RawLog: res.RawLog,
		})
		return
	default:
		writeError(w, http.StatusBadRequest, "mode must be sync or async")
		return
	}
}

// corsMiddleware opens the read surface to browser frontends and answers
// preflight requests before they reach the mux
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}
