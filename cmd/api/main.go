package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sustainers/sustain-chain/api"
	"github.com/sustainers/sustain-chain/app"
	chainsdk "github.com/sustainers/sustain-chain/sdk"
)

func main() {
	host := flag.String("host", "0.0.0.0", "Server host")
	port := flag.Int("port", 8080, "Server port")
	grpcAddr := flag.String("grpc", "", "Node gRPC address for tx relay (e.g. localhost:9090)")
	chainID := flag.String("chain-id", "sustain-1", "Chain ID")
	noRateLimit := flag.Bool("no-rate-limit", false, "Disable rate limiting (for testing)")
	flag.Parse()

	config := &api.Config{
		Host:             *host,
		Port:             *port,
		ReadTimeout:      30 * time.Second,
		WriteTimeout:     30 * time.Second,
		DisableRateLimit: *noRateLimit,
	}

	// Standalone service backed by an in-memory keeper. Useful for
	// frontend development without a running chain.
	service := api.NewStandaloneKeeperService()
	server := api.NewServer(config, service)

	if *grpcAddr != "" {
		encodingConfig := app.MakeEncodingConfig()
		broadcaster, err := chainsdk.NewDirectGRPCClient(*grpcAddr, *chainID, encodingConfig.Codec)
		if err != nil {
			log.Fatalf("Failed to connect to node gRPC: %v", err)
		}
		defer broadcaster.Close()
		server.WithBroadcaster(broadcaster)
		log.Printf("Transaction relay enabled via %s", *grpcAddr)
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Sustain API server started on %s:%d", *host, *port)
	log.Printf("WebSocket endpoint: ws://%s:%d/ws", *host, *port)
	log.Printf("Health check: http://%s:%d/health", *host, *port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server exited")
}
