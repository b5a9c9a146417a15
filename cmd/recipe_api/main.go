package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartrecipe/recipe-api/api"
	"github.com/smartrecipe/recipe-api/config"
	"github.com/smartrecipe/recipe-api/store"
)

func main() {
	// Define command-line flags
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		port       = flag.String("port", "", "Port to run the server on (overrides config)")
		configPath = flag.String("config", "", "Path to a YAML config file")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Recipe API - ingredient-based recipe discovery backend\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                          # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --port 9000              # Start server on port 9000\n", os.Args[0])
		fmt.Printf("  %s --config config.yaml     # Load settings from a YAML file\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("Recipe API v1.0.0\n")
		return
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != "" {
		settings.Port = *port
	}

	// Connect the document store; it is constructed here once and injected
	// into the handlers rather than held as ambient state.
	st, err := store.Connect(context.Background(), settings.MongoURI, settings.Database)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	// Initialize Gin router
	router := gin.Default()
	router.Use(
		api.CORSMiddleware(),
		api.RequestIDMiddleware(),
		api.RequestSizeLimitMiddleware(settings.RequestBodyLimitBytes),
	)

	// Setup API routes
	if err := api.SetupRoutes(router, st.Recipes, st.Favorites); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	server := &http.Server{
		Addr:    ":" + settings.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting server on port %s...", settings.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Shut down cleanly on SIGINT/SIGTERM, closing the store client last.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	if err := st.Close(ctx); err != nil {
		log.Printf("Closing store connection: %v", err)
	}
	log.Println("MongoDB connection closed")
}
