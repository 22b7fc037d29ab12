package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"grapholite/internal/config"
	"grapholite/internal/handler"
	"grapholite/internal/hub"
	"grapholite/internal/repository/sqlite"
	"grapholite/internal/service"
	"grapholite/internal/watcher"
)

func main() {
	configPath := flag.String("config", "", "Config file path (overrides discovery)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting grapholite server...")

	// Load configuration
	var cfg *config.Config
	var loadedFrom string
	var err error
	if *configPath != "" {
		cfg, loadedFrom, err = config.LoadFromPath(*configPath)
	} else {
		cfg, loadedFrom, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if loadedFrom != "" {
		log.Printf("Config loaded from %s", loadedFrom)
	} else {
		log.Println("No config file found, using defaults")
	}
	log.Println(cfg.Summary())

	// Initialize SQLite repository
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	// Initialize event bus
	eventBus := service.NewEventBus()

	// Initialize SSE hub
	sseHub := hub.New()
	go sseHub.Run()

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for event := range eventChan {
			sseHub.Broadcast(event)
		}
	}()

	// Initialize service and handlers
	diagramSvc := service.NewDiagramService(repo, eventBus)
	diagramHandler := handler.NewDiagramHandler(diagramSvc)

	mux := handler.Routes(diagramHandler, sseHub)

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
	)

	// Start the diagram directory watcher
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Diagrams.Watch && cfg.Diagrams.Dir != "" {
		importFile := func(path string) {
			if err := importGraphol(watchCtx, diagramSvc, path); err != nil {
				log.Printf("Failed to import %s: %v", path, err)
			}
		}

		// Import existing diagrams before watching for changes.
		entries, err := filepath.Glob(filepath.Join(cfg.Diagrams.Dir, "*.graphol"))
		if err != nil {
			log.Printf("Failed to list diagram directory: %v", err)
		}
		for _, path := range entries {
			importFile(path)
		}

		w := watcher.New(cfg.Diagrams.Dir, importFile)
		go func() {
			if err := w.Watch(watchCtx); err != nil && err != context.Canceled {
				log.Printf("Watcher stopped: %v", err)
			}
		}()
	}

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      finalHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	watchCancel()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// importGraphol loads a .graphol file into the store, named after the file
func importGraphol(ctx context.Context, svc *service.DiagramService, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	diagram, err := svc.ImportGraphol(ctx, name, data)
	if err != nil {
		return err
	}

	log.Printf("Imported %s: %d nodes, %d edges", name, diagram.NodeCount(), diagram.EdgeCount())
	return nil
}
