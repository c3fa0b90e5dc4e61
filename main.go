package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	dbPath := flag.String("db", "tankarena.db", "Path to SQLite database file")
	clientDir := flag.String("client", "", "Path to client directory (default: ../client)")
	flag.Parse()

	if *clientDir == "" {
		exe, _ := os.Executable()
		*clientDir = filepath.Join(filepath.Dir(exe), "..", "client")
		// Fallback for development
		if _, err := os.Stat(*clientDir); os.IsNotExist(err) {
			*clientDir = "../client"
		}
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatal("Failed to load config", "path", *configPath, "err", err)
	}

	db, err := OpenDB(*dbPath)
	if err != nil {
		log.Fatal("Failed to open database", "path", *dbPath, "err", err)
	}
	defer db.Close()

	analytics := NewAnalytics(db)
	defer analytics.Stop()

	hub := NewHub(cfg, db, analytics)
	go hub.Run()

	mux := SetupRoutes(hub, *clientDir)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Info("Server starting", "addr", *addr)
		log.Info("Serving client files", "dir", *clientDir)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("ListenAndServe", "err", err)
		}
	}()

	<-stop
	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		server.Close()
	}
}
