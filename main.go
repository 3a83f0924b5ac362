package main

import (
	"context"
	"excalidraw-share/config"
	"excalidraw-share/core"
	"excalidraw-share/handlers/api/drawings"
	authMiddleware "excalidraw-share/middleware"
	"excalidraw-share/stores/filesystem"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// handleUI serves the frontend build directory. Paths that do not match a
// file and carry no extension are client-side routes (like /d/<id>), so
// they get the app shell and the frontend router resolves them.
func handleUI(frontendDir string) http.HandlerFunc {
	root := os.DirFS(frontendDir)
	fileServer := http.FileServer(http.FS(root))

	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		if f, err := root.Open(path); err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}

		if !strings.Contains(path, ".") {
			r.URL.Path = "/"
			fileServer.ServeHTTP(w, r)
			return
		}

		http.NotFound(w, r)
	}
}

func setupRouter(store core.DrawingStore, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Compress(5))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Content-Length"},
		MaxAge:         300,
	}))

	// Public routes: anyone who knows an id may read it.
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/api/view/{id}", drawings.HandleGet(store))
	r.Get("/api/public/drawings", drawings.HandleListPublic(store))

	// Mutating routes require the shared API key.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestSize(int64(cfg.MaxUploadMB) * 1024 * 1024))
		r.Use(authMiddleware.AuthAPIKey(cfg.APIKey))
		r.Post("/api/upload", drawings.HandleUpload(store, cfg.BaseURL))
		r.Get("/api/drawings", drawings.HandleList(store))
		r.Delete("/api/drawings/{id}", drawings.HandleDelete(store))
	})

	r.NotFound(handleUI(cfg.FrontendDir))
	return r
}

func waitForShutdown(srv *http.Server) {
	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-signalC

	logrus.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	listenAddr := flag.String("listen", "", "Override the configured listen address.")
	logLevel := flag.String("loglevel", "info", "The log level (debug, info, warn, error).")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	store, err := filesystem.NewStore(cfg.DataDir)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize drawing storage")
	}

	logrus.WithFields(logrus.Fields{
		"addr":    cfg.ListenAddr,
		"dataDir": cfg.DataDir,
		"baseURL": cfg.BaseURL,
	}).Info("starting server")

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: setupRouter(store, cfg),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	logrus.Debug("Server is running in the background")
	waitForShutdown(srv)
}
