package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trackstash/config"
	"trackstash/logger"
	"trackstash/repository"
	"trackstash/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server. It blocks until the
// process receives SIGINT or SIGTERM, then shuts down gracefully.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    50,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	trackRepo, err := repository.NewJSONTrackRepository(cfg.StorePath)
	if err != nil {
		logger.Fatal("failed to load track store",
			logger.String("path", cfg.StorePath),
			logger.ErrorField(err))
	}
	logger.Info("track store loaded",
		logger.String("path", cfg.StorePath),
		logger.Int("tracks", trackRepo.Count()))

	var store storage.Provider
	switch cfg.StorageDriver {
	case "minio":
		store, err = storage.NewMinioProvider(cfg)
		if err != nil {
			logger.Fatal("failed to initialize MinIO storage", logger.ErrorField(err))
		}
	default:
		ensureDirExists(cfg.UploadDir)
		store = storage.NewLocalProvider(cfg.UploadDir)
	}

	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	if cfg.WatchStore {
		go func() {
			if err := trackRepo.Watch(watchCtx); err != nil {
				logger.Error("store watcher stopped", logger.ErrorField(err))
			}
		}()
	}

	apiHandler := NewAPIHandler(trackRepo, store)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      NewRouter(apiHandler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server listening",
			logger.String("port", cfg.Port),
			logger.String("storage", cfg.StorageDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", logger.ErrorField(err))
	}
	trackRepo.Flush()
	logger.Info("server stopped")
}

// NewRouter builds the service's route table.
func NewRouter(h *APIHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(requestLogMiddleware)

	router.HandleFunc("/api/music/tracks", h.ListTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/music/tracks", h.UploadTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/music/tracks/{slug}/mp3", h.DownloadTrackHandler).Methods(http.MethodGet)

	return router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Duration("duration", time.Since(start)))
	})
}

func ensureDirExists(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info("creating directory", logger.String("path", path))
		if err := os.MkdirAll(path, 0755); err != nil {
			logger.Fatal("failed to create directory",
				logger.String("path", path),
				logger.ErrorField(err))
		}
	} else if err != nil {
		logger.Fatal("failed to check directory",
			logger.String("path", path),
			logger.ErrorField(err))
	}
}
