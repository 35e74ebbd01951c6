package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/spf13/pflag"

	"github.com/sayanchanda7290/roomradar/auth"
	"github.com/sayanchanda7290/roomradar/booking"
	"github.com/sayanchanda7290/roomradar/config"
	"github.com/sayanchanda7290/roomradar/db"
	"github.com/sayanchanda7290/roomradar/filemgr"
	"github.com/sayanchanda7290/roomradar/media"
	"github.com/sayanchanda7290/roomradar/metrics"
	"github.com/sayanchanda7290/roomradar/middleware"
	"github.com/sayanchanda7290/roomradar/mq"
	"github.com/sayanchanda7290/roomradar/places"
	"github.com/sayanchanda7290/roomradar/ratelim"
	"github.com/sayanchanda7290/roomradar/rdx"
	"github.com/sayanchanda7290/roomradar/routes"
	"github.com/sayanchanda7290/roomradar/session"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s - %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

func main() {
	configPath := pflag.String("config", "", "path to a YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	database, err := db.Connect(ctx, cfg.Mongo)
	if err != nil {
		cancel()
		log.Fatalf("mongo: %v", err)
	}
	if err := database.CreateIndexes(ctx); err != nil {
		cancel()
		log.Fatalf("mongo indexes: %v", err)
	}
	cancel()
	log.Println("Connected to MongoDB")

	var (
		redisClient *rdx.Client
		placeCache  places.Cache
		publisher   mq.Publisher
	)
	if cfg.Redis.Address != "" {
		redisClient = rdx.NewClient(cfg.Redis)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx)
		pingCancel()
		if err != nil {
			log.Printf("Redis unavailable, running without cache and events: %v", err)
			redisClient.Close()
			redisClient = nil
		} else {
			placeCache = redisClient
			publisher = redisClient
			log.Printf("Connected to Redis at %s", cfg.Redis.Address)
		}
	}
	events := mq.NewEmitter(publisher)
	metrics.Register()
	filemgr.LogFunc = func(path string, size int64, mimeType string) {
		log.Printf("Staged %s (%d bytes, %s)", path, size, mimeType)
	}

	uploader, err := media.NewUploader(cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	sessions := session.NewManager(cfg.Session)
	placeSvc := places.NewService(places.NewMongoStore(database.PlacesCollection), placeCache, events)
	hub := booking.NewHub(cfg.Server.AllowedOrigins)
	bookingSvc := booking.NewService(
		booking.NewMongoStore(database.BookingsCollection, database.PlacesCollection.Name()),
		events,
		hub,
	)

	handlers := routes.Handlers{
		Middleware: middleware.NewAuth(sessions),
		Auth: auth.NewHandler(
			auth.NewCredentials(auth.NewMongoUserStore(database.UserCollection), cfg.Session.BcryptCost),
			sessions,
		),
		Places:   places.NewHandler(placeSvc),
		Bookings: booking.NewHandler(bookingSvc, booking.NewReceipts(cfg.Session.ReceiptKey()), hub, placeSvc),
		Media: media.NewHandler(
			media.NewIngestor(uploader, cfg.Media, cfg.Storage.ScratchDir),
			cfg.Media.MaxUploadFiles,
		),
	}

	rateLimiter := ratelim.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	stopCleanup := make(chan struct{})
	go rateLimiter.Cleanup(stopCleanup)

	router := httprouter.New()
	routes.RoutesWrapper(router, handlers, rateLimiter)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		close(stopCleanup)
	})

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
	if err := database.Close(shutdownCtx); err != nil {
		log.Printf("Mongo disconnect: %v", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Redis close: %v", err)
		}
	}

	log.Println("Server stopped cleanly")
}
