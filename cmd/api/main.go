package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"boproperties/internal/cache"
	"boproperties/internal/config"
	"boproperties/internal/content"
	"boproperties/internal/metrics"
	"boproperties/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second

	// Keep the first blog page warm so the listing renders from cache
	cacheWarmSchedule = "@every 10m"
)

func main() {
	// Initialize structured logging
	log.SetPrefix("[API] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting %s v%s", cfg.App.Name, cfg.App.Version)
	log.Printf("Environment: debug=%v, port=%s, host=%s", cfg.App.Debug, cfg.App.Port, cfg.App.Host)

	// Initialize content cache (Redis when configured, in-memory otherwise)
	contentCache := buildCache(cfg)
	defer func() {
		if err := contentCache.Close(); err != nil {
			log.Printf("Error closing cache: %v", err)
		}
	}()

	// Create service instances
	log.Println("Initializing services...")
	emailSvc := services.NewEmailService(&cfg.Email)
	listSvc := services.NewMailingListService(&cfg.MailingList)
	contactSvc := services.NewContactService(&cfg.Email, emailSvc)
	consultationSvc := services.NewConsultationService(&cfg.Email, emailSvc)
	subscribeSvc := services.NewSubscribeService(&cfg.MailingList, listSvc)
	contentClient := content.NewClient(&cfg.Content)
	contentSvc := services.NewContentService(&cfg.Content, contentClient, contentCache)
	healthSvc := services.NewHealthService(cfg.App.Name)
	rateLimiter := services.NewRateLimiter(&cfg.RateLimit)

	// Mount routes
	log.Println("Mounting HTTP handlers...")
	router := chi.NewRouter()
	router.Get("/health", healthSvc.Check)
	router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rateLimiter.Middleware)
			r.Post("/contact", contactSvc.Submit)
			r.Post("/consultation", consultationSvc.Submit)
			r.Post("/subscribe", subscribeSvc.Submit)
		})
		r.Get("/posts", contentSvc.List)
		r.Get("/posts/{slug}", contentSvc.Get)
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Setup middleware chain: Security -> CORS -> Logging -> Prometheus -> Router
	handler := setupSecurityHeaders(setupCORS(requestLogging(metrics.PrometheusMiddleware(router)), cfg), cfg)

	// Warm the blog cache at startup and on a schedule
	scheduler := startCacheWarmer(contentSvc, cfg)
	defer scheduler.Stop()

	// Create HTTP server with timeouts
	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     log.New(os.Stderr, "[HTTP] ", log.LstdFlags),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatalf("Server failed to start: %v", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v. Starting graceful shutdown...", sig)
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Error during graceful shutdown: %v", err)
		if err == context.DeadlineExceeded {
			log.Println("Shutdown timeout exceeded, forcing close...")
			httpServer.Close()
		}
	}

	log.Println("Server shutdown complete")
}

// buildCache selects the content cache backend from configuration
func buildCache(cfg *config.Config) cache.Cache {
	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL, "boproperties:", cfg.Cache.TTL)
		if err != nil {
			log.Printf("Redis cache unavailable, falling back to in-memory: %v", err)
		} else {
			log.Println("Using Redis content cache")
			return redisCache
		}
	}
	return cache.NewMemoryCache(cfg.Cache.TTL)
}

// startCacheWarmer warms the first blog page now and on a fixed schedule
func startCacheWarmer(contentSvc *services.ContentService, cfg *config.Config) *cron.Cron {
	warm := func() {
		if cfg.Content.ProjectID == "" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := contentSvc.WarmCache(ctx); err != nil {
			log.Printf("Blog cache warm failed: %v", err)
		}
	}

	go warm()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cacheWarmSchedule, warm); err != nil {
		log.Printf("Failed to schedule cache warm: %v", err)
	}
	scheduler.Start()
	return scheduler
}

// setupSecurityHeaders adds security headers to responses
func setupSecurityHeaders(handler http.Handler, cfg *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// Remove server identification
		w.Header().Set("Server", "")

		// HSTS (only in production with HTTPS)
		if !cfg.App.Debug && r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		handler.ServeHTTP(w, r)
	})
}

// setupCORS configures CORS based on environment
func setupCORS(handler http.Handler, cfg *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// In production, validate against allowed origins
		if !cfg.App.Debug && len(cfg.CORS.AllowedOrigins) > 0 && cfg.CORS.AllowedOrigins[0] != "*" {
			allowed := false
			for _, allowedOrigin := range cfg.CORS.AllowedOrigins {
				if origin == allowedOrigin {
					allowed = true
					break
				}
			}
			if !allowed && origin != "" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
		}

		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if cfg.App.Debug {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.CORS.AllowedMethods, ", "))
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.CORS.AllowedHeaders, ", "))
		w.Header().Set("Access-Control-Max-Age", fmt.Sprintf("%d", cfg.CORS.MaxAge))

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		handler.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// requestLogging logs all incoming requests and their responses
func requestLogging(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health checks to reduce noise
		if r.URL.Path == "/health" {
			handler.ServeHTTP(w, r)
			return
		}

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		log.Printf("[REQUEST] %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

		handler.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		statusText := "OK"
		if wrapped.statusCode >= 400 {
			statusText = "ERROR"
		}
		log.Printf("[RESPONSE] %s %s -> %d %s (%v)", r.Method, r.URL.Path, wrapped.statusCode, statusText, duration)
	})
}
