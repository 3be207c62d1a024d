package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/growallgarden/server/internal/admin"
	"github.com/growallgarden/server/internal/catalog"
	"github.com/growallgarden/server/internal/database"
	"github.com/growallgarden/server/internal/handler"
	"github.com/growallgarden/server/internal/inventory"
	"github.com/growallgarden/server/internal/logger"
	"github.com/growallgarden/server/internal/metrics"
	"github.com/growallgarden/server/internal/player"
	"github.com/growallgarden/server/internal/plot"
	"github.com/growallgarden/server/internal/shop"
	"github.com/growallgarden/server/internal/sse"
	"github.com/growallgarden/server/internal/weather"
)

// Services bundles the service layer the router dispatches to.
type Services struct {
	Player    player.Service
	Catalog   catalog.Service
	Inventory inventory.Service
	Shop      shop.Service
	Plot      plot.Service
	Weather   weather.Service
	Admin     admin.Service
}

type Server struct {
	httpServer *http.Server
	dbPool     database.Pool
	sseHub     *sse.Hub
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, svcs Services, sseHub *sse.Hub) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewAbuseDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	playerHandler := handler.NewPlayerHandler(svcs.Player)
	catalogHandler := handler.NewCatalogHandler(svcs.Catalog)
	inventoryHandler := handler.NewInventoryHandler(svcs.Inventory)
	shopHandler := handler.NewShopHandler(svcs.Shop)
	plotHandler := handler.NewPlotHandler(svcs.Plot)
	weatherHandler := handler.NewWeatherHandler(svcs.Weather, svcs.Player)
	adminHandler := handler.NewAdminHandler(svcs.Admin)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Player routes
		r.Route("/player", func(r chi.Router) {
			r.Post("/register", playerHandler.Register)
			r.Get("/", playerHandler.Get)
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/", playerHandler.ListPlayers)
		})

		// Room routes
		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", playerHandler.CreateRoom)
			r.Post("/join", playerHandler.JoinRoom)
			r.Get("/players", playerHandler.ListRoomPlayers)
		})

		// Catalog routes
		r.Get("/seeds", catalogHandler.ListSeeds)
		r.Get("/mutations", catalogHandler.ListMutations)

		// Inventory routes
		r.Get("/inventory", inventoryHandler.GetInventory)

		// Shop routes
		r.Route("/shop", func(r chi.Router) {
			r.Get("/", shopHandler.ListStock)
			r.Post("/purchase", shopHandler.Purchase)
		})

		// Plot routes
		r.Route("/plot", func(r chi.Router) {
			r.Get("/", plotHandler.ListCrops)
			r.Post("/plant", plotHandler.Plant)
			r.Post("/harvest", plotHandler.Harvest)
		})

		// Weather routes
		r.Route("/weather", func(r chi.Router) {
			r.Get("/", weatherHandler.Current)
			r.Post("/trigger", weatherHandler.Trigger)
		})

		// Live event stream
		r.Get("/events", sse.Handler(sseHub))

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/give-seeds", adminHandler.GiveSeeds)
			r.Post("/give-sheckles", adminHandler.GiveSheckles)
			r.Post("/reset-balance", adminHandler.ResetBalance)
			r.Post("/set-weather", adminHandler.SetWeather)
			r.Post("/clear-plants", adminHandler.ClearPlants)
			r.Post("/restock", adminHandler.RestockShop)
			r.Post("/mutate-plant", adminHandler.MutatePlant)
			r.Get("/tally-plants", adminHandler.TallyPlants)
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool: dbPool,
		sseHub: sseHub,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush lets the SSE stream push events through the wrapped writer
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()

		// Add request ID to context
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		// Get scoped logger
		log := logger.FromContext(ctx)

		// Log request start with details
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		// Process request
		next.ServeHTTP(rw, r)

		// Log request completion with metrics
		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
