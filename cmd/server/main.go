package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ticket-scanner-server/internal/config"
	"ticket-scanner-server/internal/handler"
	"ticket-scanner-server/internal/logging"
	"ticket-scanner-server/internal/middleware"
	"ticket-scanner-server/internal/repository"
	"ticket-scanner-server/internal/service"
	"ticket-scanner-server/internal/websocket"
	"ticket-scanner-server/pkg/jwt"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type handlers struct {
	auth   *handler.AuthHandler
	ticket *handler.TicketHandler
	device *handler.DeviceHandler
	ws     *handler.WebSocketHandler
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Server.Env, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Token.Secret == "" {
		logger.Error("JWT_SECRET_KEY is not set; scanner logins and token checks will fail")
	}

	couchURL := fmt.Sprintf("http://%s:%s@%s:%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
	)

	client, err := kivik.New("couch", couchURL)
	if err != nil {
		logger.Fatal("failed to connect to CouchDB", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exists, err := client.DBExists(ctx, cfg.Database.Name)
	if err != nil {
		logger.Fatal("failed to check database existence", zap.Error(err))
	}

	if !exists {
		if err := client.CreateDB(ctx, cfg.Database.Name); err != nil {
			logger.Fatal("failed to create database", zap.Error(err))
		}
		logger.Info("created database", zap.String("name", cfg.Database.Name))
	}

	if err := repository.EnsureIndexes(ctx, client, cfg.Database.Name); err != nil {
		logger.Fatal("failed to create indexes", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(client, cfg.Database.Name)
	deviceRepo := repository.NewDeviceRepository(client, cfg.Database.Name)
	attendeeRepo := repository.NewAttendeeRepository(client, cfg.Database.Name)
	checkInLogRepo := repository.NewCheckInLogRepository(client, cfg.Database.Name)

	wsManager := websocket.NewManager(
		cfg.WebSocket.MaxConnPerUser,
		cfg.WebSocket.WriteWait,
		cfg.WebSocket.PongWait,
		cfg.WebSocket.PingPeriod,
		logger.Named("feed"),
	)
	go wsManager.Run(ctx)

	deviceService := service.NewDeviceService(deviceRepo, logger.Named("devices"))
	authService := service.NewAuthService(userRepo, deviceService, service.AuthConfig{
		Token: jwt.Options{
			Secret:    cfg.Token.Secret,
			Algorithm: cfg.Token.Algorithm,
			Issuer:    cfg.Server.BaseURL,
			NBFOffset: cfg.Token.NBFOffset,
			EXPOffset: cfg.Token.EXPOffset,
		},
		Header:    cfg.Token.Header,
		BaseURL:   cfg.Server.BaseURL,
		SiteTitle: cfg.Scanner.SiteTitle,
		Icon:      cfg.Scanner.Icon,
	}, logger.Named("auth"))
	ticketService := service.NewTicketService(
		service.NewCheckInValidator(attendeeRepo, cfg.Scanner.AllowCheckOut),
		service.NewAttendeeService(attendeeRepo),
		checkInLogRepo,
		wsManager,
		logger.Named("tickets"),
	)

	h := handlers{
		auth:   handler.NewAuthHandler(authService, logger),
		ticket: handler.NewTicketHandler(ticketService, logger),
		device: handler.NewDeviceHandler(deviceService, authService, logger),
		ws:     handler.NewWebSocketHandler(wsManager, authService, logger),
	}

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware(logger.Named("http")))
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	r.HandleFunc("/health", healthHandler).Methods("GET")

	// Login payloads advertise URLs under /eventtickets; the same routes are
	// also served from the root.
	registerRoutes(r.PathPrefix("/eventtickets").Subrouter(), h, authService)
	registerRoutes(r, h, authService)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting ticket scanner server",
			zap.String("addr", addr),
			zap.String("env", cfg.Server.Env),
			zap.String("base_url", cfg.Server.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func registerRoutes(r *mux.Router, h handlers, auth middleware.Authenticator) {
	r.HandleFunc("/authenticate", h.auth.Authenticate).Methods("POST", "OPTIONS")
	r.HandleFunc("/authenticator", h.auth.Authenticate).Methods("POST", "OPTIONS")
	r.HandleFunc("/authenticator/validatetoken", h.auth.ValidateToken).Methods("GET", "POST", "OPTIONS")
	r.HandleFunc("/validateToken", h.auth.ValidateToken).Methods("GET", "POST", "OPTIONS")

	r.HandleFunc("/ws", h.ws.HandleConnection)

	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(auth))

	protected.HandleFunc("/validate", h.ticket.Validate).Methods("POST", "OPTIONS")
	protected.HandleFunc("/devices", h.device.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/devices/{id}/invalidate", h.device.Invalidate).Methods("POST", "OPTIONS")
	protected.HandleFunc("/devices/{id}/login", h.device.LoginPayload).Methods("GET", "OPTIONS")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"ticket-scanner-server"}`))
}
