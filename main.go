package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qr-attendance/bot"
	"qr-attendance/config"
	"qr-attendance/internal/handlers"
	"qr-attendance/internal/repository"
	"qr-attendance/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Config loaded successfully")

	// Create application context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutdown signal received, initiating graceful shutdown...")
		cancel()
	}()

	// Initialize application dependencies
	mux := initApplication(ctx, cfg)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped gracefully")
}

// initApplication initializes all application dependencies
func initApplication(ctx context.Context, cfg *config.Config) *http.ServeMux {
	// Share one session-aware HTTP client so repository calls run under
	// the identity provider's session cookie.
	client := repository.NewSessionClient()
	provider := repository.NewAppwriteRESTIdentityProvider(cfg.AppwriteEndpoint, cfg.AppwriteProject, client)
	attendanceRepo := repository.NewAppwriteRESTAttendanceRepository(
		cfg.AppwriteEndpoint, cfg.AppwriteProject, cfg.DatabaseID, cfg.CollectionID, client)

	// Session store gates everything else; try restoring on start.
	sessions := services.NewSessionStore(provider, cfg.AdminEmail)
	sessions.Restore(ctx)

	roster := services.NewRosterService(attendanceRepo)

	// Telegram notifier is optional; a missing token disables alerts.
	var notifier services.BotNotifier
	if cfg.TelegramBotToken != "" {
		if err := bot.Init(cfg.TelegramBotToken, cfg.AuthorizedChatID); err != nil {
			log.Printf("Warning: Failed to init Telegram Bot: %v", err)
		} else {
			bot.SetAttendanceRepository(attendanceRepo)
			bot.StartPolling()
			notifier = bot.NewNotifier()
			log.Println("Telegram Bot Initialized")
		}
	}

	pipeline := services.NewScanPipeline(attendanceRepo, notifier)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(sessions)
	attendanceHandler := handlers.NewAttendanceHandler(sessions, roster)
	scanHandler := handlers.NewScanHandler(sessions, pipeline)
	qrHandler := handlers.NewQRHandler(sessions)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", authHandler.HandleLogin)
	mux.HandleFunc("/api/register", authHandler.HandleRegister)
	mux.HandleFunc("/api/logout", authHandler.HandleLogout)
	mux.HandleFunc("/api/me", authHandler.HandleMe)
	mux.HandleFunc("/api/me/qr", qrHandler.HandleMyQR)
	mux.HandleFunc("/api/attendance", attendanceHandler.HandleList)
	mux.HandleFunc("/api/scan", scanHandler.HandleScan)
	mux.HandleFunc("/api/scan/feedback", scanHandler.HandleFeedback)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}
