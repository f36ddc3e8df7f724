package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleet-backend/internal/auth"
	"fleet-backend/internal/config"
	"fleet-backend/internal/database"
	"fleet-backend/internal/middleware"
	"fleet-backend/internal/router"
	"fleet-backend/internal/services"
	"fleet-backend/internal/storage"
	"fleet-backend/internal/websocket"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func fatal(title string, err error) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("❌ FATAL ERROR: %s", title)
	log.Printf("   Error: %v", err)
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	os.Exit(1)
}

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 FLEET BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	log.Println("📂 Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		fatal("Invalid configuration", err)
	}
	log.Printf("✅ Configuration loaded (env: %s)", cfg.Env)

	log.Println("🔌 Connecting to database...")
	db, err := database.Connect(cfg.DatabaseURL, cfg.DBMaxOpenConns)
	if err != nil {
		fatal("Database connection failed", err)
	}
	defer db.Close()
	log.Println("✅ Database connection established")

	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		fatal("Database migrations failed", err)
	}
	log.Println("✅ Database migrations completed")

	documents, err := storage.NewDocumentStore(cfg.UploadDir)
	if err != nil {
		fatal("Upload directory unavailable", err)
	}
	log.Printf("✅ Documents stored under %s", documents.Root())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := database.NewStore(db)
	codec := auth.NewSessionCodec(cfg.SessionSecret, !cfg.IsDevelopment())

	deps := router.Deps{
		Store:          store,
		Authenticator:  auth.NewAuthenticator(store),
		Codec:          codec,
		Resolver:       services.NewAssignmentResolver(db),
		Documents:      documents,
		AllowedOrigins: cfg.AllowedOrigins,
		LoginLimiter:   middleware.NewLoginLimiter(cfg.LoginRatePerMinute),

		TrustProxyHeaders: cfg.TrustProxyHeaders,
	}

	// Push notifications are optional; the live feed still works without them.
	if fcm := initFCM(ctx, cfg.Firebase); fcm != nil {
		deps.Notifier = fcm
	}

	hub := websocket.NewHub()
	go hub.Run()
	deps.Hub = hub
	log.Println("✅ WebSocket hub started")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", cfg.Port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("🛑 Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		fatal("Server stopped unexpectedly", err)
	}
	log.Println("👋 Server stopped")
}

func initFCM(ctx context.Context, fc config.FirebaseConfig) *services.FCMService {
	var (
		fcm *services.FCMService
		err error
	)
	switch {
	case fc.CredentialsBase64 != "":
		fcm, err = services.NewFCMServiceFromBase64(ctx, fc.CredentialsBase64)
	case fc.CredentialsFile != "":
		if _, statErr := os.Stat(fc.CredentialsFile); statErr != nil {
			log.Printf("⚠️  Firebase credentials not found at %s (push notifications disabled)", fc.CredentialsFile)
			return nil
		}
		fcm, err = services.NewFCMService(ctx, fc.CredentialsFile)
	default:
		log.Println("⚠️  No Firebase credentials configured (push notifications disabled)")
		return nil
	}
	if err != nil {
		log.Printf("⚠️  Failed to initialize FCM: %v (push notifications disabled)", err)
		return nil
	}
	log.Println("✅ Firebase Cloud Messaging initialized")
	return fcm
}
