package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deep-thoughts/backend/internal/api"
	"github.com/deep-thoughts/backend/internal/auth/authn"
	authservice "github.com/deep-thoughts/backend/internal/auth/service"
	"github.com/deep-thoughts/backend/internal/auth/token"
	"github.com/deep-thoughts/backend/internal/common/clock"
	"github.com/deep-thoughts/backend/internal/common/config"
	commoncrypto "github.com/deep-thoughts/backend/internal/common/crypto"
	"github.com/deep-thoughts/backend/internal/common/db"
	commonhttp "github.com/deep-thoughts/backend/internal/common/http"
	"github.com/deep-thoughts/backend/internal/common/logger"
	srv "github.com/deep-thoughts/backend/internal/common/server"
	"github.com/deep-thoughts/backend/internal/feed"
	thoughtrepo "github.com/deep-thoughts/backend/internal/thought/repository"
	thoughtservice "github.com/deep-thoughts/backend/internal/thought/service"
	userrepo "github.com/deep-thoughts/backend/internal/user/repository"
	userservice "github.com/deep-thoughts/backend/internal/user/service"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_DIR"), "api", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.LoadAPIConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()
	db.StartPoolMetrics(pool, 30*time.Second)

	realClock := clock.NewRealClock()
	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := commoncrypto.NewUUIDGenerator()
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, realClock)

	users := userrepo.NewPgRepository(pool)
	thoughts := thoughtrepo.NewPgRepository(pool)

	hub := feed.NewHub(log)

	authSvc := authservice.NewAuthService(users, hasher, idGenerator, issuer, realClock, log)
	thoughtSvc := thoughtservice.NewThoughtService(thoughts, idGenerator, realClock, hub, log)
	userSvc := userservice.NewUserService(users, thoughts, log)

	dispatcher := api.NewDispatcher(authSvc, userSvc, thoughtSvc, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/op", commonhttp.WithTimeout(cfg.RequestTimeout)(dispatcher.Handler()))
	mux.HandleFunc("/api/feed/ws", feed.Handler(hub, log))
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	authenticate := authn.Middleware(issuer, log)
	handler := commonhttp.BuildBaseHandler(log, authenticate(mux))

	server := srv.New(cfg.HTTPPort, handler)

	hooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("api service: %d feed clients connected at shutdown", hub.ClientCount())
			return nil
		},
	}

	srv.StartWithGracefulShutdown(server, log, "api", hooks)
}
