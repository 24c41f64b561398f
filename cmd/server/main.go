package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auth-backend/internal/api"
	"auth-backend/internal/auth"
	"auth-backend/internal/biz"
	"auth-backend/internal/conf"
	"auth-backend/internal/data"
	"auth-backend/internal/provider"
	"auth-backend/internal/session"

	"github.com/joho/godotenv"
)

var flagconf string

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()
	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// .env first so the config loader sees its variables
	_ = godotenv.Load()

	cfg, err := conf.Load(flagconf)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// data layer
	userRepo, err := data.NewSQLiteUserRepo(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to init user repo", "error", err)
		os.Exit(1)
	}
	defer userRepo.Close()

	// provider client (endpoint discovery happens here)
	redirectURL := cfg.Auth.GetRedirectURL(cfg.Server.BaseURL)
	google, err := provider.NewGoogle(ctx, cfg.Auth.Issuer, cfg.Auth.ClientID, cfg.Auth.ClientSecret, redirectURL, cfg.Auth.Scopes)
	if err != nil {
		logger.Error("failed to init provider client", "error", err)
		os.Exit(1)
	}

	// credential codec + session store
	codec := auth.NewCodec(cfg.Token.Secret, cfg.CredentialTTL())
	sessions := session.NewCookieStore(cfg.Session.Secret, int(cfg.SessionTTL().Seconds()), cfg.IsProd())

	// biz layer
	flow := biz.NewLoginUsecase(google, userRepo, codec, cfg.ProviderTimeout())

	// api layer
	policy := api.CookiePolicy{Secure: cfg.IsProd(), SameSite: cfg.CookieSameSite()}
	authHandler := api.NewAuthHandler(flow, sessions, cfg.Auth.FrontendURL, cfg.CredentialTTL(), policy, logger)
	router := api.NewRouter(authHandler, api.AuthMiddleware(codec))

	// CORS wraps the whole router so preflight requests are answered even
	// for method-bound routes
	handler := api.CORS(cfg.Auth.FrontendURL)(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()
	logger.Info("server started", "addr", cfg.Server.Addr, "redirect_url", redirectURL, "environment", cfg.Environment)

	// wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
