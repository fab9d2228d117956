package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gcli2api-go/internal/config"
	"gcli2api-go/internal/constants"
	"gcli2api-go/internal/credential"
	"gcli2api-go/internal/handlers"
	"gcli2api-go/internal/logging"
	"gcli2api-go/internal/oauth"
	"gcli2api-go/internal/onboarding"
	"gcli2api-go/internal/router"
	"gcli2api-go/internal/translator"
	"gcli2api-go/internal/upstream"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if err := logging.Setup(cfg); err != nil {
		log.WithError(err).Fatal("failed to configure logging")
	}
	log.Infof("starting gcli2api-go on %s", cfg.Address())

	creds, err := loadCredentials(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to load credentials")
	}
	if len(creds) == 0 {
		log.Warn("no credentials loaded at startup; every request will fail until credentials are available")
	}

	oauthMgr := oauth.NewManager(cfg.Upstream.OAuthTokenURL, &http.Client{Timeout: 30 * time.Second})
	credMgr := credential.NewManager(creds, oauthMgr)
	for _, c := range creds {
		c.ClientID = firstNonEmpty(c.ClientID, cfg.Credentials.ClientID)
		c.ClientSecret = firstNonEmpty(c.ClientSecret, cfg.Credentials.ClientSec)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Credentials.WatchDir && cfg.Credentials.Dir != "" {
		credential.WatchDir(credMgr, cfg.Credentials.Dir, ctx.Done())
	}

	upstreamClient := upstream.NewClient(
		cfg.Upstream.CodeAssistEndpoint,
		cfg.Upstream.GeminiEndpoint,
		cfg.Upstream.EmbeddingAPIKey,
		cfg.Upstream.RequestTimeout,
	)

	deps := &handlers.Deps{
		Config:      cfg,
		Credentials: credMgr,
		Onboarding:  onboarding.New(upstreamClient),
		Upstream:    upstreamClient,
		Sanitizer:   translator.NewSchemaSanitizer(cfg.ToolSchema.StripKeys),
	}

	engine := router.New(cfg, deps)
	httpSrv := &http.Server{Addr: cfg.Address(), Handler: engine}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http server stopped unexpectedly")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown did not complete cleanly")
	}
	log.Info("server stopped")
}

// loadCredentials reads credentials from exactly one source: the inline
// CREDENTIALS_JSON array when it yields any credential, otherwise the files
// discovered under CREDENTIALS_DIR.
func loadCredentials(cfg *config.Config) ([]*credential.Credential, error) {
	var all []*credential.Credential

	fromEnv, err := credential.LoadFromEnvJSON(cfg.Credentials.JSON)
	if err != nil {
		return nil, err
	}
	if len(fromEnv) > 0 {
		return fromEnv, nil
	}
	all = append(all, fromEnv...)

	fromDir, err := credential.LoadFromDir(cfg.Credentials.Dir)
	if err != nil {
		return nil, err
	}
	all = append(all, fromDir...)

	return all, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
