package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/davidldv/taskforge/internal/api/rest/handler"
	"github.com/davidldv/taskforge/internal/api/rest/middleware"
	"github.com/davidldv/taskforge/internal/api/rest/router"
	"github.com/davidldv/taskforge/internal/config"
	"github.com/davidldv/taskforge/internal/logger"
	"github.com/davidldv/taskforge/internal/model"
	"github.com/davidldv/taskforge/internal/oauth"
	"github.com/davidldv/taskforge/internal/password"
	"github.com/davidldv/taskforge/internal/repository/postgres"
	"github.com/davidldv/taskforge/internal/server"
	"github.com/davidldv/taskforge/internal/service"
	"github.com/davidldv/taskforge/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	connectCtx, connectCancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	db, err := postgres.NewConnection(connectCtx, cfg.Database.DSN)
	connectCancel()
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	hasher := password.NewHasher()

	authService := service.NewAuth(userRepo, hasher, tokenManager, logger)
	taskService := service.NewTask(taskRepo, logger)

	providers := oauth.NewRegistry(cfg.OAuth)
	states := oauth.NewStateStore()
	cookies := handler.NewCookieSettings(cfg.IsProduction(), cfg.JWT.TTL)

	authHandler := handler.NewAuth(authService, tokenManager, providers, states, cookies, cfg.Frontend.URL, logger)
	taskHandler := handler.NewTask(taskService, logger)
	healthHandler := handler.NewHealth(db)
	authenticate := middleware.NewAuthenticate(tokenManager, authService, logger)

	r := router.New(authHandler, taskHandler, healthHandler, authenticate, logger)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
