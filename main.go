package main

import (
	"context"
	stderrors "errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"goviz/internal"
	"goviz/internal/config"
	"goviz/internal/container"
	"goviz/internal/errors"
)

// initDatabase connects to PostgreSQL when DATABASE_URL is set
func initDatabase(ctx context.Context, appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	internal.DefaultLogger = internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	logger := internal.DefaultLogger.WithComponent("Main")
	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if appConfig.Database.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := initDatabase(ctx, appConfig)
		if err == nil {
			err = appContainer.InitWithDatabase(ctx, db)
		}
		cancel()
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
	} else {
		logger.Warn("DATABASE_URL not set, datasets are registered in memory only")
	}

	if err := appContainer.InitServices(); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	server := &http.Server{
		Addr:         ":" + appConfig.Server.Port,
		Handler:      appContainer.Handler(),
		ReadTimeout:  appConfig.Server.ReadTimeout,
		WriteTimeout: appConfig.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Starting goviz server on port %s", appConfig.Server.Port)
		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown: %v", err)
	}
}
