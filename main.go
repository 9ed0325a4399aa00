package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "rentalbackend/internal/config"
	"rentalbackend/internal/events"
	router "rentalbackend/internal/http"
	"rentalbackend/internal/http/handlers"
	"rentalbackend/internal/logger"
)

func main() {
	env := intconfig.LoadEnv()
	logger.Init(env.LogLevel, env.LogFormat)
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	pub, err := events.Connect(env.AMQPURL)
	if err != nil {
		// the broker is optional; bookings proceed without events
		logger.L().Warnf("event broker unavailable: %v", err)
	}
	defer pub.Close()

	handlers.Configure(env, pub)
	r := router.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Infof("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L().Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.L().Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Fatalf("shutdown failed: %v", err)
	}

	logger.L().Info("server stopped")
}
