package main

import (
	"Excusas/config"
	_ "Excusas/config/swagger"
	"Excusas/middleware"
	"Excusas/routes"
	"Excusas/services/battle"
	"Excusas/services/excuses"
	"Excusas/services/gemini"
	"Excusas/services/redis"
	"Excusas/services/rooms"
	socket_io "Excusas/services/socket_io"
	"Excusas/services/socket_io/handlers"
	socketio_types "Excusas/services/socket_io/types"
	"Excusas/services/store"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// @title Excusas API
// @version 1.0
// @description Gin-Gonic server for the absurd excuse generator and excuse battles
// @BasePath /
func main() {
	godotenv.Load()

	cfg := &config.Config{}
	cmd := config.NewCommand(cfg, run)
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	log.Println("Setting up server...")

	if cfg.Prod {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.Connect(cfg)
	if err != nil {
		return err
	}
	log.Println("GORM Connected")

	if cfg.MigrateDatabase {
		log.Println("Migrating database...")
		if err := config.MigrateDatabase(db); err != nil {
			return err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient, err := config.Connect_redis(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := redis.CloseRedis(redisClient); err != nil {
			log.Printf("[REDIS-ERROR] %v", err)
		}
	}()

	var state rooms.State
	if redisClient != nil {
		state = redisClient
	} else {
		log.Println("No REDIS_URL set, keeping room state in memory")
		state = rooms.NewMemoryState()
	}

	gateway := gemini.NewClient(gemini.Config{
		APIKey:     cfg.Gemini.APIKey,
		BaseURL:    cfg.Gemini.BaseURL,
		TextModel:  cfg.Gemini.TextModel,
		ImageModel: cfg.Gemini.ImageModel,
		HTTPClient: &http.Client{Timeout: cfg.Gemini.Timeout},
	})

	sio := socketio_types.NewSocketServer()
	registry := rooms.NewRegistry(state, sio)
	st := store.New(db)
	excuseService := excuses.NewService(st, gateway, registry)
	orchestrator := battle.NewOrchestrator(st, gateway, registry)

	r := gin.Default()

	middleware.SetUpMiddleware(r, middleware.Options{
		SessionKey:  cfg.SessionKey,
		FrontendURL: cfg.FrontendURL,
		Secure:      cfg.UseHTTPS,
	})

	routes.SetupRoutes(r, routes.Services{
		Excuses:  excuseService,
		Battles:  orchestrator,
		Registry: registry,
	})

	socket_io.Start(r, sio, handlers.Deps{
		Registry: registry,
		Excuses:  excuseService,
		Battles:  orchestrator,
	}, socket_io.Options{FrontendURL: cfg.FrontendURL, Debug: cfg.DebugSocket})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	errC := make(chan error, 1)
	go func() {
		log.Printf("Servidor corriendo en puerto %s", cfg.Port)
		if cfg.UseHTTPS {
			errC <- srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			errC <- srv.ListenAndServe()
		}
	}()

	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(signalC)

	select {
	case err := <-errC:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case s := <-signalC:
		log.Printf("Received %s, shutting down", s)
	}

	sio.Sio_server.Close(nil)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
