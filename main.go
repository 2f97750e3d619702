package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"storefront-admin/auth"
	"storefront-admin/backend"
	"storefront-admin/config"
	"storefront-admin/consumers"
	"storefront-admin/controllers"
	"storefront-admin/database"
	"storefront-admin/lifecycle"
	"storefront-admin/logger"
	"storefront-admin/rabbitmq"
	"storefront-admin/scheduler"
	"storefront-admin/services"
	"storefront-admin/workspace"
)

func main() {
	// 加载配置
	cfg := config.LoadConfig()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := backend.NewClient(cfg.BackendURL, cfg.BackendToken, cfg.BackendTimeout)

	validator, err := buildValidator(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid order transition configuration")
	}

	verifier, err := auth.NewStaticVerifier(cfg.AdminEmail, cfg.AdminName, cfg.AdminPasswordHash, cfg.AdminPassword)
	if err != nil {
		log.Warn().Err(err).Msg("admin login disabled")
	}

	deps := workspace.Deps{
		Backend:          client,
		Validator:        validator,
		ChatPollInterval: cfg.ChatPollInterval,
		SessionTTL:       cfg.SessionTTL,
	}
	var history controllers.HistoryReader

	// 初始化数据库（可选）
	if cfg.DatabaseEnabled() {
		db, err := database.InitDB(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("database initialization failed")
		}
		defer db.Close()
		if err := database.InitSchema(db); err != nil {
			log.Fatal().Err(err).Msg("database schema initialization failed")
		}
		repo := database.NewAuditRepository(db)
		deps.Audit = repo
		history = repo
	}

	// 初始化RabbitMQ（可选）
	var rmq *rabbitmq.RabbitMQ
	if cfg.MessagingEnabled() {
		rmq, err = rabbitmq.NewRabbitMQ(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("RabbitMQ initialization failed")
		}
		defer rmq.Close()

		if err := rmq.SetupQueues(); err != nil {
			log.Fatal().Err(err).Msg("failed to setup RabbitMQ queues")
		}
		deps.Events = rmq
	}

	sessions := workspace.NewRegistry(deps)
	defer sessions.CloseAll()

	// 定期清理过期会话
	sweep := scheduler.NewPoller("session-sweep", time.Minute, func(context.Context) error {
		if n := sessions.CloseExpired(time.Now()); n > 0 {
			log.Info().Int("closed", n).Msg("expired admin sessions swept")
		}
		return nil
	})
	sweep.Start(ctx)
	defer sweep.Stop()

	if rmq != nil {
		// 启动消息消费者
		if err := consumers.StartOrderConsumer(ctx, rmq.Channel, cfg, sessions); err != nil {
			log.Fatal().Err(err).Msg("failed to start order consumer")
		}
	}

	var events services.EventPublisher
	if rmq != nil {
		events = rmq
	}
	checkout := services.NewCheckoutService(client, client, events)

	opts := controllers.RouterOptions{
		Sessions:          sessions,
		Secret:            cfg.JWTSecret,
		SessionTTL:        cfg.SessionTTL,
		History:           history,
		Checkout:          checkout,
		LowStockThreshold: cfg.LowStockThreshold,
	}
	if verifier != nil {
		opts.Verifier = verifier
	}
	r := controllers.NewRouter(opts)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend", cfg.BackendURL).Msg("storefront admin starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func buildValidator(cfg *config.Config) (*lifecycle.Validator, error) {
	policy, err := lifecycle.ParsePolicy(cfg.TransitionPolicy)
	if err != nil {
		return nil, err
	}
	graph := lifecycle.DefaultGraph()
	if cfg.TransitionsFile != "" {
		if graph, err = lifecycle.LoadGraph(cfg.TransitionsFile); err != nil {
			return nil, err
		}
	}
	return lifecycle.NewValidator(policy, graph), nil
}
