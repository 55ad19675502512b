package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	v1 "go-matchmate/cmd/api/router/v1"
	"go-matchmate/internal/config"
	"go-matchmate/internal/infrastructure/auth"
	cacheadapter "go-matchmate/internal/infrastructure/cache/adapter"
	"go-matchmate/internal/infrastructure/database"
	"go-matchmate/internal/infrastructure/metrics"
	queueadapter "go-matchmate/internal/infrastructure/queue/adapter"
	qport "go-matchmate/internal/infrastructure/queue/port"
	"go-matchmate/internal/infrastructure/realtime"
	"go-matchmate/internal/logging"
	"go-matchmate/internal/pkg/chat/application/task"
	chatusecase "go-matchmate/internal/pkg/chat/application/usecase"
	chatadapter "go-matchmate/internal/pkg/chat/persistence/repository/adapter"
	chatrepo "go-matchmate/internal/pkg/chat/persistence/repository/port"
	chatcontroller "go-matchmate/internal/pkg/chat/presentation/controller"
	chathttp "go-matchmate/internal/pkg/chat/presentation/http"
	identityusecase "go-matchmate/internal/pkg/identity/application/usecase"
	identityadapter "go-matchmate/internal/pkg/identity/persistence/repository/adapter"
	identityrepo "go-matchmate/internal/pkg/identity/persistence/repository/port"
	"go-matchmate/internal/pkg/identity/presentation/middleware"
	swipeusecase "go-matchmate/internal/pkg/swipe/application/usecase"
	swipeadapter "go-matchmate/internal/pkg/swipe/persistence/repository/adapter"
	swiperepo "go-matchmate/internal/pkg/swipe/persistence/repository/port"
	swipehttp "go-matchmate/internal/pkg/swipe/presentation/http"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Runs the HTTP API, the websocket relay and the task worker",
		RunE:  serveFunc,
	}
}

func serveFunc(c *cobra.Command, _ []string) error {
	path, err := c.Flags().GetString(configFlag)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return serve(c.Context(), cfg, logger)
}

// stores groups the repositories behind the selected storage driver.
type stores struct {
	swipes swiperepo.SwipeRepository
	chats  chatrepo.ChatRepository
	actors identityrepo.ActorDirectory
	pool   *pgxpool.Pool
}

func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (stores, error) {
	if cfg.Storage.Driver == config.DriverMemory {
		logger.Warn("using in-memory storage; state is lost on restart")
		return stores{
			swipes: swipeadapter.NewMemorySwipeRepository(),
			chats:  chatadapter.NewMemoryChatRepository(),
			actors: identityadapter.NewMemoryActorDirectory(),
		}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := database.Connect(connectCtx, cfg.Database.URL, database.WithMaxConns(cfg.Database.MaxConns))
	if err != nil {
		return stores{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.Migrate {
		if err := database.Migrate(connectCtx, pool); err != nil {
			pool.Close()
			return stores{}, err
		}
	}
	return stores{
		swipes: swipeadapter.NewPgSwipeRepository(pool),
		chats:  chatadapter.NewPgChatRepository(pool),
		actors: identityadapter.NewPgActorDirectory(pool),
		pool:   pool,
	}, nil
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	var m *metrics.Collector
	promReg := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(promReg)
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if st.pool != nil {
		defer st.pool.Close()
	}

	actors := st.actors
	var (
		queueClient qport.Client
		worker      *queueadapter.AsynqServer
	)
	if cfg.Redis.URL != "" {
		rc, err := cacheadapter.NewRedisCache(ctx, cfg.Redis.URL, "matchmate:")
		if err != nil {
			return err
		}
		defer func() { _ = rc.Close() }()
		actors = identityadapter.NewCachedActorDirectory(actors, rc, cfg.Cache.ActorTTL, logger)

		client, err := queueadapter.NewAsynqClient(cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		queueClient = client

		worker, err = queueadapter.NewAsynqServer(cfg.Redis.URL, cfg.Queue.Concurrency, cfg.Queue.Queues, logger)
		if err != nil {
			return err
		}
	} else {
		logger.Info("redis not configured; actor cache and task queue disabled")
	}

	registry := realtime.NewRegistry(m)
	forwarder := chatcontroller.NewPresenceForwarder(registry, logger)

	match := chatusecase.NewCreateMatchUseCase(st.chats, st.swipes, m)
	send := chatusecase.NewSendMessageUseCase(st.chats, forwarder, m)
	if worker != nil {
		task.RegisterSendMessageTask(worker, send, forwarder, logger)
	}

	verifier := auth.NewJWTVerifier(cfg.Auth.JWTSecret)
	resolver := identityusecase.NewResolveActorUseCase(actors)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), logging.AccessLog(logger))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/healthz", healthHandler(st.pool))
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))
	}

	v1.RegisterRoutes(r, v1.Deps{
		Auth: middleware.RequireActor(verifier, resolver, logger),
		Swipe: swipehttp.UseCases{
			Like:      swipeusecase.NewLikeUseCase(st.swipes, match, m),
			Reject:    swipeusecase.NewRejectUseCase(st.swipes, m),
			ListLikes: swipeusecase.NewListLikesUseCase(st.swipes),
			GetLedger: swipeusecase.NewGetLedgerUseCase(st.swipes),
		},
		Chat: chathttp.Deps{
			Registry:    registry,
			Queue:       queueClient,
			Metrics:     m,
			Logger:      logger,
			SendBuffer:  cfg.Realtime.SendBuffer,
			SendMessage: send,
			GetMessages: chatusecase.NewGetMessageUseCase(st.chats),
			MarkRead:    chatusecase.NewMarkReadUseCase(st.chats),
			SetBlocked:  chatusecase.NewSetBlockedUseCase(st.chats, m),
			ListMatches: chatusecase.NewListMatchesUseCase(st.chats),
			ListBlocked: chatusecase.NewListBlockedUseCase(st.chats),
			ReportUser:  chatusecase.NewReportUserUseCase(st.chats),
		},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddress), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if worker != nil {
		g.Go(func() error {
			logger.Info("task worker started", zap.Int("concurrency", cfg.Queue.Concurrency))
			return worker.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", zap.Duration("grace", cfg.ShutdownGracePeriod))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
		defer cancel()
		// Hijacked websocket connections are not tracked by Shutdown.
		registry.Drain()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func healthHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pool != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := pool.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	}
}
