package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	config "github.com/davicafu/wishlab/internal/config"
	infraCache "github.com/davicafu/wishlab/internal/shared/infra/cache"
	infraEvents "github.com/davicafu/wishlab/internal/shared/infra/events"
	infraRelayer "github.com/davicafu/wishlab/internal/shared/infra/relayer"
	todoApp "github.com/davicafu/wishlab/internal/todo/application"
	todoDomain "github.com/davicafu/wishlab/internal/todo/domain"
	todoEvents "github.com/davicafu/wishlab/internal/todo/infra/inbound/events"
	todoHttp "github.com/davicafu/wishlab/internal/todo/infra/inbound/http"
	todoAnalytics "github.com/davicafu/wishlab/internal/todo/infra/outbound/analytics/clickhouse"
	todoRepo "github.com/davicafu/wishlab/internal/todo/infra/outbound/db/sqldb"
	userApp "github.com/davicafu/wishlab/internal/user/application"
	userDomain "github.com/davicafu/wishlab/internal/user/domain"
	userEvents "github.com/davicafu/wishlab/internal/user/infra/inbound/events"
	userHttp "github.com/davicafu/wishlab/internal/user/infra/inbound/http"
	userRepo "github.com/davicafu/wishlab/internal/user/infra/outbound/db/sqldb"
	wishlistApp "github.com/davicafu/wishlab/internal/wishlist/application"
	wishlistDomain "github.com/davicafu/wishlab/internal/wishlist/domain"
	wishlistHttp "github.com/davicafu/wishlab/internal/wishlist/infra/inbound/http"
	wishlistRepo "github.com/davicafu/wishlab/internal/wishlist/infra/outbound/db/sqldb"
	"github.com/davicafu/wishlab/pkg/logger"
	sharedEvents "github.com/davicafu/wishlab/shared/events"
	sharedBus "github.com/davicafu/wishlab/shared/platform/bus"
	sharedCache "github.com/davicafu/wishlab/shared/platform/cache"
	"github.com/davicafu/wishlab/shared/platform/persistence"
)

const (
	analyticsBatchSize   = 100
	inMemoryCacheEntries = 10000
)

func runServer(parent context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------------- DB ----------------
	db, d, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := persistence.Migrate(db, d, persistence.MigrateUp); err != nil {
		return err
	}
	log.Info("✅ Base de datos lista", zap.String("dialect", d.Name))

	// ---------------- Cache ----------------
	cache := newCache(ctx, cfg, log)

	// ---------------- Analítica ----------------
	var analytics todoDomain.TodoAnalyticsRepository
	var analyticsConsumer *todoEvents.TodoAnalyticsConsumer
	if cfg.ClickHouseAddr != "" {
		repo, err := todoAnalytics.NewTodoAnalyticsRepo(ctx, cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			log.Warn("⚠️ ClickHouse no disponible, analítica deshabilitada", zap.Error(err))
		} else if err := repo.InitSchema(ctx); err != nil {
			log.Warn("⚠️ No se pudo crear el esquema de analítica", zap.Error(err))
			repo.Close()
		} else {
			defer repo.Close()
			analytics = repo
			analyticsConsumer = todoEvents.NewTodoAnalyticsConsumer(repo, analyticsBatchSize, log)
			analyticsConsumer.Start(ctx, 5*time.Second)
			log.Info("📊 Analítica de todos en ClickHouse habilitada")
		}
	}

	// --------------- Servicios --------------
	userService := userApp.NewUserService(userRepo.NewUserRepoSQL(db, d), cache, cfg.CacheTTL, cfg.ListDefaultLimit, log)
	wishlistService := wishlistApp.NewWishlistService(
		wishlistRepo.NewWishlistRepoSQL(db, d),
		wishlistRepo.NewWishRepoSQL(db, d),
		cache, cfg.CacheTTL, cfg.ListDefaultLimit, log,
	)
	todoService := todoApp.NewTodoService(todoRepo.NewTodoRepoSQL(db, d), analytics, cache, cfg.CacheTTL, cfg.ListDefaultLimit, log)

	// ---------------- Eventos ---------------
	userConsumer := userEvents.NewUserConsumer(userService, log)
	handlers := map[string]infraEvents.MessageHandler{userDomain.UserTopic: userConsumer}
	if analyticsConsumer != nil {
		handlers[todoDomain.TodoTopic] = analyticsConsumer
	}
	topics := []string{userDomain.UserTopic, wishlistDomain.WishlistTopic, todoDomain.TodoTopic}

	var publisher sharedBus.EventPublisher
	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos", zap.Strings("brokers", cfg.KafkaBrokers))

		writer := infraEvents.NewKafkaWriter(cfg.KafkaBrokers)
		defer writer.Close()
		publisher = infraEvents.NewKafkaPublisher(writer, userDomain.UserTopic, log)

		for topic, handler := range handlers {
			reader := infraEvents.NewKafkaReader(cfg.KafkaBrokers, cfg.KafkaGroupID, topic)
			infraEvents.NewConsumerAdapter(reader, handler, log).Start(ctx)
		}
	} else {
		log.Info("⚡️ Usando bus de eventos en memoria (canales de Go)")

		router := infraEvents.NewTopicRouter()
		for _, topic := range topics {
			bus := infraEvents.NewInMemoryEventBus(topic)
			router.Route(topic, bus)
			if handler, ok := handlers[topic]; ok {
				log.Info("🎧 Iniciando listener en memoria", zap.String("topic", topic))
				infraEvents.BackgroundConsumerChan(ctx, bus.Subscribe(100), handler)
			}
		}
		publisher = router
	}

	if cfg.MongoURI != "" {
		client, err := infraEvents.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			log.Warn("⚠️ MongoDB no disponible, eventos sin archivar", zap.Error(err))
		} else {
			defer client.Disconnect(context.Background())
			archive := infraEvents.NewMongoEventArchive(client, cfg.MongoDB)
			if err := archive.EnsureIndexes(ctx); err != nil {
				log.Warn("⚠️ No se pudieron crear los índices del archivo de eventos", zap.Error(err))
			}
			publisher = infraEvents.NewFanOutPublisher(log, publisher, archive)
			log.Info("🗄️ Archivo de eventos en MongoDB habilitado", zap.String("db", cfg.MongoDB))
		}
	}

	// ------------ Outbox Worker ------------
	worker := infraRelayer.NewOutboxWorker(
		persistence.NewOutboxRepoSQL(db, d),
		publisher,
		eventRegistry(),
		cfg.OutboxPeriod,
		cfg.OutboxLimit,
		log,
	)
	go worker.Start(ctx)

	// ---------------- HTTP ----------------
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	userHttp.RegisterUserRoutes(engine, userHttp.NewUserHandler(userService, cfg.Debug, log))
	wishlistHttp.RegisterWishlistRoutes(engine, wishlistHttp.NewWishlistHandler(wishlistService, cfg.Debug, log))
	todoHttp.RegisterTodoRoutes(engine, todoHttp.NewTodoHandler(todoService, cfg.Debug, log))
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: engine, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 Server running", zap.String("url", "http://localhost:"+cfg.HTTPPort))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("🛑 Señal recibida, apagando servidor")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newCache usa Redis si está configurado y responde; si no, caché en memoria.
func newCache(ctx context.Context, cfg *config.Config, log *zap.Logger) sharedCache.Cache {
	if cfg.RedisAddr != "" {
		client, err := infraCache.NewRedisClient(ctx, cfg.RedisAddr)
		if err == nil {
			log.Info("✅ Redis conectado, cache habilitado", zap.String("addr", cfg.RedisAddr))
			return infraCache.NewRedisCache(client, "wishlab:", cfg.CacheTTL)
		}
		log.Warn("⚠️ Redis no disponible, cache en memoria", zap.Error(err))
	}
	mem := infraCache.NewInMemoryCache(cfg.CacheTTL, inMemoryCacheEntries)
	mem.StartJanitor(ctx, cfg.CacheTTL)
	return mem
}

// eventRegistry une los registros de cada dominio.
func eventRegistry() map[string]sharedEvents.EventMetadata {
	registry := make(map[string]sharedEvents.EventMetadata)
	for _, part := range []map[string]sharedEvents.EventMetadata{
		userDomain.NewEventRegistry(),
		wishlistDomain.NewEventRegistry(),
		todoDomain.NewEventRegistry(),
	} {
		for k, v := range part {
			registry[k] = v
		}
	}
	return registry
}
