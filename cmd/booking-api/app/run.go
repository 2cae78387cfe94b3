package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/petgroom/booking-api/configs"
	"github.com/petgroom/booking-api/internal/adapter/cache"
	httpadapter "github.com/petgroom/booking-api/internal/adapter/http"
	"github.com/petgroom/booking-api/internal/adapter/http/middleware"
	"github.com/petgroom/booking-api/internal/adapter/kafka"
	"github.com/petgroom/booking-api/internal/adapter/queue"
	"github.com/petgroom/booking-api/internal/adapter/repo"
	"github.com/petgroom/booking-api/internal/logging"
	"github.com/petgroom/booking-api/internal/usecase"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		return nil, nil, err
	}
	cancel()

	logger.Info("booking-api: starting up")

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// init kafka producer
	producer, err := kafka.NewSyncProducer(cfg.Kafka.Brokers)
	if err != nil {
		return nil, nil, err
	}
	events := kafka.NewBookingEventProducer(producer, cfg.Kafka.TopicEvents)

	// infra
	bookingRepo := repo.NewMySQLBookingRepo(db)
	userRepo := repo.NewMySQLUserRepo(db)
	petRepo := repo.NewMySQLPetRepo(db)
	statusCache := cache.NewRedisCache(rdb, cfg.Cache.TTL)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)

	// queue consumer for booking lifecycle events
	consumer := setupConsumer(cfg, bookingRepo, statusCache)
	if err := consumer.Start(); err != nil {
		return nil, nil, err
	}

	// init handlers + routers + middleware
	createUC := usecase.NewCreateBooking(bookingRepo, userRepo, petRepo, statusCache, idem, events)
	hh := httpadapter.NewHealthHandler(cfg.App.Name, cfg.App.Version)
	bh := httpadapter.NewBookingHandler(createUC, bookingRepo, statusCache)
	uh := httpadapter.NewUserHandler(userRepo, petRepo)
	th := httpadapter.NewTokenHandler(cfg)
	auth := middleware.NewAuthz(cfg)
	router := httpadapter.NewRouter(hh, bh, uh, th, auth)

	cleanup := func() {
		consumer.Stop()
		_ = events.Close()
		_ = db.Close()
		_ = rdb.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func setupConsumer(cfg configs.Config, bookingRepo usecase.BookingRepo, statusCache usecase.BookingCache) *queue.Consumer {
	client := queue.NewAMQPClient(cfg.Rabbit.URL, cfg.Rabbit.Queue, queue.WithPrefetch(cfg.Rabbit.Prefetch))
	h := queue.NewBookingEventHandler(bookingRepo, statusCache, logging.New("rmq-consumer"))

	return queue.NewConsumer(client,
		queue.JSONHandler[usecase.BookingEventMsg]{HandleFunc: h.HandleEvent},
		queue.WithBatchWait(cfg.Rabbit.BatchWait),
		queue.WithBatchSize(cfg.Rabbit.BatchSize),
		queue.WithCallTimeout(cfg.Rabbit.CallTimeout),
		queue.WithStopGrace(cfg.Rabbit.StopGrace),
		queue.WithRetryBackoff(cfg.Rabbit.RetryBackoff),
		queue.WithRequeue(cfg.Rabbit.RequeueOnError),
		queue.WithLogger(logging.New("rmq-consumer")),
	)
}
