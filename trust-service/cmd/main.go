package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"worththehype/pkg/logger"
	"worththehype/pkg/metrics"
	"worththehype/trust-service/internal/app/trust/config"
	"worththehype/trust-service/internal/app/trust/entity"
	"worththehype/trust-service/internal/app/trust/handler"
	"worththehype/trust-service/internal/app/trust/infrastructure/ai"
	"worththehype/trust-service/internal/app/trust/infrastructure/messaging"
	"worththehype/trust-service/internal/app/trust/processor"
	"worththehype/trust-service/internal/app/trust/repository"
	"worththehype/trust-service/internal/app/trust/service"
)

const serviceName = "trust-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(serviceName, logLevel)

	logstashAddr := os.Getenv("LOGSTASH_ADDR")
	if logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, serviceName, logLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === POSTGRESQL ===
	// gorm для журнала голосов и счетчиков, pgx пул для массовой сверки
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	if err := db.AutoMigrate(&entity.Vote{}, &entity.ReviewAggregate{}, &entity.AuthorStats{}, &entity.AuthorBadge{}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate schema")
	}
	go reportDbStats(ctx, db)

	pool, err := connectPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create pgx pool")
	}
	defer pool.Close()
	logger.Info().Str("database", cfg.Database.DBName).Msg("Connected to PostgreSQL")

	// === REDIS ===
	redisClient, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	// === MONGODB ===
	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().Str("database", cfg.MongoDB.Database).Msg("Connected to MongoDB")

	// === KAFKA PRODUCER ===
	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Initialized Kafka producer")

	// === РЕПОЗИТОРИИ ===
	reviewRepo := repository.NewReviewRepository(mongoClient.Database(cfg.MongoDB.Database))
	voteRepo := repository.NewVoteRepository(db)
	aggregateRepo := repository.NewAggregateRepository(db)
	authorStatsRepo := repository.NewAuthorStatsRepository(db)
	reconcileRepo := repository.NewReconcileRepository(pool)
	credibilityRepo := repository.NewCredibilityRepository(redisClient)
	summaryRepo := repository.NewSummaryRepository(redisClient)
	pendingRepo := repository.NewPendingRepository(redisClient)

	// === МОДЕЛЬ ===
	aiClient := ai.NewClient(ai.Config{
		URL:                  cfg.AI.URL,
		APIKey:               cfg.AI.APIKey,
		Model:                cfg.AI.Model,
		Timeout:              cfg.AI.Timeout,
		CredibilityMaxTokens: cfg.AI.CredibilityMaxTokens,
		SummaryMaxTokens:     cfg.AI.SummaryMaxTokens,
	})
	if cfg.AI.APIKey == "" {
		logger.Warn().Msg("AI_API_KEY is empty, credibility falls back to low_confidence and summaries are unavailable")
	}

	// === СЕРВИСЫ ===
	authorService := service.NewAuthorService(authorStatsRepo, kafkaProducer)
	voteService := service.NewVoteService(voteRepo, aggregateRepo, pendingRepo, authorService, kafkaProducer)
	reviewService := service.NewReviewService(reviewRepo, aggregateRepo, pendingRepo, authorService, kafkaProducer)
	credibilityService := service.NewCredibilityService(credibilityRepo, aiClient, cfg.AI.Timeout)
	scoreService := service.NewScoreService(reviewRepo, credibilityService)
	summaryService := service.NewSummaryService(reviewRepo, summaryRepo, aiClient, cfg.AI.Timeout)
	reconcileService := service.NewReconcileService(reconcileRepo, pendingRepo, aggregateRepo, reviewRepo, authorService)

	// === KAFKA CONSUMER ===
	// предрасчет достоверности по REVIEW_CREATED
	kafkaConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		credibilityService,
	)
	kafkaConsumer.Start(ctx)
	defer kafkaConsumer.Stop()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Str("group", cfg.Kafka.GroupID).
		Msg("Kafka consumer started")

	// === CRON ===
	if cfg.Reconcile.Enabled {
		cronScheduler := processor.NewCronScheduler(reconcileService)
		if err := cronScheduler.Start(ctx, cfg.Reconcile.Schedule); err != nil {
			logger.Fatal().Err(err).Str("schedule", cfg.Reconcile.Schedule).Msg("Failed to start cron scheduler")
		}
		defer cronScheduler.Stop()
		logger.Info().Str("schedule", cfg.Reconcile.Schedule).Msg("Reconciliation scheduler started")
	}

	// === HTTP ===
	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	reviewHandler := handler.NewReviewHandler(reviewService, voteService, credibilityService)
	trustHandler := handler.NewTrustHandler(authorService, scoreService, summaryService, reconcileService)
	healthHandler := handler.NewHealthCheckHandler(db, redisClient, mongoClient)
	router := handler.SetupRoutes(reviewHandler, trustHandler, healthHandler, authMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.AI.Timeout + 15*time.Second, // сводка и оценка достоверности ждут модель
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Trust Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Trust Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	cancel()

	logger.Info().Msg("Trust Service stopped gracefully")
}

// connectDB соединение gorm с retry для запуска в Docker
func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else if err = sqlDB.Ping(); err == nil {
				sqlDB.SetMaxOpenConns(20)
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
				sqlDB.SetConnMaxIdleTime(1 * time.Minute)
				return db, nil
			}
		}
		logger.Warn().Int("attempt", i+1).Err(err).Msg("Failed to connect to PostgreSQL, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

// reportDbStats пишет состояние пула gorm в db_connections_open
func reportDbStats(ctx context.Context, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn().Err(err).Msg("DB stats unavailable")
		return
	}

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := sqlDB.Stats()
			metrics.SetDbConnections(serviceName, stats.Idle, stats.InUse)
		}
	}
}

// connectPool пул pgx для пересчета счетчиков
func connectPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute

	var pool *pgxpool.Pool
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		logger.Warn().Int("attempt", i+1).Err(err).Msg("Failed to open pgx pool, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	for i := 0; i < 10; i++ {
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		logger.Warn().Int("attempt", i+1).Msg("Failed to connect to Redis, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to Redis after 10 attempts")
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err = mongo.Connect(ctx, clientOptions)
		cancel()
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = client.Ping(pingCtx, nil)
			pingCancel()
			if err == nil {
				return client, nil
			}
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}
