package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"coursehub/apps/search-service/dao"
	"coursehub/apps/search-service/handler"
	"coursehub/apps/search-service/model"
	"coursehub/apps/search-service/service"
	"coursehub/pkg/database"
	"coursehub/pkg/kafka"
	"coursehub/pkg/logger"
	"coursehub/pkg/middleware"
	"coursehub/pkg/redis"
)

func main() {
	// 初始化配置
	cfg, err := initConfig()
	if err != nil {
		stdlog.Fatalf("Failed to initialize config: %v", err)
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.GetString("logger.level"), cfg.GetString("logger.format"))
	if err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	ctx := context.Background()
	log.Info(ctx, "Starting search service")

	// 初始化数据库连接
	db, err := initDatabase(cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to initialize database", logger.F("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	// 搜索日志表由本服务负责迁移，内容表归属各内容服务
	if err := db.AutoMigrate(&model.SearchLog{}); err != nil {
		log.Error(ctx, "Failed to migrate search logs table", logger.F("error", err.Error()))
		os.Exit(1)
	}

	// 初始化Elasticsearch客户端
	es, err := database.NewElasticsearch(database.ElasticsearchConfig{
		Addresses: cfg.GetStringSlice("search.elasticsearch.addresses"),
		Username:  cfg.GetString("search.elasticsearch.username"),
		Password:  cfg.GetString("search.elasticsearch.password"),
	})
	if err != nil {
		log.Error(ctx, "Failed to initialize Elasticsearch", logger.F("error", err.Error()))
		os.Exit(1)
	}
	log.Info(ctx, "Elasticsearch connected successfully")

	// 初始化DAO层
	queryBackend := dao.NewElasticsearchDAO(es.GetClient(), log)
	recordStore := dao.NewRecordDAO(db, log)
	analyticsStore := dao.NewAnalyticsDAO(db, log)

	serviceConfig := initServiceConfig(cfg)

	// 初始化可选组件：Redis缓存与Kafka事件
	cacheService := initCacheService(cfg, serviceConfig, log)
	eventService, kafkaProducer := initEventService(cfg, log)
	if kafkaProducer != nil {
		defer kafkaProducer.Close()
	}

	// 初始化服务层
	analyticsService := service.NewAnalyticsService(analyticsStore, serviceConfig.AnalyticsQueue, log)
	analyticsService.Start()

	searchService := service.NewSearchService(queryBackend, recordStore, analyticsService, cacheService, eventService, serviceConfig, log)
	syncService := service.NewSyncService(queryBackend, recordStore, eventService, serviceConfig, log)

	// 启动时尽力创建索引，Elasticsearch暂不可用不阻塞启动
	if err := syncService.EnsureIndices(ctx); err != nil {
		log.Warn(ctx, "Failed to ensure indices on startup", logger.F("error", err.Error()))
	}

	// 定时全量同步
	scheduler := initScheduler(cfg, syncService, log)
	if scheduler != nil {
		scheduler.Start()
	}

	// 初始化HTTP处理器
	httpHandler := handler.NewHTTPHandler(searchService, syncService, analyticsService, log)

	// 初始化Gin引擎
	gin.SetMode(getGinMode(cfg))
	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))

	httpHandler.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.GetInt("search.server.port")),
		Handler: router,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "Failed to start HTTP server", logger.F("error", err.Error()))
			os.Exit(1)
		}
	}()

	log.Info(ctx, "Search service started",
		logger.F("http_port", cfg.GetInt("search.server.port")))

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "Shutting down search service...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop()
	}

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "HTTP server forced to shutdown", logger.F("error", err.Error()))
	}

	// HTTP停止后排空分析队列
	analyticsService.Stop()

	log.Info(ctx, "Search service stopped")
}

// initConfig 初始化配置
func initConfig() (*viper.Viper, error) {
	cfg := viper.New()

	cfg.SetConfigName("config")
	cfg.SetConfigType("yaml")
	cfg.AddConfigPath(".")
	cfg.AddConfigPath("..")
	cfg.AddConfigPath("../..")
	cfg.AddConfigPath("../../..")

	cfg.AutomaticEnv()

	// 服务默认值
	cfg.SetDefault("search.server.port", 21011)
	cfg.SetDefault("search.server.mode", "debug")
	cfg.SetDefault("search.elasticsearch.addresses", []string{"http://localhost:9200"})
	cfg.SetDefault("search.sync.cron", "")
	cfg.SetDefault("search.redis.enabled", false)
	cfg.SetDefault("search.redis.addr", "localhost:6379")
	cfg.SetDefault("search.kafka.enabled", false)
	cfg.SetDefault("search.kafka.brokers", []string{"localhost:9092"})
	cfg.SetDefault("database.postgresql.dsn", "host=localhost user=postgres password=123456 dbname=coursehub port=5432 sslmode=disable TimeZone=UTC")
	cfg.SetDefault("database.postgresql.dbname", "coursehub")
	cfg.SetDefault("logger.level", "info")
	cfg.SetDefault("logger.format", "json")

	if err := cfg.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			stdlog.Println("Config file not found, using default values")
		} else {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
	}

	return cfg, nil
}

// initDatabase 初始化数据库
func initDatabase(cfg *viper.Viper, log logger.Logger) (*database.PostgreSQL, error) {
	db, err := database.NewPostgreSQL(database.PostgresConfig{
		DSN:    cfg.GetString("database.postgresql.dsn"),
		DBName: cfg.GetString("database.postgresql.dbname"),
		LogSQL: cfg.GetString("search.server.mode") == "debug",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	log.Info(context.Background(), "Database connected successfully")
	return db, nil
}

// initServiceConfig 初始化服务配置，未配置项使用默认值
func initServiceConfig(cfg *viper.Viper) *service.ServiceConfig {
	serviceConfig := service.DefaultServiceConfig()

	if v := cfg.GetInt("search.search_config.default_page_size"); v > 0 {
		serviceConfig.DefaultPageSize = v
	}
	if v := cfg.GetInt("search.search_config.max_page_size"); v > 0 {
		serviceConfig.MaxPageSize = v
	}
	if v := cfg.GetInt("search.search_config.suggest_size"); v > 0 {
		serviceConfig.SuggestSize = v
	}
	if v := cfg.GetDuration("search.search_config.suggest_cache_ttl"); v > 0 {
		serviceConfig.SuggestCacheTTL = v
	}
	if v := cfg.GetFloat64("search.search_config.recency_boost_7d"); v > 0 {
		serviceConfig.RecencyBoost7d = v
	}
	if v := cfg.GetFloat64("search.search_config.recency_boost_30d"); v > 0 {
		serviceConfig.RecencyBoost30d = v
	}
	if v := cfg.GetInt("search.sync.batch_size"); v > 0 {
		serviceConfig.SyncBatchSize = v
	}
	if v := cfg.GetInt("search.analytics.queue_size"); v > 0 {
		serviceConfig.AnalyticsQueue = v
	}

	return serviceConfig
}

// initCacheService 初始化建议缓存，Redis未启用时退化为空实现
func initCacheService(cfg *viper.Viper, serviceConfig *service.ServiceConfig, log logger.Logger) service.CacheService {
	if !cfg.GetBool("search.redis.enabled") {
		return service.NewNoopCacheService()
	}

	client := redis.NewRedisClient(redis.RedisConfig{
		Addr:     cfg.GetString("search.redis.addr"),
		Password: cfg.GetString("search.redis.password"),
		DB:       cfg.GetInt("search.redis.db"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		log.Warn(ctx, "Redis unreachable, suggest cache disabled", logger.F("error", err.Error()))
		return service.NewNoopCacheService()
	}

	log.Info(ctx, "Redis connected successfully")
	return service.NewRedisCacheService(client, serviceConfig.SuggestCacheTTL, log)
}

// initEventService 初始化事件发布，Kafka未启用时退化为空实现
func initEventService(cfg *viper.Viper, log logger.Logger) (service.EventService, *kafka.Producer) {
	if !cfg.GetBool("search.kafka.enabled") {
		return service.NewNoopEventService(), nil
	}

	producer, err := kafka.InitProducer(cfg.GetStringSlice("search.kafka.brokers"))
	if err != nil {
		log.Warn(context.Background(), "Kafka unreachable, event publishing disabled",
			logger.F("error", err.Error()))
		return service.NewNoopEventService(), nil
	}

	log.Info(context.Background(), "Kafka producer initialized")
	return service.NewKafkaEventService(producer, log), producer
}

// initScheduler 初始化定时全量同步，未配置cron表达式时不启用
func initScheduler(cfg *viper.Viper, syncService service.SyncService, log logger.Logger) *cron.Cron {
	spec := cfg.GetString("search.sync.cron")
	if spec == "" {
		return nil
	}

	scheduler := cron.New()
	_, err := scheduler.AddFunc(spec, func() {
		ctx := context.Background()
		if err := syncService.SyncAll(ctx); err != nil {
			log.Error(ctx, "Scheduled index sync failed", logger.F("error", err.Error()))
			return
		}
		log.Info(ctx, "Scheduled index sync completed")
	})
	if err != nil {
		log.Error(context.Background(), "Invalid sync cron expression",
			logger.F("cron", spec),
			logger.F("error", err.Error()))
		return nil
	}

	log.Info(context.Background(), "Scheduled index sync enabled", logger.F("cron", spec))
	return scheduler
}

// getGinMode 获取Gin模式
func getGinMode(cfg *viper.Viper) string {
	switch cfg.GetString("search.server.mode") {
	case "release", "prod", "production":
		return gin.ReleaseMode
	case "test", "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
