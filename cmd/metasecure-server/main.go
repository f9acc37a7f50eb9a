package main

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"metasecure-core/internal/counter"
	"metasecure-core/internal/handler"
	"metasecure-core/internal/history"
	"metasecure-core/internal/journal"
	"metasecure-core/internal/ledger"
	"metasecure-core/internal/model"
	"metasecure-core/internal/notify"
	"metasecure-core/internal/server"
	"metasecure-core/internal/service/mq"
	"metasecure-core/internal/session"
	"metasecure-core/internal/txcoord"
	"metasecure-core/internal/wallet"
	"metasecure-core/pkg/cache"
	"metasecure-core/pkg/config"
	"metasecure-core/pkg/database"
	"metasecure-core/pkg/logger"
	"metasecure-core/pkg/validator"
)

// @title MetaSecure Core API
// @version 1.0
// @description Wallet-session and transaction-submission coordinator

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// 0. Config
	config.Init()

	// 1. Logger
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	validator.Init()

	// 2. Redis: backs the persistent counter mirror and the notification
	// stream. Optional; without it both fall back to in-process stand-ins.
	var rdb *redis.Client
	if config.Global.Redis.Addr != "" {
		var err error
		rdb, err = database.ConnectRedis(config.Global.Redis.Addr, config.Global.Redis.Password, config.Global.Redis.DB)
		if err != nil {
			logger.Warn("redis unavailable, using in-memory counter cache", zap.Error(err))
			rdb = nil
		}
	}

	var counterCache cache.Cache
	if rdb != nil {
		counterCache = cache.NewRedisCache(rdb)
	} else {
		counterCache = cache.NewMemoryCache(0, 10*time.Minute)
	}

	// 3. Submission journal (optional)
	var jnl *journal.Journal
	if config.Global.Journal.Enabled {
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			config.Global.Journal.Host,
			config.Global.Journal.User,
			config.Global.Journal.Password,
			config.Global.Journal.Name,
			config.Global.Journal.Port,
		)
		db, err := database.ConnectPostgres(dsn)
		if err != nil {
			logger.Fatal("journal database connection failed", zap.Error(err))
		}
		if config.Global.App.Env == "development" {
			if err := db.AutoMigrate(model.AllModels()...); err != nil {
				logger.Fatal("journal auto-migration failed", zap.Error(err))
			}
		}
		jnl = journal.New(db)
	}

	// 4. Notification sink
	var notifier notify.Notifier
	var kafkaProducer *mq.KafkaProducer
	switch {
	case config.Global.Redis.MQType == "kafka":
		kafkaProducer = mq.NewKafkaProducer(config.Global.Kafka.Brokers, config.Global.Notify.Topic)
		notifier = notify.NewStreamNotifier(kafkaProducer, config.Global.Notify.Topic)
	case rdb != nil:
		producer := mq.NewRedisProducer(rdb)
		notifier = notify.NewStreamNotifier(producer, config.Global.Notify.Topic)
	default:
		notifier = notify.NewLogNotifier()
	}

	// 5. Wallet provider. Absent is a supported state: the coordinator
	// runs, refuses connects, and serves empty history.
	var provider wallet.Provider
	var eth *ethclient.Client
	rpcProvider, ok := wallet.Detect(config.Global.Wallet)
	if ok {
		provider = rpcProvider
		eth = ethclient.NewClient(rpcProvider.Raw())
	} else {
		logger.Warn("no wallet provider configured or reachable")
	}

	// 6. Ledger contract
	ledgerFactory := ledger.NewFactory(provider, eth, config.Global.Contract)

	var source history.SourceFactory
	if provider != nil {
		source = func(account string) (history.Source, error) {
			return ledgerFactory.Connect(account)
		}
	}
	reconciler := history.NewReconciler(source, notifier)

	// 7. Session manager. A chain change invalidates cached contract
	// bindings and in-flight state, so the process restarts itself (the
	// supervisor brings it back on the new chain).
	reload := func() {
		logger.Warn("chain changed: restarting for clean re-initialization")
		proc, err := os.FindProcess(os.Getpid())
		if err == nil {
			_ = proc.Signal(syscall.SIGTERM)
		}
	}
	manager := session.NewManager(provider, reconciler, notifier, reload)

	// 8. Transaction orchestrator
	counterStore := counter.NewStore(counterCache)
	orchestrator := txcoord.NewOrchestrator(provider, ledgerFactory, counterStore, reconciler, notifier, manager, jnl)
	manager.OnDisconnect(orchestrator.ResetDraft)

	// 9. Startup: change events, silent session resume, count priming
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if rpcProvider != nil && ok {
		rpcProvider.StartEvents(ctx)
	}
	manager.Start()
	defer manager.Close()

	if err := manager.Resume(ctx); err != nil {
		logger.Warn("session resume failed", zap.Error(err))
	}
	orchestrator.InitCount(ctx)

	// 10. HTTP server
	router := server.NewHTTPRouter(
		handler.NewSessionHandler(manager),
		handler.NewTransactionHandler(orchestrator, reconciler, manager, jnl),
	)

	app := server.New(server.Config{HttpPort: config.Global.App.HttpPort}, router)
	app.Run()

	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			logger.Warn("kafka producer close failed", zap.Error(err))
		}
	}
	if rdb != nil {
		rdb.Close()
	}
	logger.Info("coordinator stopped")
}
