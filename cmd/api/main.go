package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"clientra/internal/core/auth"
	"clientra/internal/core/cache"
	"clientra/internal/core/config"
	"clientra/internal/core/database"
	"clientra/internal/core/logger"
	"clientra/internal/core/server"
	"clientra/internal/domain"
	"clientra/internal/repo"
	"clientra/internal/repo/memory"
	"clientra/internal/service"
	"clientra/internal/transport/http/handler"
	"clientra/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, cleanup := logger.Build(logger.Options{
		Level:     cfg.Log.Level,
		JSON:      cfg.Log.JSON,
		AddCaller: true,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if !cfg.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	checks := map[string]handler.Pinger{}

	// 存储
	var (
		users     domain.UserRepository
		customers domain.CustomerRepository
	)
	if cfg.DB.Driver == config.DriverMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		users, customers = memory.NewUserRepo(), memory.NewCustomerRepo()
	} else {
		db, err := database.NewGorm(database.Opts{
			Driver:             cfg.DB.Driver,
			DSN:                cfg.DB.DSN,
			Username:           cfg.DB.Username,
			Password:           cfg.DB.Password,
			MaxOpenConns:       cfg.DB.MaxOpenConns,
			MaxIdleConns:       cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           cfg.DB.LogLevel,
			Log:                log,
		})
		if err != nil {
			log.Fatal("db open", zap.Error(err))
		}
		defer func() { _ = database.Close(db) }()
		log.Info("database connected", zap.String("driver", cfg.DB.Driver))

		if cfg.DB.AutoMigrate {
			if err := database.Migrate(db); err != nil {
				log.Fatal("automigrate failed", zap.Error(err))
			}
			log.Info("automigrate done")
		}
		users, customers = repo.NewUserRepo(db), repo.NewCustomerRepo(db)
		checks["db"] = func(ctx context.Context) error { return database.Ping(ctx, db) }
	}

	// 可选 redis：客户读缓存 + 登出黑名单
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		Deny:   auth.NoopDenyList{},
	}
	custOpts := []service.CustomerOption{service.WithLogger(log)}
	if cfg.Redis.Enabled() {
		rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = rc.Close() }()
		pctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rc.Ping(pctx); err != nil {
			log.Warn("redis unreachable at startup", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		cancel()
		jwter.Deny = cache.NewDenyList(rc)
		custOpts = append(custOpts, service.WithCache(rc, time.Duration(cfg.Redis.CacheTTLSec)*time.Second))
		checks["redis"] = rc.Ping
	}

	r := router.NewAPIEngine(router.Deps{
		Log:       log,
		Auth:      service.NewAuthService(users, jwter, log),
		Customers: service.NewCustomerService(customers, custOpts...),
		Checks:    checks,
		Limits:    cfg.Limits,
		Debug:     cfg.App.IsDevelopment(),
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("clientra api starting",
		zap.String("env", cfg.App.Env),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("clientra api stopped with error", zap.Error(err))
	}
}
