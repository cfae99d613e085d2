package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-admin-boilerplate/internal/core/auth"
	"go-admin-boilerplate/internal/core/config"
	"go-admin-boilerplate/internal/core/database"
	"go-admin-boilerplate/internal/core/logger"
	"go-admin-boilerplate/internal/core/password"
	"go-admin-boilerplate/internal/core/server"
	"go-admin-boilerplate/internal/core/session"
	"go-admin-boilerplate/internal/domain"
	"go-admin-boilerplate/internal/notify"
	"go-admin-boilerplate/internal/repo"
	"go-admin-boilerplate/internal/service"
	"go-admin-boilerplate/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.Role{}, &domain.User{}, &domain.ResetToken{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// 仓库 + 服务
	userRepo := repo.NewUserRepo(db)
	roleRepo := repo.NewRoleRepo(db)
	tokenRepo := repo.NewResetTokenRepo(db)

	roleSvc := service.NewRoleService(db, roleRepo, log)
	// 内置角色：先种再对账，多实例并发启动也安全
	if err := roleSvc.SeedIfRequired(cfg.DB.Seed); err != nil {
		log.Fatal("seed roles failed", zap.Error(err))
	}
	if err := roleSvc.UpdateSystemRoles(); err != nil {
		log.Fatal("update system roles failed", zap.Error(err))
	}

	policy := password.FromConfig(cfg.Password)
	userSvc := service.NewUserService(userRepo, roleRepo, policy)

	signer := &auth.ResetSigner{
		Secret: []byte(cfg.Reset.Secret),
		Issuer: cfg.App.Name,
		TTL:    time.Duration(cfg.Reset.ValidityMin) * time.Minute,
	}
	authSvc := service.NewAuthService(
		db, userRepo, tokenRepo,
		newSessionStore(cfg), signer, newMailer(cfg, log), policy, log,
		service.AuthOpts{
			SessionTTL: time.Duration(cfg.Session.TimeoutMin) * time.Minute,
			ResetTTL:   time.Duration(cfg.Reset.ValidityMin) * time.Minute,
			BaseURL:    cfg.App.HTTP.BaseURL,
		},
	)

	// 路由
	r := router.NewAPIEngine(router.Deps{
		Log:   log,
		Auth:  authSvc,
		Users: userSvc,
		Roles: roleSvc,
		Cookie: router.CookieOpts{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.Session.TimeoutMin * 60,
			Secure: cfg.Session.CookieSecure,
		},
	})

	// HTTP Server
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
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start FAILED", zap.Error(err))
		}
	}()
	log.Info("admin api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("admin api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File != "" {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File,
			cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays, cfg.Log.Compress)
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

func newSessionStore(cfg *config.Config) session.Store {
	if cfg.Session.Store == "redis" {
		return session.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}
	return session.NewMemoryStore()
}

func newMailer(cfg *config.Config, l *zap.Logger) notify.Mailer {
	if cfg.Mail.Enabled {
		return notify.NewSMTPMailer(cfg.Mail)
	}
	return notify.NewLogMailer(l)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
