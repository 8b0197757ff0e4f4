package main

import (
	"context"
	"os/signal"
	"syscall"

	"campusforum/internal/config"
	"campusforum/internal/model"
	"campusforum/internal/pkg"
	"campusforum/internal/repository/mysql"
	"campusforum/internal/repository/redis"
	"campusforum/internal/router"
	"campusforum/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := pkg.NewLogger(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pkg.SetSecrets(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)

	db, err := mysql.InitDB(cfg.MySQLDSN)
	if err != nil {
		log.Fatal("mysql init failed", zap.Error(err))
	}

	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.Fatal("redis init failed", zap.Error(err))
	}
	defer redis.Close()

	if err := db.AutoMigrate(
		&model.User{},
		&model.Article{},
		&model.Comment{},
		&model.Like{},
		&model.Follow{},
		&model.EngagementOutbox{},
	); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	userSvc := service.NewUserService(db, log).WithMail(pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err := userSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("admin seed failed", zap.Error(err))
	}

	// engagement events: outbox rows drain to Kafka, or just the log when
	// no brokers are configured
	sender := service.LogSender(log)
	if len(cfg.KafkaBrokers) > 0 {
		producer := pkg.NewEventProducer(pkg.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	relayer := service.NewOutboxRelayer(db, sender, log)
	go relayer.Run(ctx)

	r := router.InitRouter(router.Services{
		User:       userSvc,
		Article:    service.NewArticleService(db),
		Comment:    service.NewCommentService(db),
		Engagement: service.NewEngagementService(db),
		Query:      service.NewQueryService(db),
	})

	log.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
